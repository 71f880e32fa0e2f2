package acquire

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/domain/quota"
	"github.com/kailas-cloud/soilsense/internal/logger"
)

// QuotaStore persists provider call counters so restarts keep counting.
type QuotaStore interface {
	Add(ctx context.Context, provider string, p quota.Period, at time.Time, n int64) error
	Used(ctx context.Context, provider string, p quota.Period, at time.Time) (int64, error)
}

// Quota tracks calls against a provider's daily and monthly allowance.
// Allow is in-memory only; Record writes through to the store when one is attached.
type Quota struct {
	mu       sync.Mutex
	provider string
	limits   map[quota.Period]int64
	used     map[quota.Period]int64
	windows  map[quota.Period]time.Time
	store    QuotaStore
	now      func() time.Time
}

// NewQuota creates a tracker. A zero limit disables that window.
func NewQuota(provider string, daily, monthly int64) *Quota {
	q := &Quota{
		provider: provider,
		limits:   map[quota.Period]int64{quota.Daily: daily, quota.Monthly: monthly},
		used:     map[quota.Period]int64{},
		windows:  map[quota.Period]time.Time{},
		now:      time.Now,
	}
	q.roll()
	return q
}

// WithClock overrides the time source. Call before WithStore.
func (q *Quota) WithClock(now func() time.Time) *Quota {
	q.now = now
	q.windows = map[quota.Period]time.Time{}
	q.roll()
	return q
}

// WithStore attaches persistence and loads the current window counters.
// Load failures start the window from zero.
func (q *Quota) WithStore(ctx context.Context, s QuotaStore) *Quota {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.store = s
	now := q.now()
	for p := range q.limits {
		n, err := s.Used(ctx, q.provider, p, now)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to load provider quota",
				zap.String("provider", q.provider), zap.String("period", string(p)), zap.Error(err))
			continue
		}
		q.used[p] = n
	}
	return q
}

// Allow fails with domain.ErrQuotaExceeded once any limited window is spent.
func (q *Quota) Allow() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.roll()
	for p, limit := range q.limits {
		if limit > 0 && q.used[p] >= limit {
			return fmt.Errorf("%w: %s %s limit %d", domain.ErrQuotaExceeded, q.provider, p, limit)
		}
	}
	return nil
}

// Record counts one call.
func (q *Quota) Record(ctx context.Context) {
	q.mu.Lock()
	q.roll()
	for p := range q.limits {
		q.used[p]++
	}
	s := q.store
	now := q.now()
	q.mu.Unlock()

	if s == nil {
		return
	}
	// Detached from the request so a cancelled request still gets counted.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	for p := range q.limits {
		if err := s.Add(wctx, q.provider, p, now, 1); err != nil {
			logger.FromContext(ctx).Warn("Failed to persist provider quota",
				zap.String("provider", q.provider), zap.String("period", string(p)), zap.Error(err))
		}
	}
}

// Snapshot returns the state of one window.
func (q *Quota) Snapshot(p quota.Period) quota.Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.roll()
	return quota.Snapshot{Period: p, Limit: q.limits[p], Used: q.used[p]}
}

// roll zeroes counters whose window has passed. Caller holds mu (or owns q).
func (q *Quota) roll() {
	now := q.now()
	for p := range q.limits {
		start := p.Start(now)
		if start.After(q.windows[p]) {
			if !q.windows[p].IsZero() {
				q.used[p] = 0
			}
			q.windows[p] = start
		}
	}
}

// LimitedWeather enforces a call quota on a weather provider.
type LimitedWeather struct {
	inner WeatherLookup
	quota *Quota
}

// NewLimitedWeather wraps inner with q.
func NewLimitedWeather(inner WeatherLookup, q *Quota) *LimitedWeather {
	return &LimitedWeather{inner: inner, quota: q}
}

// Humidity calls the provider unless its quota is spent. Failed calls count too.
func (l *LimitedWeather) Humidity(ctx context.Context, p geo.Point) (float64, error) {
	if err := l.quota.Allow(); err != nil {
		return 0, err
	}
	h, err := l.inner.Humidity(ctx, p)
	l.quota.Record(ctx)
	return h, err //nolint:wrapcheck // provider errors are already descriptive
}
