package quota

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/soilsense/internal/db"
	domquota "github.com/kailas-cloud/soilsense/internal/domain/quota"
)

const keyPrefix = "soilsense:quota:"

// Counter keys outlive their window so a late write cannot resurrect an expired count.
const (
	dailyTTL   = 48 * time.Hour
	monthlyTTL = 62 * 24 * time.Hour
)

// store is the consumer interface for quota counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Repo persists provider call counters (INCRBY + EXPIRE NX).
type Repo struct {
	store store
}

// New creates a quota repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Add increments the provider's counter for the window containing at.
func (r *Repo) Add(ctx context.Context, provider string, p domquota.Period, at time.Time, n int64) error {
	k := key(provider, p, at)
	if err := r.store.IncrBy(ctx, k, n); err != nil {
		return fmt.Errorf("quota incr %s: %w", k, err)
	}
	// NX keeps the first expiry so repeated calls do not extend the window.
	if err := r.store.Expire(ctx, k, ttl(p), true); err != nil {
		return fmt.Errorf("quota expire %s: %w", k, err)
	}
	return nil
}

// Used returns the provider's counter for the window containing at. Missing keys read as 0.
func (r *Repo) Used(ctx context.Context, provider string, p domquota.Period, at time.Time) (int64, error) {
	k := key(provider, p, at)
	data, err := r.store.Get(ctx, k)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("quota get %s: %w", k, err)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quota get %s parse: %w", k, err)
	}
	return v, nil
}

func key(provider string, p domquota.Period, at time.Time) string {
	return keyPrefix + provider + ":" + string(p) + ":" + p.Label(at)
}

func ttl(p domquota.Period) time.Duration {
	if p == domquota.Monthly {
		return monthlyTTL
	}
	return dailyTTL
}
