package quota

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/soilsense/internal/db"
	domquota "github.com/kailas-cloud/soilsense/internal/domain/quota"
)

// --- Mocks ---

type mockStore struct {
	counters map[string]int64
	ttls     map[string]time.Duration
	raw      map[string][]byte
	incrErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		counters: map[string]int64{},
		ttls:     map[string]time.Duration{},
		raw:      map[string][]byte{},
	}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if b, ok := m.raw[key]; ok {
		return b, nil
	}
	v, ok := m.counters[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(strconv.FormatInt(v, 10)), nil
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	m.counters[key] += val
	return nil
}

func (m *mockStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if _, set := m.ttls[key]; set && nx {
		return nil
	}
	m.ttls[key] = ttl
	return nil
}

var at = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// --- Tests ---

func TestRepo_AddUsed(t *testing.T) {
	s := newMockStore()
	r := New(s)
	ctx := context.Background()

	for range 3 {
		if err := r.Add(ctx, "openweather", domquota.Daily, at, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := r.Used(ctx, "openweather", domquota.Daily, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("used = %d, want 3", got)
	}

	k := "soilsense:quota:openweather:daily:2026-03-14"
	if s.ttls[k] != 48*time.Hour {
		t.Errorf("ttl for %s = %v", k, s.ttls[k])
	}
}

func TestRepo_MonthlyKey(t *testing.T) {
	s := newMockStore()
	r := New(s)
	if err := r.Add(context.Background(), "openweather", domquota.Monthly, at, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k := "soilsense:quota:openweather:monthly:2026-03"
	if s.counters[k] != 2 {
		t.Errorf("counter %s = %d", k, s.counters[k])
	}
	if s.ttls[k] != 62*24*time.Hour {
		t.Errorf("ttl = %v", s.ttls[k])
	}
}

func TestRepo_UsedMissingIsZero(t *testing.T) {
	r := New(newMockStore())
	got, err := r.Used(context.Background(), "openweather", domquota.Daily, at)
	if err != nil || got != 0 {
		t.Errorf("Used = %d, %v; want 0, nil", got, err)
	}
}

func TestRepo_Errors(t *testing.T) {
	s := newMockStore()
	s.incrErr = errors.New("conn reset")
	r := New(s)
	if err := r.Add(context.Background(), "openweather", domquota.Daily, at, 1); err == nil {
		t.Error("expected incr error")
	}

	s.raw["soilsense:quota:openweather:daily:2026-03-14"] = []byte("many")
	if _, err := r.Used(context.Background(), "openweather", domquota.Daily, at); err == nil {
		t.Error("expected parse error")
	}
}
