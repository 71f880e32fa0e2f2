package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/soilsense/internal/db"
	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
)

const keyPrefix = "soilsense:session:"

// store is the consumer interface for session caching (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo keeps the last-known environmental reading per session.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a session repository. Entries expire after ttl.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Load returns the cached reading, or domain.ErrNotFound.
func (r *Repo) Load(ctx context.Context, sessionID string) (environment.Reading, error) {
	data, err := r.store.Get(ctx, key(sessionID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return environment.Reading{}, domain.ErrNotFound
		}
		return environment.Reading{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return readingFromJSON(data)
}

// Save overwrites the cached reading and refreshes its TTL.
func (r *Repo) Save(ctx context.Context, sessionID string, reading environment.Reading) error {
	data, err := readingToJSON(reading)
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, key(sessionID), data, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Delete drops the cached reading. Missing sessions are not an error.
func (r *Repo) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, key(sessionID)); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}
