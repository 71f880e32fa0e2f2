package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/soilsense/internal/db"
)

// Get returns db.ErrKeyNotFound for a missing key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL writes value with SET EX. Sessions and cached readings always expire.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.exec(ctx, db.OpSet, s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build())
}

// Del is a no-op for a missing key.
func (s *Store) Del(ctx context.Context, key string) error {
	return s.exec(ctx, db.OpDel, s.client.B().Del().Key(key).Build())
}

// IncrBy adds val to the counter at key, creating it at zero.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	return s.exec(ctx, db.OpIncrBy, s.client.B().Incrby().Key(key).Increment(val).Build())
}

// Expire sets a key's TTL in whole seconds. With nx an existing expiry is kept.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	secs := s.client.B().Expire().Key(key).Seconds(int64(ttl / time.Second))
	if nx {
		return s.exec(ctx, db.OpExpire, secs.Nx().Build())
	}
	return s.exec(ctx, db.OpExpire, secs.Build())
}

func (s *Store) exec(ctx context.Context, op string, cmd rueidis.Completed) error {
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}
