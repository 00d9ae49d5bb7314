package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements scs.Store on go-redis. Expiry is delegated to the
// key TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "mealmatch:session:"}
}

func (s *RedisStore) Find(token string) ([]byte, bool, error) {
	b, err := s.rdb.Get(context.Background(), s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) Commit(token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.Delete(token)
	}
	return s.rdb.Set(context.Background(), s.prefix+token, b, ttl).Err()
}

func (s *RedisStore) Delete(token string) error {
	return s.rdb.Del(context.Background(), s.prefix+token).Err()
}
