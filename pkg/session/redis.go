package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/sketch"
)

const redisKeyPrefix = "websketch:session:"

// RedisStore persists each session as one JSON document under a TTL key.
// Redis handles expiry; every read and write renews it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at the given URL
// (e.g. "redis://localhost:6379/0") and verifies the connection.
// A zero ttl means DefaultTTL.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "invalid redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to connect to redis")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreFromClient wraps an existing client, mainly for tests.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, initial []sketch.Component, id string) (string, error) {
	sess := NewSession(id, initial)
	if err := s.write(ctx, sess); err != nil {
		return "", err
	}
	return sess.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to get session %s", id)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "corrupt session document %s", id)
	}

	// Access renews the TTL. A failure here is not worth failing the read.
	s.client.Expire(ctx, redisKey(id), s.ttl)
	return &sess, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, req UpdateRequest) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.apply(req)
	return s.write(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to delete session %s", id)
	}
	return nil
}

func (s *RedisStore) ExtendTTL(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, redisKey(id), s.ttl).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to extend ttl for session %s", id)
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) write(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to encode session %s", sess.ID)
	}
	if err := s.client.Set(ctx, redisKey(sess.ID), data, s.ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to store session %s", sess.ID)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
