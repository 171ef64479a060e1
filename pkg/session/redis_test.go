package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websketch/websketch/pkg/ops"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, ttl)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, 0)

	id, err := store.Create(ctx, initialSketch(), "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.True(t, mr.Exists(redisKey(id)), "session key missing in redis")

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Len(t, sess.CurrentSketch, 2)
	assert.Equal(t, "button-1", sess.CurrentSketch[1].ID)
}

func TestRedisStoreKeyNamespace(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, 0)

	id, err := store.Create(ctx, initialSketch(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
	assert.True(t, mr.Exists("websketch:session:abc123"))
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)

	_, err := store.Get(context.Background(), "nope")
	assert.True(t, IsNotFound(err), "err = %v", err)
}

func TestRedisStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, 0)

	id, err := store.Create(ctx, initialSketch(), "")
	require.NoError(t, err)

	moved := initialSketch()
	moved[0].Y = 200
	err = store.Update(ctx, id, UpdateRequest{
		CurrentSketch: moved,
		Operations: []ops.Operation{
			{Type: ops.OpMove, ComponentID: "input-1", X: ops.Float(83), Y: ops.Float(200)},
		},
		Message: &Message{Role: "assistant", Content: "Moved the input down."},
	})
	require.NoError(t, err)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 200.0, sess.CurrentSketch[0].Y)
	assert.Equal(t, 200.0, sess.LatestSketch[0].Y)
	assert.Equal(t, 38.0, sess.InitialSketch[0].Y, "initial sketch must be immutable")
	require.Len(t, sess.OperationHistory, 1)
	require.Len(t, sess.MessageHistory, 1)
	assert.Equal(t, "assistant", sess.MessageHistory[0].Role)
}

func TestRedisStoreUpdateMissing(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)

	err := store.Update(context.Background(), "nope", UpdateRequest{})
	assert.True(t, IsNotFound(err), "err = %v", err)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, 0)

	id, err := store.Create(ctx, initialSketch(), "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	assert.False(t, mr.Exists(redisKey(id)))

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(ctx, id))
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Hour)

	id, err := store.Create(ctx, initialSketch(), "")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(redisKey(id)))

	// Expiry is simulated by fast-forwarding miniredis's clock.
	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, id)
	assert.True(t, IsNotFound(err), "err = %v", err)
}

func TestRedisStoreExtendTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Hour)

	id, err := store.Create(ctx, initialSketch(), "")
	require.NoError(t, err)

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.ExtendTTL(ctx, id))
	assert.Equal(t, time.Hour, mr.TTL(redisKey(id)))

	assert.True(t, IsNotFound(store.ExtendTTL(ctx, "nope")))
}
