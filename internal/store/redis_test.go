package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisAppliesSettings(t *testing.T) {
	r := NewRedis("redis.internal:6380", 3, 5*time.Second)
	opts := r.Client.Options()
	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)

	r = NewRedis("localhost:6379", 0, 0)
	assert.Equal(t, 2*time.Second, r.Client.Options().DialTimeout, "non-positive timeout falls back")
}

func TestRedisHealthyNilSafe(t *testing.T) {
	var r *Redis
	assert.False(t, r.Healthy(context.Background()))
	assert.False(t, (&Redis{}).Healthy(context.Background()))
}
