package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_SetAndGet(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()

	require.NoError(t, c.Set(context.Background(), "incident:count|incidentType=failedJob", int64(42), 0))

	var n int64
	hit, err := c.Get(context.Background(), "incident:count|incidentType=failedJob", &n)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(42), n)
}

func TestInMemoryCache_MissOnUnknownKey(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()

	var n int64
	hit, err := c.Get(context.Background(), "nope", &n)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()

	require.NoError(t, c.Set(context.Background(), "k", int64(1), 1))
	time.Sleep(1100 * time.Millisecond)

	var n int64
	hit, err := c.Get(context.Background(), "k", &n)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Delete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()

	require.NoError(t, c.Set(context.Background(), "k", int64(1), 0))
	require.NoError(t, c.Delete(context.Background(), "k"))

	var n int64
	hit, _ := c.Get(context.Background(), "k", &n)
	assert.False(t, hit)
}
