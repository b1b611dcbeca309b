package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	c := NewRedisCache(m.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, m
}

func TestRedisCache_SetGet(t *testing.T) {
	c, m := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "author:1", entry{Name: "Austen", Count: 2}, time.Minute))
	assert.Equal(t, time.Minute, m.TTL("author:1"))

	var got entry
	hit, err := c.Get(ctx, "author:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, entry{Name: "Austen", Count: 2}, got)
}

func TestRedisCache_StringRoundTrip(t *testing.T) {
	c, m := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "hello", time.Minute))

	var out string
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "hello", out)
	assert.True(t, m.Exists("k"))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got := entry{Name: "untouched"}
	hit, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "untouched", got.Name)
}

func TestRedisCache_CorruptEntryIsDropped(t *testing.T) {
	c, m := newTestCache(t)
	require.NoError(t, m.Set("author:bad", "{not json"))

	var got entry
	hit, err := c.Get(context.Background(), "author:bad", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, m.Exists("author:bad"))
}

func TestRedisCache_ServerError(t *testing.T) {
	c, m := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	m.SetError("ERR injected failure")
	var got entry
	_, err := c.Get(ctx, "author:1", &got)
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "author:1", got, time.Minute))
	assert.Error(t, c.Ping(ctx))

	m.SetError("")
	assert.NoError(t, c.Ping(ctx))
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, m := newTestCache(t)
	ctx := context.Background()

	// more than one SCAN batch
	for i := 0; i < 250; i++ {
		require.NoError(t, m.Set(fmt.Sprintf("authors:list:family_name:asc::20:%d", i*20), "{}"))
	}
	require.NoError(t, m.Set("author:keep", "{}"))

	require.NoError(t, c.DeletePattern(ctx, "authors:list:*"))
	assert.Equal(t, []string{"author:keep"}, m.Keys())

	require.NoError(t, c.DeletePattern(ctx, "authors:list:*"))
}

func TestRedisCache_Delete(t *testing.T) {
	c, m := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	require.NoError(t, c.Delete(ctx))
	require.NoError(t, c.Delete(ctx, "a", "b", "c"))
	assert.Empty(t, m.Keys())
}
