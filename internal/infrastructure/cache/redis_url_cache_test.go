package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/cache"
	"github.com/jhoicas/sgsst-docs-api/internal/infrastructure/memory"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

func setupTestRedis(t *testing.T) (*cache.RedisURLCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	c, err := cache.NewRedisURLCache(context.Background(), "redis://"+s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, s
}

func TestRedisURLCache_SetGetExpira(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "download-url:documents:a.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "download-url:documents:a.pdf", "https://s3/a.pdf?sig", time.Minute))
	url, ok, err := c.Get(ctx, "download-url:documents:a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://s3/a.pdf?sig", url)

	s.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "download-url:documents:a.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisURLCache_Delete(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "no-existe"))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisURLCache_ConectaFalla(t *testing.T) {
	_, err := cache.NewRedisURLCache(context.Background(), "no-es-url")
	assert.Error(t, err)
}

func TestLinks_ReutilizaURLCacheada(t *testing.T) {
	c, s := setupTestRedis(t)
	ctx := context.Background()
	objects := memory.NewObjectStorage()
	_, err := objects.Put(ctx, ports.BucketDocuments, "c/p/d/v/1.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)

	links := files.NewLinks(objects, c, 10*time.Minute, logger.Nop())
	first, err := links.URL(ctx, ports.BucketDocuments, "c/p/d/v/1.pdf")
	require.NoError(t, err)
	assert.Len(t, s.Keys(), 1)

	second, err := links.URL(ctx, ports.BucketDocuments, "c/p/d/v/1.pdf")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	links.Forget(ctx, ports.BucketDocuments, "c/p/d/v/1.pdf")
	assert.Empty(t, s.Keys())
}
