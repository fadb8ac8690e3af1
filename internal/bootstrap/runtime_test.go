package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"artboard/internal/config"
	"artboard/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Document(t *testing.T) {
	cfg := &config.Config{
		StoreBackend: config.BackendDocument,
		DocumentPath: filepath.Join(t.TempDir(), "data", "feed.json"),
	}

	s, err := OpenStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// The missing data directory was created for the first write.
	post, err := s.CreatePost(context.Background(), store.CreatePostInput{
		Name:      "Ana",
		Title:     "Sunrise",
		Image:     []byte{0x01},
		MimeType:  "image/png",
		CreatedAt: 1000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
}

func TestOpenStore_RelationalSQLite(t *testing.T) {
	cfg := &config.Config{
		StoreBackend: config.BackendRelational,
		DBDriver:     config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "artboard.db"),
	}

	s, err := OpenStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	post, err := s.CreatePost(ctx, store.CreatePostInput{
		Name:      "Bo",
		Title:     "Harbor",
		Image:     []byte{0x01},
		MimeType:  "image/jpeg",
		CreatedAt: 2000,
	})
	require.NoError(t, err)

	count, err := s.AdjustLike(ctx, post.ID, store.DirectionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].LikeCount)
}

func TestOpenStore_UnsupportedBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: "memory"}

	s, err := OpenStore(cfg)
	assert.Nil(t, s)
	assert.Error(t, err)
}
