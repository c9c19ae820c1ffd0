package storage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mini-rec/backend/pkg/storage"
)

func TestNewVideoKey(t *testing.T) {
	key := storage.NewVideoKey("user-a", "video/webm")
	assert.True(t, strings.HasPrefix(key, "videos/user-a/"))
	assert.True(t, strings.HasSuffix(key, ".webm"))

	other := storage.NewVideoKey("user-a", "video/webm")
	assert.NotEqual(t, key, other, "concurrent uploads must never collide")

	mp4 := storage.NewVideoKey("user-b", "video/mp4")
	assert.True(t, strings.HasPrefix(mp4, "videos/user-b/"))
	assert.True(t, strings.HasSuffix(mp4, ".mp4"))
}

func TestExtForContentType(t *testing.T) {
	ext, ok := storage.ExtForContentType("video/webm")
	assert.True(t, ok)
	assert.Equal(t, ".webm", ext)

	_, ok = storage.ExtForContentType("image/png")
	assert.False(t, ok)

	_, ok = storage.ExtForContentType("")
	assert.False(t, ok)
}
