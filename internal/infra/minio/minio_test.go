package minio

import (
	"context"
	"strings"
	"testing"

	"foodgram-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:9000/recipe-images/recipes/a.png",
		PublicURL("", "127.0.0.1:9000", false, "recipe-images", "recipes/a.png"))
	assert.Equal(t, "https://s3.example.com/recipe-images/recipes/a.png",
		PublicURL("", "s3.example.com", true, "recipe-images", "recipes/a.png"))
	assert.Equal(t, "https://cdn.example.com/recipe-images/recipes/a.png",
		PublicURL("https://cdn.example.com/", "minio:9000", false, "recipe-images", "recipes/a.png"))
}

func TestObjectName(t *testing.T) {
	a, b := ObjectName(".png"), ObjectName(".png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "recipes/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestPublicReadPolicy(t *testing.T) {
	assert.Contains(t, PublicReadPolicy("recipe-images"), "arn:aws:s3:::recipe-images/*")
}

func TestImageStore_RequiresClient(t *testing.T) {
	client = nil
	store := NewImageStore(&config.MinIOConfig{ImageBucket: "recipe-images"})
	_, err := store.Save(context.Background(), []byte{1}, "image/png", ".png")
	require.Error(t, err)
}
