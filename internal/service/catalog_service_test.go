package service

import (
	"context"
	"encoding/json"
	"testing"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache 以 JSON 存储的内存缓存，行为与 Redis 实现一致
type memoryCache struct {
	data map[string][]byte
	hits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestTagService_ListUsesCache(t *testing.T) {
	db := testutil.NewDB(t)
	cache := newMemoryCache()
	tags := NewTagService(repository.NewTagRepository(db), cache)
	ctx := context.Background()
	testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")

	first, err := tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Zero(t, cache.hits)

	second, err := tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)

	created, err := tags.Create(ctx, &dto.CreateTagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch"})
	require.NoError(t, err)

	third, err := tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, third, 2)
	assert.Equal(t, created.ID, third[1].ID)
}

func TestTagService_CreateAndUpdateValidation(t *testing.T) {
	db := testutil.NewDB(t)
	tags := NewTagService(repository.NewTagRepository(db), nil)
	ctx := context.Background()

	lunch, err := tags.Create(ctx, &dto.CreateTagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch"})
	require.NoError(t, err)

	_, err = tags.Create(ctx, &dto.CreateTagRequest{Name: "Bad", Color: "49B64E0", Slug: "bad"})
	assert.Equal(t, "color", requireKind(t, err, KindValidation).Field)

	_, err = tags.Create(ctx, &dto.CreateTagRequest{Name: "Bad", Color: "#000000", Slug: "no spaces"})
	assert.Equal(t, "slug", requireKind(t, err, KindValidation).Field)

	_, err = tags.Create(ctx, &dto.CreateTagRequest{Name: "Lunch", Color: "#111111", Slug: "lunch-2"})
	assert.ErrorIs(t, err, ErrTagExists)

	updated, err := tags.Update(ctx, lunch.ID, &dto.UpdateTagRequest{Color: strPtr("#ABCDEF")})
	require.NoError(t, err)
	assert.Equal(t, "#ABCDEF", updated.Color)
	assert.Equal(t, "lunch", updated.Slug)

	_, err = tags.Update(ctx, 9999, &dto.UpdateTagRequest{Name: strPtr("Ghost")})
	assert.ErrorIs(t, err, ErrTagNotFound)

	_, err = tags.Get(9999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestIngredientService(t *testing.T) {
	db := testutil.NewDB(t)
	ingredients := NewIngredientService(repository.NewIngredientRepository(db))

	salt, err := ingredients.Create(&dto.CreateIngredientRequest{Name: "salt", MeasurementUnit: "g"})
	require.NoError(t, err)
	_, err = ingredients.Create(&dto.CreateIngredientRequest{Name: "sea salt", MeasurementUnit: "g"})
	require.NoError(t, err)

	found, err := ingredients.Search("sea")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sea salt", found[0].Name)

	found, err = ingredients.Search("salt")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, salt.ID, found[0].ID)

	updated, err := ingredients.Update(salt.ID, &dto.UpdateIngredientRequest{MeasurementUnit: strPtr("pinch")})
	require.NoError(t, err)
	assert.Equal(t, "pinch", updated.MeasurementUnit)
	assert.Equal(t, "salt", updated.Name)

	_, err = ingredients.Get(9999)
	assert.ErrorIs(t, err, ErrIngredientNotFound)
}

func TestSearchService_FallsBackToDatabase(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	soup, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Tomato soup", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	require.NoError(t, err)
	_, err = f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Pancakes", []int64{f.breakfast.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 1}))
	require.NoError(t, err)
	_, err = f.collections.Add(model.CollectionFavorite, f.bob.ID, soup.ID)
	require.NoError(t, err)

	data, err := f.search.SearchRecipes(ctx, &dto.SearchRecipeRequest{Q: "soup"}, &f.bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "database", data.Source)
	assert.Equal(t, int64(1), data.Total)
	require.Len(t, data.Recipes, 1)
	assert.Equal(t, soup.ID, data.Recipes[0].ID)
	assert.True(t, data.Recipes[0].IsFavorited)

	all, err := f.search.SearchRecipes(ctx, &dto.SearchRecipeRequest{}, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestBuildRecipeSearchQuery(t *testing.T) {
	q := BuildRecipeSearchQuery("soup", 3, 10)
	assert.Equal(t, 20, q["from"])
	assert.Equal(t, 10, q["size"])

	multi := q["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "soup", multi["query"])
	assert.Equal(t, []string{"name^3", "ingredients^2", "text"}, multi["fields"])

	empty := BuildRecipeSearchQuery("", 1, 6)
	assert.Contains(t, empty["query"], "match_all")
}
