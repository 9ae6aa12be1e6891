package service

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"testing"

	"foodgram-go/internal/api/dto"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/model"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeFixture struct {
	*env
	alice, bob        *model.User
	flour, egg, sugar *model.Ingredient
	breakfast, lunch  *model.Tag
	dinner            *model.Tag
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	e := newEnv(t)
	return &recipeFixture{
		env:       e,
		alice:     testutil.CreateUser(t, e.db, "alice"),
		bob:       testutil.CreateUser(t, e.db, "bob"),
		flour:     testutil.CreateIngredient(t, e.db, "flour", "g"),
		egg:       testutil.CreateIngredient(t, e.db, "egg", "pcs"),
		sugar:     testutil.CreateIngredient(t, e.db, "sugar", "g"),
		breakfast: testutil.CreateTag(t, e.db, "Breakfast", "#E26C2D", "breakfast"),
		lunch:     testutil.CreateTag(t, e.db, "Lunch", "#49B64E", "lunch"),
		dinner:    testutil.CreateTag(t, e.db, "Dinner", "#8775D2", "dinner"),
	}
}

func (f *recipeFixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func TestRecipeService_CreateMaterializesAggregate(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	req := writeRequest("Pancakes", []int64{f.breakfast.ID, f.lunch.ID},
		dto.IngredientAmount{ID: f.flour.ID, Amount: 200},
		dto.IngredientAmount{ID: f.egg.ID, Amount: 2},
	)
	detail, err := f.recipes.Create(ctx, f.alice.ID, req)
	require.NoError(t, err)

	assert.NotZero(t, detail.ID)
	assert.Equal(t, "Pancakes", detail.Name)
	assert.Equal(t, 15, detail.CookingTime)
	assert.False(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)
	assert.Equal(t, f.alice.ID, detail.Author.ID)
	assert.False(t, detail.Author.IsSubscribed)

	assert.ElementsMatch(t, []dto.RecipeIngredientInfo{
		{ID: f.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200},
		{ID: f.egg.ID, Name: "egg", MeasurementUnit: "pcs", Amount: 2},
	}, detail.Ingredients)

	tagIDs := make([]int64, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	assert.ElementsMatch(t, []int64{f.breakfast.ID, f.lunch.ID}, tagIDs)

	require.Len(t, f.images.saved, 1)
	assert.Equal(t, "image/png", f.images.saved[0].contentType)
	assert.Equal(t, ".png", f.images.saved[0].extension)
	assert.Equal(t, "http://images.test/recipes/1.png", detail.Image)

	assert.Equal(t, []string{infraKafka.RecipeCreated}, f.events.types())
}

func TestRecipeService_CreateValidation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   func() *dto.RecipeWriteRequest
		field string
	}{
		{
			name: "duplicate ingredient",
			req: func() *dto.RecipeWriteRequest {
				return writeRequest("Dup", []int64{f.lunch.ID},
					dto.IngredientAmount{ID: f.flour.ID, Amount: 1},
					dto.IngredientAmount{ID: f.flour.ID, Amount: 2})
			},
			field: "ingredients",
		},
		{
			name: "no ingredients",
			req: func() *dto.RecipeWriteRequest {
				return writeRequest("Empty", []int64{f.lunch.ID})
			},
			field: "ingredients",
		},
		{
			name: "amount below minimum",
			req: func() *dto.RecipeWriteRequest {
				return writeRequest("Zero", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 0})
			},
			field: "ingredients",
		},
		{
			name: "cooking time zero",
			req: func() *dto.RecipeWriteRequest {
				r := writeRequest("Raw", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 1})
				r.CookingTime = 0
				return r
			},
			field: "cooking_time",
		},
		{
			name: "no tags",
			req: func() *dto.RecipeWriteRequest {
				return writeRequest("Untagged", nil, dto.IngredientAmount{ID: f.flour.ID, Amount: 1})
			},
			field: "tags",
		},
		{
			name: "duplicate tag",
			req: func() *dto.RecipeWriteRequest {
				return writeRequest("Twice", []int64{f.lunch.ID, f.lunch.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 1})
			},
			field: "tags",
		},
		{
			name: "missing image",
			req: func() *dto.RecipeWriteRequest {
				r := writeRequest("Blank", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 1})
				r.Image = ""
				return r
			},
			field: "image",
		},
		{
			name: "image is not an image",
			req: func() *dto.RecipeWriteRequest {
				r := writeRequest("Text", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 1})
				r.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text body"))
				return r
			},
			field: "image",
		},
		{
			name: "image is not base64",
			req: func() *dto.RecipeWriteRequest {
				r := writeRequest("Broken", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 1})
				r.Image = "data:image/png;base64,@@@"
				return r
			},
			field: "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recipes.Create(ctx, f.alice.ID, tt.req())
			svcErr := requireKind(t, err, KindValidation)
			assert.Equal(t, tt.field, svcErr.Field)
		})
	}

	assert.Zero(t, f.count(t, &model.Recipe{}))
	assert.Zero(t, f.count(t, &model.RecipeIngredient{}))
	assert.Empty(t, f.events.types())
}

func TestRecipeService_CookingTimeBoundary(t *testing.T) {
	f := newRecipeFixture(t)

	req := writeRequest("Quick", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1})
	req.CookingTime = 1
	detail, err := f.recipes.Create(context.Background(), f.alice.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.CookingTime)
}

func TestRecipeService_CreateUnknownReferences(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	_, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Ghost tag", []int64{9999}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	assert.Equal(t, "tags", requireKind(t, err, KindNotFound).Field)

	_, err = f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Ghost ingredient", []int64{f.lunch.ID}, dto.IngredientAmount{ID: 9999, Amount: 1}))
	assert.Equal(t, "ingredients", requireKind(t, err, KindNotFound).Field)

	assert.Zero(t, f.count(t, &model.Recipe{}))
	assert.Empty(t, f.images.saved)
}

func TestRecipeService_CreateDuplicateName(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	req := writeRequest("Soup", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1})

	_, err := f.recipes.Create(ctx, f.alice.ID, req)
	require.NoError(t, err)

	_, err = f.recipes.Create(ctx, f.alice.ID, req)
	assert.ErrorIs(t, err, ErrRecipeNameTaken)
	requireKind(t, err, KindConflict)

	// 其他作者可以使用同样的名称
	_, err = f.recipes.Create(ctx, f.bob.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.count(t, &model.Recipe{}))
}

func TestRecipeService_UpdateReplacesLinesWholesale(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, f.alice.ID, writeRequest("Cake", []int64{f.breakfast.ID, f.lunch.ID},
		dto.IngredientAmount{ID: f.flour.ID, Amount: 2},
		dto.IngredientAmount{ID: f.egg.ID, Amount: 3},
	))
	require.NoError(t, err)

	update := writeRequest("Better cake", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 5})
	update.Image = ""
	update.CookingTime = 45

	updated, err := f.recipes.Update(ctx, f.alice.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Better cake", updated.Name)
	assert.Equal(t, 45, updated.CookingTime)
	assert.Equal(t, created.Image, updated.Image, "image is kept when omitted")
	assert.Equal(t, []dto.RecipeIngredientInfo{
		{ID: f.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 5},
	}, updated.Ingredients)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, f.dinner.ID, updated.Tags[0].ID)

	assert.Equal(t, int64(1), f.count(t, &model.RecipeIngredient{}))
	assert.Equal(t, int64(1), f.count(t, &model.RecipeTag{}))
	assert.Equal(t, []string{infraKafka.RecipeCreated, infraKafka.RecipeUpdated}, f.events.types())
}

func TestRecipeService_UpdateReportsViewerFlags(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Toast", []int64{f.breakfast.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	require.NoError(t, err)
	_, err = f.collections.Add(model.CollectionFavorite, f.alice.ID, created.ID)
	require.NoError(t, err)

	updated, err := f.recipes.Update(ctx, f.alice.ID, created.ID,
		writeRequest("Toast", []int64{f.breakfast.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 2}))
	require.NoError(t, err)
	assert.True(t, updated.IsFavorited)
	assert.False(t, updated.IsInShoppingCart)
	assert.Len(t, f.images.saved, 2, "a new image replaces the old one")
}

func TestRecipeService_UpdateAuthorization(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Stew", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	require.NoError(t, err)

	_, err = f.recipes.Update(ctx, f.bob.ID, created.ID,
		writeRequest("Hijacked", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	assert.ErrorIs(t, err, ErrNotRecipeAuthor)

	_, err = f.recipes.Update(ctx, f.alice.ID, created.ID+100,
		writeRequest("Missing", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	err = f.recipes.Delete(ctx, f.bob.ID, created.ID)
	requireKind(t, err, KindForbidden)
}

func TestRecipeService_UpdateRejectsDuplicateLinesWithoutChanges(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Salad", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.sugar.ID, Amount: 4}))
	require.NoError(t, err)

	_, err = f.recipes.Update(ctx, f.alice.ID, created.ID, writeRequest("Salad", []int64{f.lunch.ID},
		dto.IngredientAmount{ID: f.egg.ID, Amount: 1},
		dto.IngredientAmount{ID: f.egg.ID, Amount: 2},
	))
	requireKind(t, err, KindValidation)

	got, err := f.recipes.Get(created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Ingredients, got.Ingredients)
}

func TestRecipeService_UpdateNameConflict(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	_, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("First", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	require.NoError(t, err)
	second, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Second", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	require.NoError(t, err)

	_, err = f.recipes.Update(ctx, f.alice.ID, second.ID,
		writeRequest("First", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	assert.ErrorIs(t, err, ErrRecipeNameTaken)
}

func TestRecipeService_DeleteCascades(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Pie", []int64{f.dinner.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 300}))
	require.NoError(t, err)
	_, err = f.collections.Add(model.CollectionShoppingCart, f.bob.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.recipes.Delete(ctx, f.alice.ID, created.ID))

	_, err = f.recipes.Get(created.ID, nil)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	assert.Zero(t, f.count(t, &model.ShoppingCart{}))
	assert.Zero(t, f.count(t, &model.RecipeIngredient{}))
	assert.Equal(t, []string{infraKafka.RecipeCreated, infraKafka.RecipeDeleted}, f.events.types())
}

func TestRecipeService_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newRecipeFixture(t)
	f.events.err = errors.New("broker down")

	detail, err := f.recipes.Create(context.Background(), f.alice.ID,
		writeRequest("Resilient", []int64{f.lunch.ID}, dto.IngredientAmount{ID: f.egg.ID, Amount: 1}))
	require.NoError(t, err)
	assert.NotZero(t, detail.ID)
}

func TestRecipeService_GetViewerFlags(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := f.recipes.Create(ctx, f.alice.ID,
		writeRequest("Waffles", []int64{f.breakfast.ID}, dto.IngredientAmount{ID: f.flour.ID, Amount: 100}))
	require.NoError(t, err)

	_, err = f.collections.Add(model.CollectionFavorite, f.bob.ID, created.ID)
	require.NoError(t, err)
	_, err = f.collections.Add(model.CollectionShoppingCart, f.bob.ID, created.ID)
	require.NoError(t, err)
	_, err = f.subscriptions.Subscribe(f.bob.ID, f.alice.ID, 0)
	require.NoError(t, err)

	anonymous, err := f.recipes.Get(created.ID, nil)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)
	assert.False(t, anonymous.Author.IsSubscribed)

	asBob, err := f.recipes.Get(created.ID, &f.bob.ID)
	require.NoError(t, err)
	assert.True(t, asBob.IsFavorited)
	assert.True(t, asBob.IsInShoppingCart)
	assert.True(t, asBob.Author.IsSubscribed)

	asAlice, err := f.recipes.Get(created.ID, &f.alice.ID)
	require.NoError(t, err)
	assert.False(t, asAlice.IsFavorited)
	assert.False(t, asAlice.IsInShoppingCart)
}

func TestRecipeService_ListFiltersAndPagination(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	line := dto.IngredientAmount{ID: f.egg.ID, Amount: 1}

	r1, err := f.recipes.Create(ctx, f.alice.ID, writeRequest("Omelette", []int64{f.breakfast.ID}, line))
	require.NoError(t, err)
	r2, err := f.recipes.Create(ctx, f.alice.ID, writeRequest("Sandwich", []int64{f.lunch.ID}, line))
	require.NoError(t, err)
	r3, err := f.recipes.Create(ctx, f.bob.ID, writeRequest("Roast", []int64{f.dinner.ID}, line))
	require.NoError(t, err)

	_, err = f.collections.Add(model.CollectionFavorite, f.bob.ID, r2.ID)
	require.NoError(t, err)

	ids := func(data *dto.RecipeListData) []int64 {
		out := make([]int64, 0, len(data.Recipes))
		for _, r := range data.Recipes {
			out = append(out, r.ID)
		}
		return out
	}

	union, err := f.recipes.List(&dto.RecipeListRequest{Tags: []string{"breakfast", "lunch"}}, nil, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{r2.ID, r1.ID}, ids(union))

	favorites, err := f.recipes.List(&dto.RecipeListRequest{IsFavorited: boolPtr(true)}, &f.bob.ID, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{r2.ID}, ids(favorites))
	assert.True(t, favorites.Recipes[0].IsFavorited)

	// 他人的收藏不影响当前访问者的筛选结果
	aliceFavorites, err := f.recipes.List(&dto.RecipeListRequest{IsFavorited: boolPtr(true)}, &f.alice.ID, 1, 6)
	require.NoError(t, err)
	assert.Empty(t, aliceFavorites.Recipes)

	byAuthor, err := f.recipes.List(&dto.RecipeListRequest{Author: &f.bob.ID}, nil, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{r3.ID}, ids(byAuthor))

	paged, err := f.recipes.List(&dto.RecipeListRequest{}, nil, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), paged.Total)
	assert.Equal(t, int64(2), paged.TotalPages)
	assert.Equal(t, []int64{r1.ID}, ids(paged))
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, pageOffset(1, 6))
	assert.Equal(t, 12, pageOffset(3, 6))
	assert.Equal(t, 0, pageOffset(0, 6))

	huge := pageOffset(math.MaxInt, 6)
	assert.GreaterOrEqual(t, huge, 0)
	assert.Equal(t, (math.MaxInt32/6-1)*6, huge)
}
