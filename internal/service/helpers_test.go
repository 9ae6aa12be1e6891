package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"foodgram-go/internal/api/dto"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 1x1 PNG
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

const pngDataURI = "data:image/png;base64," + pngBase64

type savedImage struct {
	contentType string
	extension   string
	size        int
}

type fakeImageStore struct {
	mu    sync.Mutex
	saved []savedImage
}

func (f *fakeImageStore) Save(_ context.Context, data []byte, contentType, extension string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, savedImage{contentType: contentType, extension: extension, size: len(data)})
	return fmt.Sprintf("http://images.test/recipes/%d%s", len(f.saved), extension), nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []infraKafka.RecipeEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event *infraKafka.RecipeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeBlacklist struct {
	revoked map[string]time.Duration
}

func (f *fakeBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

// requireKind 断言错误为指定类别的业务错误
func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *service.Error, got %T: %v", err, err)
	require.Equal(t, kind, svcErr.Kind, "unexpected kind for %v", err)
	return svcErr
}

// env 测试用的仓库与服务集合
type env struct {
	db            *gorm.DB
	images        *fakeImageStore
	events        *fakePublisher
	recipes       *RecipeService
	collections   *CollectionService
	subscriptions *SubscriptionService
	shopping      *ShoppingListService
	search        *SearchService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	testutil.Config(t)
	db := testutil.NewDB(t)

	recipeRepo := repository.NewRecipeRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	tagRepo := repository.NewTagRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	userRepo := repository.NewUserRepository(db)

	images := &fakeImageStore{}
	events := &fakePublisher{}
	recipes := NewRecipeService(recipeRepo, ingredientRepo, tagRepo, collectionRepo, subscriptionRepo, images, events)

	return &env{
		db:            db,
		images:        images,
		events:        events,
		recipes:       recipes,
		collections:   NewCollectionService(collectionRepo, recipeRepo),
		subscriptions: NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo),
		shopping:      NewShoppingListService(recipeRepo),
		search:        NewSearchService(recipeRepo, recipes),
	}
}

func writeRequest(name string, tags []int64, lines ...dto.IngredientAmount) *dto.RecipeWriteRequest {
	return &dto.RecipeWriteRequest{
		Ingredients: lines,
		Tags:        tags,
		Image:       pngDataURI,
		Name:        name,
		Text:        name + " text",
		CookingTime: 15,
	}
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(b bool) *bool    { return &b }
