package service

import (
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/internal/document"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// ShoppingListFile 生成的购物清单文件
type ShoppingListFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ShoppingListService struct {
	recipeRepo *repository.RecipeRepository
	now        func() time.Time
}

func NewShoppingListService(recipeRepo *repository.RecipeRepository) *ShoppingListService {
	return &ShoppingListService{recipeRepo: recipeRepo, now: time.Now}
}

// Generate 汇总用户购物车中全部菜谱的食材并渲染为 PDF，每次调用实时生成
func (s *ShoppingListService) Generate(userID int64) (*ShoppingListFile, error) {
	items, err := s.recipeRepo.ShoppingList(userID)
	if err != nil {
		return nil, err
	}

	cfg := config.GetShoppingList()
	content, err := document.RenderShoppingList(items, document.ShoppingListOptions{
		Title:      cfg.Title,
		FontFamily: cfg.FontFamily,
		FontPath:   cfg.FontPath,
		Date:       s.now(),
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Shopping list generated",
		zap.Int64("user_id", userID),
		zap.Int("items", len(items)),
		zap.Int("bytes", len(content)),
	)

	return &ShoppingListFile{
		Filename:    cfg.Filename,
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
