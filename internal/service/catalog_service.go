package service

import (
	"context"
	"regexp"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

const tagListCacheKey = "tags:all"

var (
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Cache 目录数据缓存，为空时直接查库
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type IngredientService struct {
	ingredientRepo *repository.IngredientRepository
}

func NewIngredientService(ingredientRepo *repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredientRepo: ingredientRepo}
}

// Search 按名称搜索食材（前缀匹配优先），name 为空返回全部
func (s *IngredientService) Search(name string) ([]dto.IngredientInfo, error) {
	list, err := s.ingredientRepo.Search(name)
	if err != nil {
		return nil, err
	}
	items := make([]dto.IngredientInfo, 0, len(list))
	for i := range list {
		items = append(items, ToIngredientInfo(&list[i]))
	}
	return items, nil
}

// Get 查询单个食材
func (s *IngredientService) Get(id int64) (*dto.IngredientInfo, error) {
	ing, err := s.ingredientRepo.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	info := ToIngredientInfo(ing)
	return &info, nil
}

// Create 创建食材（管理员）
func (s *IngredientService) Create(req *dto.CreateIngredientRequest) (*dto.IngredientInfo, error) {
	ing := &model.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.ingredientRepo.Create(ing); err != nil {
		return nil, err
	}
	info := ToIngredientInfo(ing)
	return &info, nil
}

// Update 更新食材（管理员）
func (s *IngredientService) Update(id int64, req *dto.UpdateIngredientRequest) (*dto.IngredientInfo, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.MeasurementUnit != nil {
		updates["measurement_unit"] = *req.MeasurementUnit
	}
	if len(updates) == 0 {
		return s.Get(id)
	}

	ing, err := s.ingredientRepo.Update(id, updates)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	info := ToIngredientInfo(ing)
	return &info, nil
}

type TagService struct {
	tagRepo *repository.TagRepository
	cache   Cache
}

func NewTagService(tagRepo *repository.TagRepository, cache Cache) *TagService {
	return &TagService{tagRepo: tagRepo, cache: cache}
}

// List 查询全部标签，优先读缓存
func (s *TagService) List(ctx context.Context) ([]dto.TagInfo, error) {
	if s.cache != nil {
		var cached []dto.TagInfo
		hit, err := s.cache.Get(ctx, tagListCacheKey, &cached)
		if err != nil {
			logger.Warn("Tag cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	tags, err := s.tagRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.TagInfo, 0, len(tags))
	for i := range tags {
		items = append(items, ToTagInfo(&tags[i]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tagListCacheKey, items); err != nil {
			logger.Warn("Tag cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

// Get 查询单个标签
func (s *TagService) Get(id int64) (*dto.TagInfo, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	info := ToTagInfo(tag)
	return &info, nil
}

// Create 创建标签（管理员），name/color/slug 任一重复返回 Conflict
func (s *TagService) Create(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagInfo, error) {
	if err := validateTagFields(&req.Color, &req.Slug); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.tagRepo.Create(tag); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}

	s.invalidate(ctx)
	info := ToTagInfo(tag)
	return &info, nil
}

// Update 更新标签（管理员）
func (s *TagService) Update(ctx context.Context, id int64, req *dto.UpdateTagRequest) (*dto.TagInfo, error) {
	if err := validateTagFields(req.Color, req.Slug); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if len(updates) == 0 {
		return s.Get(id)
	}

	tag, err := s.tagRepo.Update(id, updates)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTagNotFound
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}

	s.invalidate(ctx)
	info := ToTagInfo(tag)
	return &info, nil
}

func (s *TagService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, tagListCacheKey); err != nil {
		logger.Warn("Tag cache invalidation failed", zap.Error(err))
	}
}

// validateTagFields 校验颜色与 slug 格式，nil 表示未提交
func validateTagFields(color, slug *string) error {
	if color != nil && !colorPattern.MatchString(*color) {
		return validationError("color", "颜色必须是 #RRGGBB 格式")
	}
	if slug != nil && !slugPattern.MatchString(*slug) {
		return validationError("slug", "slug 只能包含字母、数字、下划线和连字符")
	}
	return nil
}
