package service

import (
	"context"
	"fmt"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/config"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// RecipeEventPublisher 菜谱变更事件发布者，为空时不发布
type RecipeEventPublisher interface {
	Publish(ctx context.Context, event *infraKafka.RecipeEvent) error
}

type RecipeService struct {
	recipeRepo       *repository.RecipeRepository
	ingredientRepo   *repository.IngredientRepository
	tagRepo          *repository.TagRepository
	collectionRepo   *repository.CollectionRepository
	subscriptionRepo *repository.SubscriptionRepository
	images           ImageStore
	events           RecipeEventPublisher
}

func NewRecipeService(
	recipeRepo *repository.RecipeRepository,
	ingredientRepo *repository.IngredientRepository,
	tagRepo *repository.TagRepository,
	collectionRepo *repository.CollectionRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	images ImageStore,
	events RecipeEventPublisher,
) *RecipeService {
	return &RecipeService{
		recipeRepo:       recipeRepo,
		ingredientRepo:   ingredientRepo,
		tagRepo:          tagRepo,
		collectionRepo:   collectionRepo,
		subscriptionRepo: subscriptionRepo,
		images:           images,
		events:           events,
	}
}

// Create 创建菜谱：校验 → 解析引用 → 保存图片 → 单事务写入菜谱、标签与食材行
func (s *RecipeService) Create(ctx context.Context, authorID int64, req *dto.RecipeWriteRequest) (*dto.RecipeDetail, error) {
	if err := validateRecipeWrite(req, config.GetRecipe()); err != nil {
		return nil, err
	}
	if req.Image == "" {
		return nil, validationError("image", "图片不能为空")
	}
	if err := s.resolveReferences(req); err != nil {
		return nil, err
	}

	taken, err := s.recipeRepo.ExistsByAuthorName(authorID, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrRecipeNameTaken
	}

	imageURL, err := storeImage(ctx, s.images, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	err = s.recipeRepo.Transaction(func(tx *repository.RecipeRepository) error {
		if err := tx.Create(recipe); err != nil {
			return err
		}
		if err := tx.ReplaceTags(recipe.ID, req.Tags); err != nil {
			return err
		}
		return tx.ReplaceLines(recipe.ID, buildLines(req.Ingredients))
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRecipeNameTaken
		}
		return nil, err
	}

	created, err := s.recipeRepo.GetByID(recipe.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, infraKafka.RecipeCreated, created)

	// 新菜谱不可能已被收藏或加入购物车，作者也不能订阅自己
	detail := ToRecipeDetail(created, ViewerFlags{})
	return &detail, nil
}

// Update 更新菜谱：只有作者可以修改，食材行与标签整体替换，返回重新加载的菜谱
func (s *RecipeService) Update(ctx context.Context, viewerID, recipeID int64, req *dto.RecipeWriteRequest) (*dto.RecipeDetail, error) {
	if err := s.checkAuthor(viewerID, recipeID); err != nil {
		return nil, err
	}
	if err := validateRecipeWrite(req, config.GetRecipe()); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(req); err != nil {
		return nil, err
	}

	taken, err := s.recipeRepo.ExistsByAuthorName(viewerID, req.Name, recipeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrRecipeNameTaken
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"text":         req.Text,
		"cooking_time": req.CookingTime,
	}
	if req.Image != "" {
		imageURL, err := storeImage(ctx, s.images, req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = imageURL
	}

	// 旧食材行在 ReplaceLines 中整体删除，新行获得新的 ID
	err = s.recipeRepo.Transaction(func(tx *repository.RecipeRepository) error {
		if err := tx.ReplaceTags(recipeID, req.Tags); err != nil {
			return err
		}
		if err := tx.UpdateFields(recipeID, updates); err != nil {
			return err
		}
		return tx.ReplaceLines(recipeID, buildLines(req.Ingredients))
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRecipeNameTaken
		}
		if repository.IsNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	updated, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, infraKafka.RecipeUpdated, updated)

	viewer := viewerID
	flags, err := s.viewerFlags(&viewer, []model.Recipe{*updated})
	if err != nil {
		return nil, err
	}
	detail := ToRecipeDetail(updated, flags[updated.ID])
	return &detail, nil
}

// Delete 删除菜谱（仅作者），级联删除食材行、标签关联、收藏与购物车记录
func (s *RecipeService) Delete(ctx context.Context, viewerID, recipeID int64) error {
	if err := s.checkAuthor(viewerID, recipeID); err != nil {
		return err
	}

	deleted, err := s.recipeRepo.Delete(recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecipeNotFound
	}

	s.publish(ctx, infraKafka.RecipeDeleted, &model.Recipe{ID: recipeID, AuthorID: viewerID})
	return nil
}

// Get 查询菜谱详情，viewerID 为空表示匿名访问
func (s *RecipeService) Get(recipeID int64, viewerID *int64) (*dto.RecipeDetail, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	flags, err := s.viewerFlags(viewerID, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	detail := ToRecipeDetail(recipe, flags[recipe.ID])
	return &detail, nil
}

// List 按条件分页查询菜谱
func (s *RecipeService) List(req *dto.RecipeListRequest, viewerID *int64, page, pageSize int) (*dto.RecipeListData, error) {
	filter := repository.RecipeFilter{
		TagSlugs:         req.Tags,
		AuthorID:         req.Author,
		ViewerID:         viewerID,
		IsFavorited:      req.IsFavorited,
		IsInShoppingCart: req.IsInShoppingCart,
	}

	skip := pageOffset(page, pageSize)
	recipes, total, err := s.recipeRepo.List(filter, skip, pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.toDetails(recipes, viewerID)
	if err != nil {
		return nil, err
	}

	return &dto.RecipeListData{
		Recipes:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// toDetails 批量投影菜谱并附带访问者状态
func (s *RecipeService) toDetails(recipes []model.Recipe, viewerID *int64) ([]dto.RecipeDetail, error) {
	flags, err := s.viewerFlags(viewerID, recipes)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RecipeDetail, 0, len(recipes))
	for i := range recipes {
		items = append(items, ToRecipeDetail(&recipes[i], flags[recipes[i].ID]))
	}
	return items, nil
}

// viewerFlags 批量计算访问者对菜谱的收藏、购物车与订阅作者状态，匿名访问全部为 false
func (s *RecipeService) viewerFlags(viewerID *int64, recipes []model.Recipe) (map[int64]ViewerFlags, error) {
	result := make(map[int64]ViewerFlags, len(recipes))
	if viewerID == nil || len(recipes) == 0 {
		return result, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorSeen := make(map[int64]bool)
	authorIDs := make([]int64, 0)
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		if !authorSeen[r.AuthorID] {
			authorSeen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	favorited, err := s.collectionRepo.BatchCheck(model.CollectionFavorite, *viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.collectionRepo.BatchCheck(model.CollectionShoppingCart, *viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subscriptionRepo.BatchCheck(*viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		result[r.ID] = ViewerFlags{
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			IsSubscribed:     subscribed[r.AuthorID],
		}
	}
	return result, nil
}

// checkAuthor 菜谱存在且由 viewerID 发布
func (s *RecipeService) checkAuthor(viewerID, recipeID int64) error {
	authorID, err := s.recipeRepo.GetAuthorID(recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrRecipeNotFound
		}
		return err
	}
	if authorID != viewerID {
		return ErrNotRecipeAuthor
	}
	return nil
}

// resolveReferences 确认请求中的标签与食材全部存在，在开启事务前返回 NotFound
func (s *RecipeService) resolveReferences(req *dto.RecipeWriteRequest) error {
	tags, err := s.tagRepo.GetByIDs(req.Tags)
	if err != nil {
		return err
	}
	if missing, ok := firstMissing(req.Tags, tagIDs(tags)); ok {
		return newError(KindNotFound, "tags", formatMissing("标签", missing))
	}

	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, line.ID)
	}
	ingredients, err := s.ingredientRepo.GetByIDs(ingredientIDs)
	if err != nil {
		return err
	}
	found := make([]int64, 0, len(ingredients))
	for _, ing := range ingredients {
		found = append(found, ing.ID)
	}
	if missing, ok := firstMissing(ingredientIDs, found); ok {
		return newError(KindNotFound, "ingredients", formatMissing("食材", missing))
	}
	return nil
}

// publish 事务提交后发布变更事件，失败只记录日志，不影响已提交的写入
func (s *RecipeService) publish(ctx context.Context, eventType string, recipe *model.Recipe) {
	if s.events == nil {
		return
	}

	event := &infraKafka.RecipeEvent{
		Type:       eventType,
		RecipeID:   recipe.ID,
		AuthorID:   recipe.AuthorID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish recipe event",
			zap.String("type", eventType),
			zap.Int64("recipe_id", recipe.ID),
			zap.Error(err),
		)
	}
}

// validateRecipeWrite 校验写入请求，不访问存储
func validateRecipeWrite(req *dto.RecipeWriteRequest, rules *config.RecipeConfig) error {
	if req.CookingTime < rules.MinCookingTime {
		return validationError("cooking_time", "烹饪时间不能少于 %d 分钟", rules.MinCookingTime)
	}

	if len(req.Ingredients) == 0 {
		return validationError("ingredients", "至少需要一种食材")
	}
	seenIngredients := make(map[int64]bool, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if line.Amount < rules.MinIngredientAmount {
			return validationError("ingredients", "食材 %d 的数量不能少于 %d", line.ID, rules.MinIngredientAmount)
		}
		if seenIngredients[line.ID] {
			return validationError("ingredients", "食材 %d 重复出现", line.ID)
		}
		seenIngredients[line.ID] = true
	}

	if len(req.Tags) == 0 {
		return validationError("tags", "至少需要一个标签")
	}
	seenTags := make(map[int64]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			return validationError("tags", "标签 %d 重复出现", id)
		}
		seenTags[id] = true
	}
	return nil
}

func buildLines(input []dto.IngredientAmount) []model.RecipeIngredient {
	lines := make([]model.RecipeIngredient, 0, len(input))
	for _, in := range input {
		lines = append(lines, model.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount})
	}
	return lines
}

func tagIDs(tags []model.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// firstMissing 返回 want 中第一个不在 found 里的 ID
func firstMissing(want, found []int64) (int64, bool) {
	set := make(map[int64]bool, len(found))
	for _, id := range found {
		set[id] = true
	}
	for _, id := range want {
		if !set[id] {
			return id, true
		}
	}
	return 0, false
}

func formatMissing(what string, id int64) string {
	return fmt.Sprintf("%s %d 不存在", what, id)
}
