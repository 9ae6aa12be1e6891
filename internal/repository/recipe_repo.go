package repository

import (
	"fmt"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter 菜谱列表筛选条件
// ViewerID 为空表示匿名访问：IsFavorited/IsInShoppingCart 为 true 时结果为空，为 false 时不过滤
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *int64
	ViewerID         *int64
	IsFavorited      *bool
	IsInShoppingCart *bool
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Transaction 在同一事务中执行 fn，fn 内只能使用传入的 tx 仓库
func (r *RecipeRepository) Transaction(fn func(tx *RecipeRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&RecipeRepository{db: tx})
	})
}

// Create 创建菜谱主体（不写关联）
func (r *RecipeRepository) Create(recipe *model.Recipe) error {
	return r.db.Omit(clause.Associations).Create(recipe).Error
}

// UpdateFields 更新菜谱标量字段
func (r *RecipeRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&model.Recipe{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceTags 用 tagIDs 整体替换菜谱标签
func (r *RecipeRepository) ReplaceTags(recipeID int64, tagIDs []int64) error {
	if err := r.db.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, model.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return r.db.Create(&rows).Error
}

// ReplaceLines 用 lines 整体替换菜谱食材行，旧行被删除，新行获得新 ID
func (r *RecipeRepository) ReplaceLines(recipeID int64, lines []model.RecipeIngredient) error {
	if err := r.db.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
	}
	return r.db.Omit("Ingredient").Create(&lines).Error
}

// Delete 删除菜谱及其食材行、标签关联、收藏与购物车记录
func (r *RecipeRepository) Delete(id int64) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.RecipeIngredient{},
			&model.RecipeTag{},
			&model.Favorite{},
			&model.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&model.Recipe{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// preloadDetail 加载详情所需的全部关联
func preloadDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}

// GetByID 查询菜谱详情（含作者、标签、食材行）
func (r *RecipeRepository) GetByID(id int64) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := preloadDetail(r.db).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetAuthorID 只查询菜谱作者，用于权限判断
func (r *RecipeRepository) GetAuthorID(id int64) (int64, error) {
	var recipe model.Recipe
	if err := r.db.Select("id", "author_id").Where("id = ?", id).First(&recipe).Error; err != nil {
		return 0, err
	}
	return recipe.AuthorID, nil
}

// Exists 检查菜谱是否存在
func (r *RecipeRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByAuthorName 检查作者下是否已有同名菜谱，excludeID 非 0 时排除该菜谱
func (r *RecipeRepository) ExistsByAuthorName(authorID int64, name string, excludeID int64) (bool, error) {
	query := r.db.Model(&model.Recipe{}).Where("author_id = ? AND name = ?", authorID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// applyFilter 把筛选条件转换为查询条件
func (r *RecipeRepository) applyFilter(query *gorm.DB, f RecipeFilter) *gorm.DB {
	if len(f.TagSlugs) > 0 {
		// 多个标签之间为 OR，子查询保证结果不重复
		tagged := r.db.Model(&model.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	query = r.applyMembership(query, &model.Favorite{}, f.ViewerID, f.IsFavorited)
	query = r.applyMembership(query, &model.ShoppingCart{}, f.ViewerID, f.IsInShoppingCart)
	return query
}

func (r *RecipeRepository) applyMembership(query *gorm.DB, m interface{}, viewerID *int64, want *bool) *gorm.DB {
	if want == nil {
		return query
	}
	if viewerID == nil {
		if *want {
			return query.Where("1 = 0")
		}
		return query
	}
	members := r.db.Model(m).Select("recipe_id").Where("user_id = ?", *viewerID)
	if *want {
		return query.Where("recipes.id IN (?)", members)
	}
	return query.Where("recipes.id NOT IN (?)", members)
}

// List 按条件分页查询菜谱，按发布时间倒序
func (r *RecipeRepository) List(f RecipeFilter, skip, limit int) ([]model.Recipe, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.Model(&model.Recipe{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := preloadDetail(r.applyFilter(r.db.Model(&model.Recipe{}), f)).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Offset(skip).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// GetByIDs 批量查询菜谱详情，按 ids 顺序返回，不存在的 ID 被忽略
func (r *RecipeRepository) GetByIDs(ids []int64) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []model.Recipe
	if err := preloadDetail(r.db).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Recipe, len(recipes))
	for _, rc := range recipes {
		byID[rc.ID] = rc
	}
	ordered := make([]model.Recipe, 0, len(recipes))
	for _, id := range ids {
		if rc, ok := byID[id]; ok {
			ordered = append(ordered, rc)
		}
	}
	return ordered, nil
}

// SearchByText 按名称或描述模糊搜索（搜索引擎不可用时的降级路径）
func (r *RecipeRepository) SearchByText(keyword string, skip, limit int) ([]model.Recipe, int64, error) {
	pattern := containsPattern(keyword)
	op := likeOperator(r.db)
	where := fmt.Sprintf(`recipes.name %[1]s ? ESCAPE '\' OR recipes.text %[1]s ? ESCAPE '\'`, op)
	cond := func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.Recipe{}).Where(where, pattern, pattern)
	}

	var total int64
	if err := cond(r.db).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := preloadDetail(cond(r.db)).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Offset(skip).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor 查询作者最新的菜谱，limit <= 0 表示不限制
func (r *RecipeRepository) ListByAuthor(authorID int64, limit int) ([]model.Recipe, error) {
	query := r.db.Where("author_id = ?", authorID).Order("pub_date DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []model.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// CountByAuthors 批量统计作者的菜谱数
func (r *RecipeRepository) CountByAuthors(authorIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range authorIDs {
		result[id] = 0
	}
	for _, row := range rows {
		result[row.AuthorID] = row.Total
	}
	return result, nil
}

// ShoppingList 汇总用户购物车中全部菜谱的食材，按 (名称, 单位) 求和
func (r *RecipeRepository) ShoppingList(userID int64) ([]model.ShoppingListItem, error) {
	var items []model.ShoppingListItem
	err := r.db.Model(&model.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").Order("ingredients.measurement_unit ASC").
		Scan(&items).Error
	return items, err
}
