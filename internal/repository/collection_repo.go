package repository

import (
	"fmt"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

// CollectionRepository 收藏与购物车共用的用户-菜谱集合仓库
type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// entryModel 返回集合类型对应的模型
func entryModel(kind model.CollectionKind) (interface{}, error) {
	switch kind {
	case model.CollectionFavorite:
		return &model.Favorite{}, nil
	case model.CollectionShoppingCart:
		return &model.ShoppingCart{}, nil
	default:
		return nil, fmt.Errorf("unknown collection kind: %q", kind)
	}
}

// Create 加入集合，重复加入返回唯一约束错误
func (r *CollectionRepository) Create(kind model.CollectionKind, userID, recipeID int64) error {
	var entry interface{}
	switch kind {
	case model.CollectionFavorite:
		entry = &model.Favorite{UserID: userID, RecipeID: recipeID}
	case model.CollectionShoppingCart:
		entry = &model.ShoppingCart{UserID: userID, RecipeID: recipeID}
	default:
		return fmt.Errorf("unknown collection kind: %q", kind)
	}
	return r.db.Create(entry).Error
}

// Delete 移出集合，返回是否确实删除了记录
func (r *CollectionRepository) Delete(kind model.CollectionKind, userID, recipeID int64) (bool, error) {
	m, err := entryModel(kind)
	if err != nil {
		return false, err
	}
	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查菜谱是否在集合中
func (r *CollectionRepository) Exists(kind model.CollectionKind, userID, recipeID int64) (bool, error) {
	m, err := entryModel(kind)
	if err != nil {
		return false, err
	}
	var count int64
	err = r.db.Model(m).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

// BatchCheck 批量查询菜谱是否在集合中
func (r *CollectionRepository) BatchCheck(kind model.CollectionKind, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	if len(recipeIDs) == 0 {
		return map[int64]bool{}, nil
	}
	m, err := entryModel(kind)
	if err != nil {
		return nil, err
	}

	var inIDs []int64
	err = r.db.Model(m).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &inIDs).Error
	if err != nil {
		return nil, err
	}

	inSet := make(map[int64]bool, len(inIDs))
	for _, id := range inIDs {
		inSet[id] = true
	}

	result := make(map[int64]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		result[id] = inSet[id]
	}
	return result, nil
}

// CountByUser 统计用户集合中的菜谱数
func (r *CollectionRepository) CountByUser(kind model.CollectionKind, userID int64) (int64, error) {
	m, err := entryModel(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	err = r.db.Model(m).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
