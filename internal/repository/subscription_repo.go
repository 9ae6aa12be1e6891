package repository

import (
	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create 创建订阅关系
func (r *SubscriptionRepository) Create(userID, authorID int64) (*model.Subscription, error) {
	sub := &model.Subscription{
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete 删除订阅关系
func (r *SubscriptionRepository) Delete(userID, authorID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查订阅关系是否存在
func (r *SubscriptionRepository) Exists(userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListAuthorIDs 获取用户订阅的作者 ID 列表（分页，最新订阅在前）
func (r *SubscriptionRepository) ListAuthorIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Subscription{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authorIDs []int64
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Pluck("author_id", &authorIDs).Error
	return authorIDs, total, err
}

// BatchCheck 批量检查订阅状态
func (r *SubscriptionRepository) BatchCheck(userID int64, authorIDs []int64) (map[int64]bool, error) {
	if len(authorIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var subscribedIDs []int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &subscribedIDs).Error
	if err != nil {
		return nil, err
	}

	subscribedSet := make(map[int64]bool, len(subscribedIDs))
	for _, id := range subscribedIDs {
		subscribedSet[id] = true
	}

	result := make(map[int64]bool, len(authorIDs))
	for _, id := range authorIDs {
		result[id] = subscribedSet[id]
	}
	return result, nil
}
