package service

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/repository"
)

type UserService struct {
	userRepo         *repository.UserRepository
	subscriptionRepo *repository.SubscriptionRepository
}

func NewUserService(userRepo *repository.UserRepository, subscriptionRepo *repository.SubscriptionRepository) *UserService {
	return &UserService{userRepo: userRepo, subscriptionRepo: subscriptionRepo}
}

// GetProfile 获取用户资料，viewerID 为空表示匿名访问
func (s *UserService) GetProfile(id int64, viewerID *int64) (*dto.UserProfile, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed := false
	if viewerID != nil {
		subscribed, err = s.subscriptionRepo.Exists(*viewerID, id)
		if err != nil {
			return nil, err
		}
	}

	profile := ToUserProfile(user, subscribed)
	return &profile, nil
}

// GetRole 查询用户角色（管理员中间件使用）
func (s *UserService) GetRole(id int64) (string, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.UserRole, nil
}

// List 分页查询用户
func (s *UserService) List(viewerID *int64, page, pageSize int) (*dto.UserListData, error) {
	skip := pageOffset(page, pageSize)
	users, total, err := s.userRepo.List(skip, pageSize)
	if err != nil {
		return nil, err
	}

	subscribed := map[int64]bool{}
	if viewerID != nil && len(users) > 0 {
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribed, err = s.subscriptionRepo.BatchCheck(*viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.UserProfile, 0, len(users))
	for i := range users {
		items = append(items, ToUserProfile(&users[i], subscribed[users[i].ID]))
	}

	return &dto.UserListData{
		Users:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
