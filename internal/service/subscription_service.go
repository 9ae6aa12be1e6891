package service

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
)

type SubscriptionService struct {
	subscriptionRepo *repository.SubscriptionRepository
	userRepo         *repository.UserRepository
	recipeRepo       *repository.RecipeRepository
}

func NewSubscriptionService(
	subscriptionRepo *repository.SubscriptionRepository,
	userRepo *repository.UserRepository,
	recipeRepo *repository.RecipeRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		recipeRepo:       recipeRepo,
	}
}

// Subscribe 订阅作者，返回作者资料、最新菜谱（recipesLimit <= 0 不限制）与菜谱总数
func (s *SubscriptionService) Subscribe(userID, authorID int64, recipesLimit int) (*dto.SubscriptionInfo, error) {
	if userID == authorID {
		return nil, ErrCannotSubscribeSelf
	}

	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.subscriptionRepo.Exists(userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	if _, err := s.subscriptionRepo.Create(userID, authorID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	infos, err := s.buildInfos([]model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}

// Unsubscribe 取消订阅，未订阅时返回 NotFound
func (s *SubscriptionService) Unsubscribe(userID, authorID int64) error {
	deleted, err := s.subscriptionRepo.Delete(userID, authorID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotSubscribed
	}
	return nil
}

// List 分页查询用户订阅的作者
func (s *SubscriptionService) List(userID int64, page, pageSize, recipesLimit int) (*dto.SubscriptionListData, error) {
	skip := pageOffset(page, pageSize)
	authorIDs, total, err := s.subscriptionRepo.ListAuthorIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	// 保持订阅时间顺序
	byID := make(map[int64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	authors := make([]model.User, 0, len(authorIDs))
	for _, id := range authorIDs {
		if u, ok := byID[id]; ok {
			authors = append(authors, u)
		}
	}

	infos, err := s.buildInfos(authors, recipesLimit)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionListData{
		Authors:    infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// buildInfos 组装订阅作者信息，调用方均为当前用户已订阅的作者
func (s *SubscriptionService) buildInfos(authors []model.User, recipesLimit int) ([]dto.SubscriptionInfo, error) {
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipeRepo.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.SubscriptionInfo, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		infos = append(infos, ToSubscriptionInfo(&authors[i], true, recipes, counts[authors[i].ID]))
	}
	return infos, nil
}
