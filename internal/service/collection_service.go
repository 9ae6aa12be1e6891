package service

import (
	"fmt"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
)

// CollectionService 收藏与购物车（用户-菜谱集合）的增删
type CollectionService struct {
	collectionRepo *repository.CollectionRepository
	recipeRepo     *repository.RecipeRepository
}

func NewCollectionService(collectionRepo *repository.CollectionRepository, recipeRepo *repository.RecipeRepository) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo, recipeRepo: recipeRepo}
}

// collectionErrors 各集合类型对应的重复加入 / 未加入错误
func collectionErrors(kind model.CollectionKind) (already, absent *Error, err error) {
	switch kind {
	case model.CollectionFavorite:
		return ErrAlreadyFavorited, ErrNotFavorited, nil
	case model.CollectionShoppingCart:
		return ErrAlreadyInCart, ErrNotInCart, nil
	default:
		return nil, nil, fmt.Errorf("unknown collection kind: %q", kind)
	}
}

// Add 把菜谱加入集合，返回菜谱简要信息；重复加入返回 Conflict
func (s *CollectionService) Add(kind model.CollectionKind, userID, recipeID int64) (*dto.RecipeShort, error) {
	already, _, err := collectionErrors(kind)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.collectionRepo.Exists(kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, already
	}

	if err := s.collectionRepo.Create(kind, userID, recipeID); err != nil {
		// 并发重复加入由唯一约束兜底
		if repository.IsUniqueViolation(err) {
			return nil, already
		}
		return nil, err
	}

	short := ToRecipeShort(recipe)
	return &short, nil
}

// Remove 把菜谱移出集合；菜谱不存在返回 NotFound，未在集合中返回 Conflict
func (s *CollectionService) Remove(kind model.CollectionKind, userID, recipeID int64) error {
	_, absent, err := collectionErrors(kind)
	if err != nil {
		return err
	}

	exists, err := s.recipeRepo.Exists(recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRecipeNotFound
	}

	deleted, err := s.collectionRepo.Delete(kind, userID, recipeID)
	if err != nil {
		return err
	}
	if !deleted {
		return absent
	}
	return nil
}
