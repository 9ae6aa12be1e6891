package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/config"
	infraES "foodgram-go/internal/infra/elasticsearch"
	"foodgram-go/internal/model"
	"foodgram-go/internal/repository"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

const (
	searchSourceES = "elasticsearch"
	searchSourceDB = "database"
	reindexBatch   = 200
)

type SearchService struct {
	recipeRepo *repository.RecipeRepository
	recipes    *RecipeService
}

func NewSearchService(recipeRepo *repository.RecipeRepository, recipes *RecipeService) *SearchService {
	return &SearchService{recipeRepo: recipeRepo, recipes: recipes}
}

// SearchRecipes 搜索菜谱（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchRecipes(ctx context.Context, req *dto.SearchRecipeRequest, viewerID *int64, page, pageSize int) (*dto.SearchRecipeData, error) {
	q := strings.TrimSpace(req.Q)

	if infraES.Ready() {
		data, err := s.searchFromES(ctx, q, viewerID, page, pageSize)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}
	return s.searchFromDB(q, viewerID, page, pageSize)
}

func (s *SearchService) searchFromES(ctx context.Context, q string, viewerID *int64, page, pageSize int) (*dto.SearchRecipeData, error) {
	queryJSON, err := json.Marshal(BuildRecipeSearchQuery(q, page, pageSize))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := infraES.Search(ctx, config.GetElasticsearch().RecipesIndex(), bytes.NewReader(queryJSON))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}

	// 索引可能滞后于数据库，已删除的菜谱会被 GetByIDs 忽略
	recipes, err := s.recipeRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.buildSearchData(recipes, viewerID, esResp.Hits.Total.Value, page, pageSize, searchSourceES)
}

func (s *SearchService) searchFromDB(q string, viewerID *int64, page, pageSize int) (*dto.SearchRecipeData, error) {
	skip := pageOffset(page, pageSize)
	recipes, total, err := s.recipeRepo.SearchByText(q, skip, pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildSearchData(recipes, viewerID, total, page, pageSize, searchSourceDB)
}

func (s *SearchService) buildSearchData(recipes []model.Recipe, viewerID *int64, total int64, page, pageSize int, source string) (*dto.SearchRecipeData, error) {
	items, err := s.recipes.toDetails(recipes, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.SearchRecipeData{
		Recipes:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
		Source:     source,
	}, nil
}

// BuildRecipeSearchQuery 构造 ES 查询：名称权重最高，其次食材与描述；空关键词按发布时间返回全部
func BuildRecipeSearchQuery(q string, page, pageSize int) map[string]interface{} {
	var query map[string]interface{}
	if q == "" {
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		query = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    q,
				"fields":   []string{"name^3", "ingredients^2", "text"},
				"type":     "best_fields",
				"operator": "or",
			},
		}
	}

	return map[string]interface{}{
		"query":   query,
		"_source": []string{"id"},
		"from":    pageOffset(page, pageSize),
		"size":    pageSize,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"pub_date": map[string]string{"order": "desc"}},
		},
	}
}

// SyncRecipe 按数据库当前状态同步单个菜谱：存在则写入索引，不存在则从索引删除
func (s *SearchService) SyncRecipe(ctx context.Context, recipeID int64) error {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return infraES.DeleteRecipe(ctx, recipeID)
		}
		return err
	}
	return infraES.SyncRecipe(ctx, recipe)
}

// ReindexAll 分批把全部菜谱写入索引
func (s *SearchService) ReindexAll(ctx context.Context) (success, failed int, err error) {
	for skip := 0; ; skip += reindexBatch {
		recipes, _, err := s.recipeRepo.List(repository.RecipeFilter{}, skip, reindexBatch)
		if err != nil {
			return success, failed, err
		}
		if len(recipes) == 0 {
			return success, failed, nil
		}

		ok, bad, err := infraES.BulkSyncRecipes(ctx, recipes)
		success += ok
		failed += bad
		if err != nil {
			return success, failed, err
		}
		if len(recipes) < reindexBatch {
			return success, failed, nil
		}
	}
}
