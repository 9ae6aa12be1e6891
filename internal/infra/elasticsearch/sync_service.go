package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// RecipeDoc ES 菜谱文档结构
type RecipeDoc struct {
	ID             int64    `json:"id"`
	AuthorID       int64    `json:"author_id"`
	AuthorUsername string   `json:"author_username"`
	Name           string   `json:"name"`
	Text           string   `json:"text"`
	Tags           []string `json:"tags"`
	Ingredients    []string `json:"ingredients"`
	CookingTime    int      `json:"cooking_time"`
	PubDate        string   `json:"pub_date"`
}

// RecipeToDoc 把菜谱聚合（需预加载作者、标签与食材）转换为索引文档
func RecipeToDoc(r *model.Recipe) *RecipeDoc {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Slug)
	}
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		ingredients = append(ingredients, line.Ingredient.Name)
	}

	return &RecipeDoc{
		ID:             r.ID,
		AuthorID:       r.AuthorID,
		AuthorUsername: r.Author.Username,
		Name:           r.Name,
		Text:           r.Text,
		Tags:           tags,
		Ingredients:    ingredients,
		CookingTime:    r.CookingTime,
		PubDate:        r.PubDate.UTC().Format(time.RFC3339),
	}
}

// SyncRecipe 同步单个菜谱到 ES
func SyncRecipe(ctx context.Context, r *model.Recipe) error {
	indexName := config.GetElasticsearch().RecipesIndex()

	body, err := json.Marshal(RecipeToDoc(r))
	if err != nil {
		return err
	}

	resp, err := Index(ctx, indexName, strconv.FormatInt(r.ID, 10), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Recipe synced to ES", zap.Int64("recipe_id", r.ID))
	return nil
}

// DeleteRecipe 从 ES 删除菜谱，文档不存在不算错误
func DeleteRecipe(ctx context.Context, recipeID int64) error {
	indexName := config.GetElasticsearch().RecipesIndex()

	resp, err := Delete(ctx, indexName, strconv.FormatInt(recipeID, 10))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}

	logger.Debug("Recipe removed from ES", zap.Int64("recipe_id", recipeID))
	return nil
}

// BuildBulkBody 生成批量索引的 NDJSON 请求体
func BuildBulkBody(indexName string, recipes []model.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	for i := range recipes {
		action := map[string]map[string]string{
			"index": {"_index": indexName, "_id": strconv.FormatInt(recipes[i].ID, 10)},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return nil, err
		}
		docLine, err := json.Marshal(RecipeToDoc(&recipes[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// BulkSyncRecipes 批量同步菜谱到 ES
func BulkSyncRecipes(ctx context.Context, recipes []model.Recipe) (success, failed int, err error) {
	if len(recipes) == 0 {
		return 0, 0, nil
	}

	indexName := config.GetElasticsearch().RecipesIndex()
	body, err := BuildBulkBody(indexName, recipes)
	if err != nil {
		return 0, len(recipes), err
	}

	resp, err := Bulk(ctx, bytes.NewReader(body))
	if err != nil {
		return 0, len(recipes), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(recipes), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(recipes), fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}
