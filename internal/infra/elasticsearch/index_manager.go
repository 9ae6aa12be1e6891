package elasticsearch

import (
	"context"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// RecipesIndexMapping recipes 索引的 mapping
// 名称与描述使用 standard 分词，标签与食材按关键字精确匹配
const RecipesIndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"author_id": {"type": "long"},
			"author_username": {"type": "keyword"},
			"name": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"text": {"type": "text"},
			"tags": {"type": "keyword"},
			"ingredients": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"cooking_time": {"type": "integer"},
			"pub_date": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// EnsureRecipesIndex 确保 recipes 索引存在
func EnsureRecipesIndex(ctx context.Context) error {
	indexName := config.GetElasticsearch().RecipesIndex()

	created, err := EnsureIndex(ctx, indexName, RecipesIndexMapping)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Elasticsearch recipes index created", zap.String("index", indexName))
	} else {
		logger.Info("Elasticsearch recipes index already exists", zap.String("index", indexName))
	}
	return nil
}

// InitIndexes 初始化所有索引（启动时调用）
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsureRecipesIndex(ctx)
}
