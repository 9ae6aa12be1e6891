package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"go.uber.org/zap"
)

// 搜索索引同步 worker：消费菜谱变更事件，按数据库当前状态刷新 Elasticsearch 文档
func main() {
	configPath := os.Getenv("FOODGRAM_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()
	if err := infraES.InitIndexes(); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	db := database.Get()
	recipeRepo := repository.NewRecipeRepository(db)
	recipeService := service.NewRecipeService(
		recipeRepo,
		repository.NewIngredientRepository(db),
		repository.NewTagRepository(db),
		repository.NewCollectionRepository(db),
		repository.NewSubscriptionRepository(db),
		nil, nil,
	)
	searchService := service.NewSearchService(recipeRepo, recipeService)

	log := logger.Named("worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	topic := cfg.Kafka.Topics["recipe_events"]
	log.Info("Search sync worker started",
		zap.String("topic", topic),
		zap.String("group", cfg.Kafka.GroupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	// 事件只携带菜谱 ID，处理时总是回查数据库，重复或乱序的事件不会写入过期数据
	infraKafka.StartRecipeEventConsumer(ctx, cfg.Kafka.Brokers, topic, cfg.Kafka.GroupID,
		func(ctx context.Context, event *infraKafka.RecipeEvent) error {
			syncCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := searchService.SyncRecipe(syncCtx, event.RecipeID); err != nil {
				return err
			}
			log.Debug("Recipe synced", zap.Int64("recipe_id", event.RecipeID), zap.String("type", event.Type))
			return nil
		},
	)
	log.Info("Search sync worker stopped")
}
