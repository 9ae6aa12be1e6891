package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram-go/internal/api/handler"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/router"
	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	infraMinio "foodgram-go/internal/infra/minio"
	infraRedis "foodgram-go/internal/infra/redis"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	_ "foodgram-go/api/openapi"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Foodgram API
// @version 1.0
// @description 菜谱分享平台 API 服务

// @contact.name API Support

// @host 127.0.0.1:8000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	configPath := os.Getenv("FOODGRAM_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// 加载配置文件
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(database.Get()); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// Redis 可选：不可用时标签不缓存，注销只在客户端生效
	var (
		tagCache  service.Cache
		blacklist service.TokenBlacklist
	)
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis init failed, cache and token blacklist disabled", zap.Error(err))
	} else {
		defer infraRedis.Close()
		tagCache = infraRedis.NewJSONCache(infraRedis.Get(), "foodgram:", cfg.Redis.CacheDuration())
		blacklist = infraRedis.NewTokenBlacklist(infraRedis.Get())
	}

	// 初始化MinIO
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// Kafka 可选：不可用时不发布菜谱变更事件，搜索索引需手动重建
	var events service.RecipeEventPublisher
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Warn("Kafka producer init failed, recipe events disabled", zap.Error(err))
	} else {
		defer infraKafka.CloseProducer()
		events = infraKafka.NewRecipeEventPublisher(cfg.Kafka.Topics["recipe_events"])
	}

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := middleware.NewHTTPMetrics(registry, "foodgram")

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger("/healthz", "/metrics"))
	r.Use(middleware.Metrics(httpMetrics))

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	tagRepo := repository.NewTagRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	images := infraMinio.NewImageStore(&cfg.MinIO)

	authService := service.NewAuthService(userRepo, blacklist)
	userService := service.NewUserService(userRepo, subscriptionRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	tagService := service.NewTagService(tagRepo, tagCache)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo, tagRepo, collectionRepo, subscriptionRepo, images, events)
	collectionService := service.NewCollectionService(collectionRepo, recipeRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo)
	shoppingListService := service.NewShoppingListService(recipeRepo)
	searchService := service.NewSearchService(recipeRepo, recipeService)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Ingredient:   handler.NewIngredientHandler(ingredientService),
		Tag:          handler.NewTagHandler(tagService),
		Recipe:       handler.NewRecipeHandler(recipeService, shoppingListService),
		Collection:   handler.NewCollectionHandler(collectionService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Search:       handler.NewSearchHandler(searchService),
	}

	revoked := func(ctx context.Context, claims *utils.Claims) (bool, error) {
		return authService.IsRevoked(ctx, claims)
	}
	middlewares := router.Middlewares{
		Auth:     middleware.AuthRequired(revoked),
		Optional: middleware.OptionalAuth(revoked),
		// 管理员中间件（需要查数据库获取角色）
		Admin: middleware.AdminRequired(userService.GetRole),
	}

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, handlers, middlewares)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.String("database", cfg.Database.Driver),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 监听系统信号，优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	status := http.StatusOK
	dbStatus := "ok"
	if sqlDB, err := database.Get().DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"search":    infraES.Ready(),
	})
}
