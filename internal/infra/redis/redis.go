package redis

import (
	"context"
	"fmt"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

var Client *redis.Client

// Options 将配置转换为客户端参数
func Options(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  pingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

// Init 连接 Redis，失败时全局客户端保持为 nil，调用方按未配置处理
func Init(cfg *config.RedisConfig) error {
	client := redis.NewClient(Options(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr(), err)
	}

	Client = client
	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return nil
}

// Close 关闭Redis连接
func Close() error {
	if Client == nil {
		return nil
	}
	err := Client.Close()
	Client = nil
	logger.Info("Redis connection closed")
	return err
}

// Get 获取Redis客户端实例，未初始化时为 nil
func Get() *redis.Client {
	return Client
}
