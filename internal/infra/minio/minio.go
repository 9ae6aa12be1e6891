package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var client *minio.Client

// Init 初始化 MinIO 客户端，确保图片 Bucket 存在且公开可读
func Init(cfg *config.MinIOConfig) error {
	var err error
	client, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bucket := cfg.ImageBucket
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", bucket))
	}

	// 菜谱图片由前端直接访问
	if err := client.SetBucketPolicy(ctx, bucket, PublicReadPolicy(bucket)); err != nil {
		return fmt.Errorf("failed to set public policy for %s: %w", bucket, err)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", bucket),
	)

	return nil
}

// Get 获取 MinIO 客户端实例
func Get() *minio.Client {
	return client
}

// PublicReadPolicy 返回 Bucket 公开读策略
func PublicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// PublicURL 生成公开访问 URL；base 为空时由 endpoint 拼接
func PublicURL(base, endpoint string, useSSL bool, bucket, objectName string) string {
	if base != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, objectName)
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, bucket, objectName)
}

// ObjectName 生成菜谱图片对象名
func ObjectName(extension string) string {
	return "recipes/" + uuid.NewString() + extension
}

// ImageStore 基于 MinIO 的菜谱图片存储
type ImageStore struct {
	cfg *config.MinIOConfig
}

func NewImageStore(cfg *config.MinIOConfig) *ImageStore {
	return &ImageStore{cfg: cfg}
}

// Save 上传图片并返回公开 URL
func (s *ImageStore) Save(ctx context.Context, data []byte, contentType, extension string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("minio client not initialized")
	}

	objectName := ObjectName(extension)
	_, err := client.PutObject(ctx, s.cfg.ImageBucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	logger.Debug("Recipe image uploaded",
		zap.String("object", objectName),
		zap.Int("bytes", len(data)),
	)
	return PublicURL(s.cfg.PublicURL, s.cfg.Endpoint, s.cfg.UseSSL, s.cfg.ImageBucket, objectName), nil
}
