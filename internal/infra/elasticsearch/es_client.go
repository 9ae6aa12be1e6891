package elasticsearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

var client *elasticsearch.Client

// ErrNotInitialized 未配置搜索引擎，调用方应降级到数据库
var ErrNotInitialized = errors.New("elasticsearch client not initialized")

// normalizeHosts 补全 http 前缀并去掉空地址
func normalizeHosts(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http") {
			h = "http://" + h
		}
		hosts = append(hosts, h)
	}
	return hosts
}

// Init 初始化 Elasticsearch 客户端
func Init(cfg *config.ElasticsearchConfig) error {
	hosts := normalizeHosts(cfg.Hosts)
	if len(hosts) == 0 {
		return fmt.Errorf("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     hosts,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
		RetryBackoff:  func(i int) time.Duration { return time.Duration(i) * time.Second },
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", resp.String())
	}

	client = es
	logger.Info("Elasticsearch connected", zap.Strings("hosts", hosts))
	return nil
}

// Ready 客户端是否可用
func Ready() bool {
	return client != nil
}

// Search 执行搜索
func Search(ctx context.Context, index string, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	return client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(body),
		client.Search.WithTrackTotalHits(true),
	)
}

// Index 写入（覆盖）单个文档
func Index(ctx context.Context, index, id string, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	return client.Index(
		index,
		body,
		client.Index.WithContext(ctx),
		client.Index.WithDocumentID(id),
	)
}

// Delete 删除单个文档
func Delete(ctx context.Context, index, id string) (*esapi.Response, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	return client.Delete(
		index,
		id,
		client.Delete.WithContext(ctx),
	)
}

// Bulk 批量操作（NDJSON）
func Bulk(ctx context.Context, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	return client.Bulk(
		body,
		client.Bulk.WithContext(ctx),
	)
}

// EnsureIndex 索引不存在时按 mapping 创建
func EnsureIndex(ctx context.Context, index, mapping string) (created bool, err error) {
	if client == nil {
		return false, ErrNotInitialized
	}

	existsResp, err := client.Indices.Exists([]string{index}, client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("check index exists: %w", err)
	}
	existsResp.Body.Close()
	if existsResp.StatusCode == 200 {
		return false, nil
	}

	resp, err := client.Indices.Create(
		index,
		client.Indices.Create.WithContext(ctx),
		client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return false, fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return false, fmt.Errorf("create index failed: %s", resp.String())
	}
	return true, nil
}

// Close 释放客户端
func Close() error {
	client = nil
	logger.Info("Elasticsearch client closed")
	return nil
}
