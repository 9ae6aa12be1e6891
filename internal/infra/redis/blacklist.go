package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "auth:revoked:"

// TokenBlacklist 以 jti 为键记录已注销的 Token，过期时间与 Token 剩余有效期一致
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// BlacklistKey 返回 jti 对应的键
func BlacklistKey(jti string) string {
	return blacklistPrefix + jti
}

// Revoke 注销 Token
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return b.client.Set(ctx, BlacklistKey(jti), 1, ttl).Err()
}

// IsRevoked 检查 Token 是否已注销
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, BlacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
