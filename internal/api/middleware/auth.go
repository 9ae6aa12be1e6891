package middleware

import (
	"context"
	"strings"

	"foodgram-go/internal/api/response"
	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextKeyUserID   = "currentUserID"
	ContextKeyUserRole = "currentUserRole"
	ContextKeyClaims   = "currentClaims"
)

// RevocationChecker 检查 Token 是否已注销，为空时不检查
type RevocationChecker func(ctx context.Context, claims *utils.Claims) (bool, error)

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired(revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		claims, ok := verify(c, token, revoked)
		if !ok {
			response.Unauthorized(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 可选认证：携带有效 Token 时记录当前用户，否则按匿名访问处理
func OptionalAuth(revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, ok := verify(c, token, revoked)
		if !ok {
			response.Unauthorized(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func verify(c *gin.Context, token string, revoked RevocationChecker) (*utils.Claims, bool) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, false
	}
	if revoked == nil {
		return claims, true
	}

	isRevoked, err := revoked(c.Request.Context(), claims)
	if err != nil {
		// 黑名单不可用时放行，Token 仍受签名与过期时间约束
		logger.Warn("Token revocation check failed", zap.Error(err))
		return claims, true
	}
	return claims, !isRevoked
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyClaims, claims)
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}

// GetViewerID 返回当前访问者 ID，匿名访问返回 nil
func GetViewerID(c *gin.Context) *int64 {
	userID, ok := GetCurrentUserID(c)
	if !ok {
		return nil
	}
	return &userID
}

// GetClaims 获取当前请求的 Token Claims
func GetClaims(c *gin.Context) (*utils.Claims, bool) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*utils.Claims)
	return claims, ok
}

// UserRoleFetcher 用于获取用户角色的函数类型
type UserRoleFetcher func(userID int64) (string, error)

// AdminRequired 管理员权限中间件（必须在 AuthRequired 之后使用）
// roleFetcher 用于从数据库查询用户角色
func AdminRequired(roleFetcher UserRoleFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		role, err := roleFetcher(userID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		if role != model.RoleAdmin {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserRole, role)
		c.Next()
	}
}

// extractToken 从 Authorization 头中提取 Token，兼容 Bearer 与 Token 两种前缀
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "bearer") && !strings.EqualFold(parts[0], "token") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
