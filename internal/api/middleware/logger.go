package middleware

import (
	"time"

	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger Gin日志中间件，skipPaths 中的路径（健康检查、指标）不记录
func Logger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", UserAgent(c.Request.UserAgent())),
			zap.Duration("duration", time.Since(start)),
			zap.Int("body_size", c.Writer.Size()),
		}
		if userID, ok := GetCurrentUserID(c); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("HTTP Request", fields...)
		case status >= 400:
			logger.Warn("HTTP Request", fields...)
		default:
			logger.Info("HTTP Request", fields...)
		}

		for _, e := range c.Errors {
			logger.Error("Request Error",
				zap.String("error", e.Error()),
				zap.Any("type", e.Type),
			)
		}
	}
}
