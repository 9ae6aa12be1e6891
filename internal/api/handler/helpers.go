package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"foodgram-go/internal/api/response"
	"foodgram-go/internal/config"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// parsePagination 解析 page / limit，缺省或越界时回退到配置的默认值
func parsePagination(c *gin.Context) (page, pageSize int) {
	cfg := config.GetRecipe()

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(c.Query("limit"))
	if err != nil || pageSize < 1 {
		pageSize = cfg.PageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	// 超大页码钳制到偏移量不溢出 int32 的范围
	if maxPage := math.MaxInt32 / pageSize; page > maxPage {
		page = maxPage
	}
	return page, pageSize
}

// parseRecipesLimit 解析 recipes_limit，缺省为 0 表示不限制
func parseRecipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.FailField(c, http.StatusBadRequest, service.KindValidation.String(), "recipes_limit", "recipes_limit 必须是非负整数")
		return 0, false
	}
	return n, true
}

// handleServiceError 按业务错误类别映射 HTTP 状态码，未知错误记录日志并返回 500
func handleServiceError(c *gin.Context, err error, operation string) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		logger.Error(operation+" failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
		return
	}

	var status int
	switch svcErr.Kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
	}
	response.FailField(c, status, svcErr.Kind.String(), svcErr.Field, svcErr.Message)
}

// bindError 请求体或查询参数绑定失败
func bindError(c *gin.Context, err error) {
	response.FailField(c, http.StatusBadRequest, service.KindValidation.String(), "", "请求参数无效: "+err.Error())
}
