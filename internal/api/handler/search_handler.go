package handler

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchRecipes 搜索菜谱
// @Summary 搜索菜谱
// @Description 在名称、食材与描述中搜索，Elasticsearch 不可用时回退到数据库
// @Tags 搜索
// @Produce json
// @Param q query string false "搜索关键词"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.SearchRecipeData} "搜索成功"
// @Router /recipes/search [get]
func (h *SearchHandler) SearchRecipes(c *gin.Context) {
	var req dto.SearchRecipeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.searchService.SearchRecipes(c.Request.Context(), &req, middleware.GetViewerID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err, "Search recipes")
		return
	}
	response.OK(c, "搜索成功", data)
}

// Reindex 重建搜索索引
// @Summary 重建菜谱索引（管理员）
// @Tags 搜索
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "同步完成"
// @Failure 500 {object} response.ErrorResponse "同步失败"
// @Router /recipes/search/reindex [post]
func (h *SearchHandler) Reindex(c *gin.Context) {
	success, failed, err := h.searchService.ReindexAll(c.Request.Context())
	if err != nil {
		logger.Error("Reindex recipes failed", zap.Error(err))
		response.InternalError(c, "同步失败")
		return
	}

	response.OK(c, "同步完成", gin.H{
		"success": success,
		"failed":  failed,
	})
}
