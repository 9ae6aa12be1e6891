package handler

import (
	"fmt"
	"net/http"

	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeService       *service.RecipeService
	shoppingListService *service.ShoppingListService
}

func NewRecipeHandler(recipeService *service.RecipeService, shoppingListService *service.ShoppingListService) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
	}
}

// List 菜谱列表
// @Summary 查询菜谱
// @Description 按发布时间倒序分页；多个 tags 之间为“或”关系，is_favorited / is_in_shopping_cart 相对当前访问者
// @Tags 菜谱
// @Produce json
// @Param tags query []string false "标签 slug，可重复" collectionFormat(multi)
// @Param author query int false "作者ID"
// @Param is_favorited query bool false "仅收藏"
// @Param is_in_shopping_cart query bool false "仅购物车"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.RecipeListData} "获取成功"
// @Router /recipes [get]
func (h *RecipeHandler) List(c *gin.Context) {
	var req dto.RecipeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.recipeService.List(&req, middleware.GetViewerID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err, "List recipes")
		return
	}
	response.OK(c, "获取成功", data)
}

// Get 菜谱详情
// @Summary 获取菜谱
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} response.Response{data=dto.RecipeDetail} "获取成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id} [get]
func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的菜谱ID")
		return
	}

	detail, err := h.recipeService.Get(id, middleware.GetViewerID(c))
	if err != nil {
		handleServiceError(c, err, "Get recipe")
		return
	}
	response.OK(c, "获取成功", detail)
}

// Create 发布菜谱
// @Summary 发布菜谱
// @Description 一次性提交标签、食材行与 base64 图片，全部写入同一事务
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecipeWriteRequest true "菜谱内容"
// @Success 201 {object} response.Response{data=dto.RecipeDetail} "发布成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 404 {object} response.ErrorResponse "标签或食材不存在"
// @Failure 409 {object} response.ErrorResponse "同名菜谱已存在"
// @Router /recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	detail, err := h.recipeService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err, "Create recipe")
		return
	}
	response.Created(c, "发布成功", detail)
}

// Update 修改菜谱
// @Summary 修改菜谱（作者）
// @Description 标签与食材行整体替换；image 为空时保留原图
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Param request body dto.RecipeWriteRequest true "菜谱内容"
// @Success 200 {object} response.Response{data=dto.RecipeDetail} "修改成功"
// @Failure 403 {object} response.ErrorResponse "不是作者"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的菜谱ID")
		return
	}

	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	detail, err := h.recipeService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(c, err, "Update recipe")
		return
	}
	response.OK(c, "修改成功", detail)
}

// Delete 删除菜谱
// @Summary 删除菜谱（作者）
// @Tags 菜谱
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204 "删除成功"
// @Failure 403 {object} response.ErrorResponse "不是作者"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的菜谱ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		handleServiceError(c, err, "Delete recipe")
		return
	}
	response.NoContent(c)
}

// DownloadShoppingCart 下载购物清单
// @Summary 下载购物清单 PDF
// @Description 汇总购物车中所有菜谱的食材，同名同单位的数量相加
// @Tags 菜谱
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} file "购物清单"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /recipes/download_shopping_cart [get]
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	file, err := h.shoppingListService.Generate(userID)
	if err != nil {
		handleServiceError(c, err, "Generate shopping list")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
