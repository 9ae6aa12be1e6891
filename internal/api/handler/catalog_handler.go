package handler

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	ingredientService *service.IngredientService
}

func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// List 食材列表
// @Summary 查询食材
// @Description 按名称搜索，前缀匹配排在前面，不分页
// @Tags 食材
// @Produce json
// @Param name query string false "名称关键词"
// @Success 200 {object} response.Response{data=[]dto.IngredientInfo} "获取成功"
// @Router /ingredients [get]
func (h *IngredientHandler) List(c *gin.Context) {
	items, err := h.ingredientService.Search(c.Query("name"))
	if err != nil {
		handleServiceError(c, err, "Search ingredients")
		return
	}
	response.OK(c, "获取成功", items)
}

// Get 食材详情
// @Summary 获取食材
// @Tags 食材
// @Produce json
// @Param id path int true "食材ID"
// @Success 200 {object} response.Response{data=dto.IngredientInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "食材不存在"
// @Router /ingredients/{id} [get]
func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的食材ID")
		return
	}

	info, err := h.ingredientService.Get(id)
	if err != nil {
		handleServiceError(c, err, "Get ingredient")
		return
	}
	response.OK(c, "获取成功", info)
}

// Create 创建食材
// @Summary 创建食材（管理员）
// @Tags 食材
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateIngredientRequest true "食材信息"
// @Success 201 {object} response.Response{data=dto.IngredientInfo} "创建成功"
// @Failure 403 {object} response.ErrorResponse "需要管理员权限"
// @Router /ingredients [post]
func (h *IngredientHandler) Create(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	info, err := h.ingredientService.Create(&req)
	if err != nil {
		handleServiceError(c, err, "Create ingredient")
		return
	}
	response.Created(c, "创建成功", info)
}

// Update 更新食材
// @Summary 更新食材（管理员）
// @Tags 食材
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "食材ID"
// @Param request body dto.UpdateIngredientRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.IngredientInfo} "更新成功"
// @Failure 404 {object} response.ErrorResponse "食材不存在"
// @Router /ingredients/{id} [patch]
func (h *IngredientHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的食材ID")
		return
	}

	var req dto.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	info, err := h.ingredientService.Update(id, &req)
	if err != nil {
		handleServiceError(c, err, "Update ingredient")
		return
	}
	response.OK(c, "更新成功", info)
}

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List 标签列表
// @Summary 查询全部标签
// @Tags 标签
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.TagInfo} "获取成功"
// @Router /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	items, err := h.tagService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "List tags")
		return
	}
	response.OK(c, "获取成功", items)
}

// Get 标签详情
// @Summary 获取标签
// @Tags 标签
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response{data=dto.TagInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "标签不存在"
// @Router /tags/{id} [get]
func (h *TagHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的标签ID")
		return
	}

	info, err := h.tagService.Get(id)
	if err != nil {
		handleServiceError(c, err, "Get tag")
		return
	}
	response.OK(c, "获取成功", info)
}

// Create 创建标签
// @Summary 创建标签（管理员）
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTagRequest true "标签信息"
// @Success 201 {object} response.Response{data=dto.TagInfo} "创建成功"
// @Failure 409 {object} response.ErrorResponse "名称、颜色或 slug 已存在"
// @Router /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	info, err := h.tagService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "Create tag")
		return
	}
	response.Created(c, "创建成功", info)
}

// Update 更新标签
// @Summary 更新标签（管理员）
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Param request body dto.UpdateTagRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.TagInfo} "更新成功"
// @Failure 409 {object} response.ErrorResponse "名称、颜色或 slug 已存在"
// @Router /tags/{id} [patch]
func (h *TagHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的标签ID")
		return
	}

	var req dto.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	info, err := h.tagService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err, "Update tag")
		return
	}
	response.OK(c, "更新成功", info)
}
