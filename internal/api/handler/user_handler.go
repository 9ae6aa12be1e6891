package handler

import (
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserProfile} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	profile, err := h.userService.GetProfile(userID, &userID)
	if err != nil {
		handleServiceError(c, err, "Get current user")
		return
	}

	response.OK(c, "获取成功", profile)
}

// GetUser 获取用户资料
// @Summary 获取指定用户资料
// @Description is_subscribed 相对当前访问者计算，匿名访问恒为 false
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.UserProfile} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	profile, err := h.userService.GetProfile(targetID, middleware.GetViewerID(c))
	if err != nil {
		handleServiceError(c, err, "Get user")
		return
	}

	response.OK(c, "获取成功", profile)
}

// ListUsers 用户列表
// @Summary 分页查询用户
// @Tags 用户
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response{data=dto.UserListData} "获取成功"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	data, err := h.userService.List(middleware.GetViewerID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err, "List users")
		return
	}

	response.OK(c, "获取成功", data)
}
