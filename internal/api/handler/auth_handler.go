package handler

import (
	"foodgram-go/internal/api/dto"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 用户注册
// @Summary 用户注册
// @Description 使用邮箱、用户名、姓名和密码注册新账号
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册信息"
// @Success 201 {object} response.Response{data=dto.UserInfo} "注册成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 409 {object} response.ErrorResponse "邮箱或用户名已存在"
// @Router /users [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userInfo, err := h.authService.Register(&req)
	if err != nil {
		handleServiceError(c, err, "Register")
		return
	}

	response.Created(c, "注册成功", userInfo)
}

// Login 用户登录
// @Summary 获取 Token
// @Description 邮箱 + 密码登录，返回 auth_token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=dto.TokenData} "登录成功"
// @Failure 400 {object} response.ErrorResponse "邮箱或密码错误"
// @Router /auth/token/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tokenData, err := h.authService.Login(&req)
	if err != nil {
		handleServiceError(c, err, "Login")
		return
	}

	response.OK(c, "登录成功", tokenData)
}

// Logout 注销 Token
// @Summary 注销 Token
// @Description 当前 Token 加入黑名单直至过期
// @Tags 认证
// @Security BearerAuth
// @Success 204 "注销成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /auth/token/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "无法获取认证信息")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		handleServiceError(c, err, "Logout")
		return
	}

	response.NoContent(c)
}

// SetPassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Security BearerAuth
// @Param request body dto.SetPasswordRequest true "当前密码与新密码"
// @Success 204 "修改成功"
// @Failure 400 {object} response.ErrorResponse "当前密码错误"
// @Router /users/set_password [post]
func (h *AuthHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.authService.SetPassword(userID, &req); err != nil {
		handleServiceError(c, err, "Set password")
		return
	}

	response.NoContent(c)
}
