package handler

import (
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Subscribe 订阅作者
// @Summary 订阅作者
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path int true "作者ID"
// @Param recipes_limit query int false "返回的最新菜谱数量，缺省不限制"
// @Success 201 {object} response.Response{data=dto.SubscriptionInfo} "订阅成功"
// @Failure 400 {object} response.ErrorResponse "不能订阅自己"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Failure 409 {object} response.ErrorResponse "已订阅"
// @Router /users/{id}/subscribe [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	recipesLimit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	info, err := h.subscriptionService.Subscribe(userID, authorID, recipesLimit)
	if err != nil {
		handleServiceError(c, err, "Subscribe")
		return
	}
	response.Created(c, "订阅成功", info)
}

// Unsubscribe 取消订阅
// @Summary 取消订阅
// @Tags 订阅
// @Security BearerAuth
// @Param id path int true "作者ID"
// @Success 204 "取消成功"
// @Failure 404 {object} response.ErrorResponse "未订阅"
// @Router /users/{id}/subscribe [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	authorID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.subscriptionService.Unsubscribe(userID, authorID); err != nil {
		handleServiceError(c, err, "Unsubscribe")
		return
	}
	response.NoContent(c)
}

// List 我的订阅
// @Summary 我的订阅
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Param recipes_limit query int false "每位作者返回的最新菜谱数量"
// @Success 200 {object} response.Response{data=dto.SubscriptionListData} "获取成功"
// @Router /users/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	recipesLimit, ok := parseRecipesLimit(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	data, err := h.subscriptionService.List(userID, page, pageSize, recipesLimit)
	if err != nil {
		handleServiceError(c, err, "List subscriptions")
		return
	}
	response.OK(c, "获取成功", data)
}
