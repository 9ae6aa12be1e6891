package handler

import (
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/response"
	"foodgram-go/internal/model"
	"foodgram-go/internal/service"

	"github.com/gin-gonic/gin"
)

// CollectionHandler 收藏与购物车
type CollectionHandler struct {
	collectionService *service.CollectionService
}

func NewCollectionHandler(collectionService *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// Favorite 收藏菜谱
// @Summary 收藏菜谱
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=dto.RecipeShort} "收藏成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Failure 409 {object} response.ErrorResponse "已收藏"
// @Router /recipes/{id}/favorite [post]
func (h *CollectionHandler) Favorite(c *gin.Context) {
	h.add(c, model.CollectionFavorite, "收藏成功")
}

// Unfavorite 取消收藏
// @Summary 取消收藏
// @Tags 收藏
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204 "取消成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Failure 409 {object} response.ErrorResponse "未收藏"
// @Router /recipes/{id}/favorite [delete]
func (h *CollectionHandler) Unfavorite(c *gin.Context) {
	h.remove(c, model.CollectionFavorite)
}

// AddToCart 加入购物车
// @Summary 加入购物车
// @Tags 购物车
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=dto.RecipeShort} "加入成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Failure 409 {object} response.ErrorResponse "已在购物车中"
// @Router /recipes/{id}/shopping_cart [post]
func (h *CollectionHandler) AddToCart(c *gin.Context) {
	h.add(c, model.CollectionShoppingCart, "加入成功")
}

// RemoveFromCart 移出购物车
// @Summary 移出购物车
// @Tags 购物车
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204 "移出成功"
// @Failure 404 {object} response.ErrorResponse "菜谱不存在"
// @Failure 409 {object} response.ErrorResponse "不在购物车中"
// @Router /recipes/{id}/shopping_cart [delete]
func (h *CollectionHandler) RemoveFromCart(c *gin.Context) {
	h.remove(c, model.CollectionShoppingCart)
}

func (h *CollectionHandler) add(c *gin.Context, kind model.CollectionKind, message string) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的菜谱ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	short, err := h.collectionService.Add(kind, userID, recipeID)
	if err != nil {
		handleServiceError(c, err, "Add to "+string(kind))
		return
	}
	response.Created(c, message, short)
}

func (h *CollectionHandler) remove(c *gin.Context, kind model.CollectionKind) {
	recipeID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的菜谱ID")
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	if err := h.collectionService.Remove(kind, userID, recipeID); err != nil {
		handleServiceError(c, err, "Remove from "+string(kind))
		return
	}
	response.NoContent(c)
}
