package router

import (
	"foodgram-go/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部 Handler
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Ingredient   *handler.IngredientHandler
	Tag          *handler.TagHandler
	Recipe       *handler.RecipeHandler
	Collection   *handler.CollectionHandler
	Subscription *handler.SubscriptionHandler
	Search       *handler.SearchHandler
}

// Middlewares 认证相关中间件
type Middlewares struct {
	Auth     gin.HandlerFunc // 必须登录
	Optional gin.HandlerFunc // 可选登录，用于计算访问者相关字段
	Admin    gin.HandlerFunc // 管理员，需在 Auth 之后
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h Handlers, mw Middlewares) {
	api := r.Group("/api")

	// --- 认证 ---
	auth := api.Group("/auth/token")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", mw.Auth, h.Auth.Logout)
	}

	// --- 用户与订阅 ---
	users := api.Group("/users")
	{
		users.POST("", h.Auth.Register)
		users.GET("", mw.Optional, h.User.ListUsers)
		users.GET("/:id", mw.Optional, h.User.GetUser)

		usersAuth := users.Group("", mw.Auth)
		{
			usersAuth.GET("/me", h.User.GetMe)
			usersAuth.POST("/set_password", h.Auth.SetPassword)
			usersAuth.GET("/subscriptions", h.Subscription.List)
			usersAuth.POST("/:id/subscribe", h.Subscription.Subscribe)
			usersAuth.DELETE("/:id/subscribe", h.Subscription.Unsubscribe)
		}
	}

	// --- 标签 ---
	tags := api.Group("/tags")
	{
		tags.GET("", h.Tag.List)
		tags.GET("/:id", h.Tag.Get)

		admin := tags.Group("", mw.Auth, mw.Admin)
		{
			admin.POST("", h.Tag.Create)
			admin.PATCH("/:id", h.Tag.Update)
		}
	}

	// --- 食材 ---
	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", h.Ingredient.List)
		ingredients.GET("/:id", h.Ingredient.Get)

		admin := ingredients.Group("", mw.Auth, mw.Admin)
		{
			admin.POST("", h.Ingredient.Create)
			admin.PATCH("/:id", h.Ingredient.Update)
		}
	}

	// --- 菜谱 ---
	recipes := api.Group("/recipes")
	{
		// 公开接口，登录时返回访问者相关字段
		recipes.GET("", mw.Optional, h.Recipe.List)
		recipes.GET("/search", mw.Optional, h.Search.SearchRecipes)
		recipes.GET("/:id", mw.Optional, h.Recipe.Get)

		recipesAuth := recipes.Group("", mw.Auth)
		{
			recipesAuth.GET("/download_shopping_cart", h.Recipe.DownloadShoppingCart)
			recipesAuth.POST("", h.Recipe.Create)
			recipesAuth.PATCH("/:id", h.Recipe.Update)
			recipesAuth.DELETE("/:id", h.Recipe.Delete)

			recipesAuth.POST("/:id/favorite", h.Collection.Favorite)
			recipesAuth.DELETE("/:id/favorite", h.Collection.Unfavorite)
			recipesAuth.POST("/:id/shopping_cart", h.Collection.AddToCart)
			recipesAuth.DELETE("/:id/shopping_cart", h.Collection.RemoveFromCart)

			recipesAuth.POST("/search/reindex", mw.Admin, h.Search.Reindex)
		}
	}
}
