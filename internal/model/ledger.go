package model

import "time"

// Favorite 收藏模型
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:收藏记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_recipe_favorite;index:idx_favorites_user_id;comment:收藏用户ID" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:uq_user_recipe_favorite;index:idx_favorites_recipe_id;comment:被收藏菜谱ID" json:"recipe_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:收藏时间" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart 购物车模型
type ShoppingCart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:购物车记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_recipe_cart;index:idx_shopping_carts_user_id;comment:用户ID" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:uq_user_recipe_cart;index:idx_shopping_carts_recipe_id;comment:菜谱ID" json:"recipe_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:加入时间" json:"created_at"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription 用户订阅作者关系
type Subscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:订阅ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_author_subscription;index:idx_subscriptions_user_id;comment:订阅者ID" json:"user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:uq_user_author_subscription;index:idx_subscriptions_author_id;comment:作者ID" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// AllModels 需要自动迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
	}
}

// CollectionKind 用户菜谱集合类型（收藏 / 购物车）
type CollectionKind string

const (
	CollectionFavorite     CollectionKind = "favorite"
	CollectionShoppingCart CollectionKind = "shopping_cart"
)

// Valid 是否为已知集合类型
func (k CollectionKind) Valid() bool {
	return k == CollectionFavorite || k == CollectionShoppingCart
}
