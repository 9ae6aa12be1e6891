package dto

// IngredientAmount 写入菜谱时的食材行
type IngredientAmount struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeWriteRequest 创建/更新菜谱请求
// 数值约束与重复校验在服务层完成，以便返回字段级错误
type RecipeWriteRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []int64            `json:"tags"`
	Image       string             `json:"image"` // base64 data URI，更新时可省略
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time"`
}

// RecipeIngredientInfo 菜谱中的食材行（展开食材名称与单位）
type RecipeIngredientInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeDetail 菜谱详情
type RecipeDetail struct {
	ID               int64                  `json:"id"`
	Tags             []TagInfo              `json:"tags"`
	Author           UserProfile            `json:"author"`
	Ingredients      []RecipeIngredientInfo `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShort 菜谱简要信息（收藏、购物车、订阅中使用）
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeListRequest 菜谱列表查询参数
type RecipeListRequest struct {
	Tags             []string `form:"tags"`
	Author           *int64   `form:"author"`
	IsFavorited      *bool    `form:"is_favorited"`
	IsInShoppingCart *bool    `form:"is_in_shopping_cart"`
}

// RecipeListData 菜谱列表数据
type RecipeListData struct {
	Recipes    []RecipeDetail `json:"recipes"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int64          `json:"total_pages"`
}
