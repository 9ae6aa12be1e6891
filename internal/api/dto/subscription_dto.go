package dto

// SubscriptionInfo 订阅作者信息（含作者菜谱）
type SubscriptionInfo struct {
	Email        string        `json:"email"`
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	IsSubscribed bool          `json:"is_subscribed"`
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// SubscriptionListData 订阅列表数据
type SubscriptionListData struct {
	Authors    []SubscriptionInfo `json:"authors"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}
