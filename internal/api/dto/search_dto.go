package dto

// SearchRecipeRequest 菜谱搜索参数
type SearchRecipeRequest struct {
	Q string `form:"q"`
}

// SearchRecipeData 菜谱搜索结果
type SearchRecipeData struct {
	Recipes    []RecipeDetail `json:"recipes"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int64          `json:"total_pages"`
	Source     string         `json:"source"` // elasticsearch 或 database
}
