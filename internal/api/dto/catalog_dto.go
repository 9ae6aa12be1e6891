package dto

// IngredientInfo 食材信息
type IngredientInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// CreateIngredientRequest 创建食材请求（管理员）
type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,min=1,max=200"`
}

// UpdateIngredientRequest 更新食材请求（管理员）
type UpdateIngredientRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=200"`
	MeasurementUnit *string `json:"measurement_unit" binding:"omitempty,min=1,max=200"`
}

// TagInfo 标签信息
type TagInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// CreateTagRequest 创建标签请求（管理员）
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Color string `json:"color" binding:"required,len=7"`
	Slug  string `json:"slug" binding:"required,min=1,max=200"`
}

// UpdateTagRequest 更新标签请求（管理员）
type UpdateTagRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Color *string `json:"color" binding:"omitempty,len=7"`
	Slug  *string `json:"slug" binding:"omitempty,min=1,max=200"`
}
