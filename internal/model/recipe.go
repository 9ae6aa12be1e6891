package model

import "time"

// Recipe 菜谱模型
type Recipe struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:菜谱ID" json:"id"`
	AuthorID    int64     `gorm:"not null;uniqueIndex:uq_recipe_author_name,priority:1;index:idx_recipes_author_id;comment:作者ID" json:"author_id"`
	Name        string    `gorm:"size:200;not null;uniqueIndex:uq_recipe_author_name,priority:2;comment:菜谱名称" json:"name"`
	Image       string    `gorm:"size:500;not null;default:'';comment:图片地址" json:"image"`
	Text        string    `gorm:"type:text;not null;comment:菜谱描述" json:"text"`
	CookingTime int       `gorm:"not null;comment:烹饪时间（分钟）" json:"cooking_time"`
	PubDate     time.Time `gorm:"autoCreateTime;not null;index:idx_recipes_pub_date;comment:发布时间" json:"pub_date"`

	// 关联关系
	Author      User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient 菜谱中的食材行（菜谱与食材的关联，带数量）
type RecipeIngredient struct {
	ID           int64 `gorm:"primaryKey;autoIncrement;comment:食材行ID" json:"id"`
	RecipeID     int64 `gorm:"not null;uniqueIndex:uq_recipe_ingredient,priority:1;comment:菜谱ID" json:"recipe_id"`
	IngredientID int64 `gorm:"not null;uniqueIndex:uq_recipe_ingredient,priority:2;index:idx_recipe_ingredients_ingredient_id;comment:食材ID" json:"ingredient_id"`
	Amount       int   `gorm:"not null;comment:数量" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag 菜谱与标签的关联表
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey;comment:菜谱ID" json:"recipe_id"`
	TagID    int64 `gorm:"primaryKey;index:idx_recipe_tags_tag_id;comment:标签ID" json:"tag_id"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// ShoppingListItem 购物清单汇总行（只读投影，不落库）
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int64  `json:"total"`
}
