package model

// Ingredient 食材目录
// 名称不做唯一约束，同名食材可以有不同的计量单位
type Ingredient struct {
	ID              int64  `gorm:"primaryKey;autoIncrement;comment:食材ID" json:"id"`
	Name            string `gorm:"size:200;not null;index:idx_ingredients_name;comment:食材名称" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;comment:计量单位" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// Tag 标签目录，name/color/slug 各自唯一
type Tag struct {
	ID    int64  `gorm:"primaryKey;autoIncrement;comment:标签ID" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex:uq_tags_name;comment:标签名称" json:"name"`
	Color string `gorm:"size:7;not null;uniqueIndex:uq_tags_color;comment:HEX颜色" json:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex:uq_tags_slug;comment:标签slug" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}
