package repository

import (
	"sort"
	"strings"

	"foodgram-go/internal/model"

	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// GetByID 根据 ID 查询食材
func (r *IngredientRepository) GetByID(id int64) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := r.db.Where("id = ?", id).First(&ing).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// GetByIDs 批量查询食材
func (r *IngredientRepository) GetByIDs(ids []int64) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Ingredient
	err := r.db.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// Search 按名称搜索食材，前缀匹配排在包含匹配之前，name 为空时返回全部
func (r *IngredientRepository) Search(name string) ([]model.Ingredient, error) {
	query := r.db.Model(&model.Ingredient{})

	needle := strings.ToLower(strings.TrimSpace(name))
	// SQLite 无法折叠非 ASCII 大小写，交给下方 Go 过滤
	if needle != "" && !isSQLite(r.db) {
		query = query.Where("name ILIKE ? ESCAPE '\\'", containsPattern(needle))
	}

	var list []model.Ingredient
	if err := query.Order("name ASC").Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	if needle == "" {
		return list, nil
	}

	matched := list[:0]
	for _, ing := range list {
		if strings.Contains(strings.ToLower(ing.Name), needle) {
			matched = append(matched, ing)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(matched[i].Name), needle)
		pj := strings.HasPrefix(strings.ToLower(matched[j].Name), needle)
		return pi && !pj
	})
	return matched, nil
}

// Create 创建食材
func (r *IngredientRepository) Create(ing *model.Ingredient) error {
	return r.db.Create(ing).Error
}

// Update 更新食材字段
func (r *IngredientRepository) Update(id int64, updates map[string]interface{}) (*model.Ingredient, error) {
	result := r.db.Model(&model.Ingredient{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// CreateBatch 批量导入食材，已存在的 (name, measurement_unit) 跳过
func (r *IngredientRepository) CreateBatch(list []model.Ingredient) (int, error) {
	created := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range list {
			var count int64
			if err := tx.Model(&model.Ingredient{}).
				Where("name = ? AND measurement_unit = ?", list[i].Name, list[i].MeasurementUnit).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&list[i]).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// List 查询全部标签
func (r *TagRepository) List() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Order("id ASC").Find(&tags).Error
	return tags, err
}

// GetByID 根据 ID 查询标签
func (r *TagRepository) GetByID(id int64) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetByIDs 批量查询标签
func (r *TagRepository) GetByIDs(ids []int64) ([]model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// Create 创建标签
func (r *TagRepository) Create(tag *model.Tag) error {
	return r.db.Create(tag).Error
}

// Update 更新标签字段
func (r *TagRepository) Update(id int64, updates map[string]interface{}) (*model.Tag, error) {
	result := r.db.Model(&model.Tag{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// CreateBatch 批量导入标签，slug 已存在的跳过
func (r *TagRepository) CreateBatch(tags []model.Tag) (int, error) {
	created := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range tags {
			var count int64
			if err := tx.Model(&model.Tag{}).Where("slug = ?", tags[i].Slug).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&tags[i]).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
