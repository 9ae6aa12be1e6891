// Package testutil 测试辅助：内存 SQLite 与基础数据构造
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	"foodgram-go/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

// NewDB 为每个测试创建独立的内存 SQLite 并完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 共享缓存的内存库在最后一个连接关闭时销毁，单连接同时避免事务内外互相阻塞
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Config 返回测试用配置并设置为全局配置
func Config(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		App:      config.AppConfig{Name: "foodgram-test", Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite"},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
		Recipe: config.RecipeConfig{
			MinCookingTime:      1,
			MinIngredientAmount: 1,
			PageSize:            6,
			MaxPageSize:         100,
		},
		ShoppingList: config.ShoppingListConfig{
			Filename:   "shopping_list.pdf",
			Title:      "Shopping list",
			FontFamily: "DejaVuSans",
		},
	}
	config.Set(cfg)
	return cfg
}

// CreateUser 创建测试用户
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Password:  "not-a-real-hash",
		UserRole:  model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateIngredient 创建测试食材
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()

	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

// CreateTag 创建测试标签
func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *model.Tag {
	t.Helper()

	tag := &model.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Amount 食材行简写
type Amount struct {
	IngredientID int64
	Amount       int
}

// CreateRecipe 直接落库一条菜谱（绕过服务层校验）
func CreateRecipe(t *testing.T, db *gorm.DB, authorID int64, name string, tagIDs []int64, lines []Amount) *model.Recipe {
	t.Helper()

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        name + " description",
		CookingTime: 10,
		Image:       "http://images.local/" + name + ".png",
	}
	require.NoError(t, db.Omit("Author", "Tags", "Ingredients").Create(recipe).Error)

	for _, tagID := range tagIDs {
		require.NoError(t, db.Create(&model.RecipeTag{RecipeID: recipe.ID, TagID: tagID}).Error)
	}
	for _, l := range lines {
		require.NoError(t, db.Create(&model.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: l.IngredientID,
			Amount:       l.Amount,
		}).Error)
	}
	return recipe
}
