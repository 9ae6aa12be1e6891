package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Recipe        RecipeConfig        `mapstructure:"recipe"`
	ShoppingList  ShoppingListConfig  `mapstructure:"shopping_list"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres 或 sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回数据库连接字符串
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", d.SQLitePath)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	CacheTTL int    `mapstructure:"cache_ttl"` // 秒
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheDuration 返回目录缓存有效期
func (r *RedisConfig) CacheDuration() time.Duration {
	return time.Duration(r.CacheTTL) * time.Second
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	ImageBucket string `mapstructure:"image_bucket"`
	PublicURL   string `mapstructure:"public_url"` // 为空时由 endpoint 拼接
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
	GroupID string            `mapstructure:"group_id"`
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// RecipesIndex 返回菜谱索引名
func (e *ElasticsearchConfig) RecipesIndex() string {
	if name := e.Index["recipes"]; name != "" {
		return name
	}
	return "recipes"
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// ExpireDuration 返回过期时间
func (j *JWTConfig) ExpireDuration() time.Duration {
	return time.Duration(j.ExpireHours) * time.Hour
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"` // stdout | file | both
	FilePath string `mapstructure:"file_path"`
}

// RecipeConfig 菜谱业务约束
type RecipeConfig struct {
	MinCookingTime      int `mapstructure:"min_cooking_time"`
	MinIngredientAmount int `mapstructure:"min_ingredient_amount"`
	PageSize            int `mapstructure:"page_size"`
	MaxPageSize         int `mapstructure:"max_page_size"`
}

// ShoppingListConfig 购物清单 PDF 配置
type ShoppingListConfig struct {
	Filename   string `mapstructure:"filename"`
	Title      string `mapstructure:"title"`
	FontFamily string `mapstructure:"font_family"`
	FontPath   string `mapstructure:"font_path"` // TTF 字体，为空时使用内置 DejaVu Sans
}

// 全局配置实例
var globalConfig *Config

// setDefaults 设置默认值，配置文件缺省时生效
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "foodgram-go")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 8000)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)

	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.cache_ttl", 600)

	v.SetDefault("minio.image_bucket", "recipe-images")

	v.SetDefault("kafka.group_id", "foodgram-search-sync")
	v.SetDefault("kafka.topics.recipe_events", "recipe-events")

	v.SetDefault("elasticsearch.index.recipes", "recipes")

	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("recipe.min_cooking_time", 1)
	v.SetDefault("recipe.min_ingredient_amount", 1)
	v.SetDefault("recipe.page_size", 6)
	v.SetDefault("recipe.max_page_size", 100)

	v.SetDefault("shopping_list.filename", "shopping_list.pdf")
	v.SetDefault("shopping_list.title", "Shopping list")
	v.SetDefault("shopping_list.font_family", "DejaVuSans")
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	v.SetConfigFile(configPath)

	// 设置配置文件类型
	v.SetConfigType("yaml")

	setDefaults(v)

	// 读取环境变量，FOODGRAM_DATABASE_HOST 覆盖 database.host
	v.SetEnvPrefix("FOODGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 解析配置到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 保存到全局变量
	globalConfig = &cfg

	return &cfg, nil
}

// Validate 校验关键配置
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Recipe.MinCookingTime < 1 {
		return fmt.Errorf("recipe.min_cooking_time must be >= 1, got %d", c.Recipe.MinCookingTime)
	}
	if c.Recipe.MinIngredientAmount < 1 {
		return fmt.Errorf("recipe.min_ingredient_amount must be >= 1, got %d", c.Recipe.MinIngredientAmount)
	}
	if c.Recipe.PageSize < 1 || c.Recipe.PageSize > c.Recipe.MaxPageSize {
		return fmt.Errorf("recipe.page_size must be within [1, %d], got %d", c.Recipe.MaxPageSize, c.Recipe.PageSize)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must not be empty")
	}
	return nil
}

// Set 直接替换全局配置（测试与命令行工具使用）
func Set(cfg *Config) {
	globalConfig = cfg
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}

// GetApp 获取应用配置
func GetApp() *AppConfig {
	return &Get().App
}

// GetJWT 获取JWT配置
func GetJWT() *JWTConfig {
	return &Get().JWT
}

// GetRecipe 获取菜谱约束配置
func GetRecipe() *RecipeConfig {
	return &Get().Recipe
}

// GetShoppingList 获取购物清单配置
func GetShoppingList() *ShoppingListConfig {
	return &Get().ShoppingList
}

// GetKafka 获取Kafka配置
func GetKafka() *KafkaConfig {
	return &Get().Kafka
}

// GetElasticsearch 获取Elasticsearch配置
func GetElasticsearch() *ElasticsearchConfig {
	return &Get().Elasticsearch
}
