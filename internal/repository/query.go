package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 构造包含匹配的 LIKE 模式，通配符按字面匹配，需配合 ESCAPE '\'
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// isSQLite SQLite 的 LIKE / LOWER 只对 ASCII 做大小写折叠
func isSQLite(db *gorm.DB) bool {
	return db.Dialector.Name() == "sqlite"
}

// likeOperator PostgreSQL 使用 ILIKE 做大小写无关匹配
func likeOperator(db *gorm.DB) string {
	if isSQLite(db) {
		return "LIKE"
	}
	return "ILIKE"
}
