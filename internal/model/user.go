package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Email     string    `gorm:"size:254;not null;uniqueIndex;comment:邮箱" json:"email"`
	Username  string    `gorm:"size:150;not null;uniqueIndex;comment:用户名" json:"username"`
	FirstName string    `gorm:"size:150;not null;default:'';comment:名" json:"first_name"`
	LastName  string    `gorm:"size:150;not null;default:'';comment:姓" json:"last_name"`
	Password  string    `gorm:"size:255;not null;comment:密码" json:"-"` // json:"-" 序列化时忽略密码
	UserRole  string    `gorm:"size:32;not null;default:'user';comment:用户角色" json:"user_role"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`

	// 关联关系
	Recipes []Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"recipes,omitempty"`
}

func (User) TableName() string {
	return "users"
}
