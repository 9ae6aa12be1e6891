package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,min=1,max=150"`
	FirstName string `json:"first_name" binding:"required,min=1,max=150"`
	LastName  string `json:"last_name" binding:"required,min=1,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// UserInfo 注册成功返回的用户信息
type UserInfo struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProfile 面向访问者的用户资料
type UserProfile struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// UserListData 用户列表数据
type UserListData struct {
	Users      []UserProfile `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}
