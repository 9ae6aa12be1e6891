package dto

// LoginRequest 登录请求（邮箱 + 密码）
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=1,max=150"`
}

// TokenData 登录成功返回的 Token 信息
type TokenData struct {
	AuthToken string `json:"auth_token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// SetPasswordRequest 修改密码请求
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,max=150"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}
