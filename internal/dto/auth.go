package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name          string `json:"name"           binding:"required,notblank,max=100"`
	Password      string `json:"password"       binding:"required,min=6,maxbytes=72"`
	Role          string `json:"role"           binding:"required,oneof=student admin warden"`
	Email         string `json:"email"          binding:"required,email"`
	ContactNumber string `json:"contact_number" binding:"required,notblank,max=32"`
	BitsID        string `json:"bits_id"        binding:"required,notblank,max=32"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	User        LoginUser `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"` // Access Token 有效期（秒）
}

// LoginUser 登录返回的用户摘要
type LoginUser struct {
	ID     string `json:"_id"`
	BitsID string `json:"bits_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	ID     string `json:"id"`
	BitsID string `json:"bits_id"`
	Email  string `json:"email"`
}
