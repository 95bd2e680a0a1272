package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/pkg/jwt"
	"github.com/shiven424/hostel-system/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	CtxUserID = "user_id"
	CtxBitsID = "bits_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

// MustGetClaims 从 Gin 上下文中安全提取 Token 声明。
// 如果 JWT 中间件未注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxRole)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// pathParam 读取路由参数，为空时写入 400 响应
func pathParam(c *gin.Context, name, msg string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, msg)
		return "", false
	}
	return v, true
}
