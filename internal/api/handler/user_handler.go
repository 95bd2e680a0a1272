package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/internal/service"
	"github.com/shiven424/hostel-system/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetUserByEmail 按邮箱查询用户
// GET /user/:email
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email, ok := pathParam(c, "email", "邮箱不能为空")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11003, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// ListWardens 宿管列表
// GET /wardens
func (h *UserHandler) ListWardens(c *gin.Context) {
	wardens, err := h.userSvc.ListWardens(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": wardens})
}

// ListAssignableWardens 未负责宿舍楼的宿管
// GET /wardens-for-assign
func (h *UserHandler) ListAssignableWardens(c *gin.Context) {
	wardens, err := h.userSvc.ListAssignableWardens(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": wardens})
}
