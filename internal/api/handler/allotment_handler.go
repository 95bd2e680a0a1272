package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/service"
	"github.com/shiven424/hostel-system/pkg/response"
)

// AllotmentHandler 入住记录模块 HTTP 处理器
type AllotmentHandler struct {
	allotmentSvc service.AllotmentService
}

// NewAllotmentHandler 创建 AllotmentHandler
func NewAllotmentHandler(allotmentSvc service.AllotmentService) *AllotmentHandler {
	return &AllotmentHandler{allotmentSvc: allotmentSvc}
}

// CreateAllotment 创建入住记录
// POST /allotment
func (h *AllotmentHandler) CreateAllotment(c *gin.Context) {
	var req dto.CreateAllotmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	allotment, err := h.allotmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleAllotmentError(c, err)
		return
	}

	response.Created(c, "入住记录创建成功", allotment)
}

// GetAllotment 入住记录详情
// GET /allotment/:id
func (h *AllotmentHandler) GetAllotment(c *gin.Context) {
	id, ok := pathParam(c, "id", "入住记录ID不能为空")
	if !ok {
		return
	}

	allotment, err := h.allotmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleAllotmentError(c, err)
		return
	}

	response.OK(c, allotment)
}

// ListUserAllotments 用户的入住记录
// GET /allotments/user/:id
func (h *AllotmentHandler) ListUserAllotments(c *gin.Context) {
	userID, ok := pathParam(c, "id", "用户ID不能为空")
	if !ok {
		return
	}

	allotments, err := h.allotmentSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": allotments})
}

// UpdateAllotment 更新入住记录
// PUT /allotment/:id
func (h *AllotmentHandler) UpdateAllotment(c *gin.Context) {
	id, ok := pathParam(c, "id", "入住记录ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateAllotmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	allotment, err := h.allotmentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleAllotmentError(c, err)
		return
	}

	response.OKMessage(c, "入住记录更新成功", allotment)
}

// DeleteAllotment 删除入住记录
// DELETE /allotment/:id
func (h *AllotmentHandler) DeleteAllotment(c *gin.Context) {
	id, ok := pathParam(c, "id", "入住记录ID不能为空")
	if !ok {
		return
	}

	if err := h.allotmentSvc.Delete(c.Request.Context(), id); err != nil {
		handleAllotmentError(c, err)
		return
	}

	response.OKMessage(c, "入住记录已删除", nil)
}

// handleAllotmentError 统一处理入住记录模块业务错误
func handleAllotmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAllotmentNotFound):
		response.NotFound(c, 15001, "入住记录不存在")
	case errors.Is(err, service.ErrInvalidAllotment):
		response.BadRequest(c, 10001, "入住日期或状态不合法")
	case errors.Is(err, service.ErrRoomNotInHostel):
		response.BadRequest(c, 15002, "房间不属于该宿舍楼")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11003, "用户不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrHostelNotFound):
		response.NotFound(c, 12001, "宿舍楼不存在")
	default:
		response.InternalError(c)
	}
}
