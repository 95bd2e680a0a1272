package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/service"
	"github.com/shiven424/hostel-system/pkg/response"
)

// HostelHandler 宿舍楼模块 HTTP 处理器
type HostelHandler struct {
	hostelSvc service.HostelService
}

// NewHostelHandler 创建 HostelHandler
func NewHostelHandler(hostelSvc service.HostelService) *HostelHandler {
	return &HostelHandler{hostelSvc: hostelSvc}
}

// CreateHostel 创建宿舍楼
// POST /hostel
func (h *HostelHandler) CreateHostel(c *gin.Context) {
	var req dto.CreateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	hostel, err := h.hostelSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleHostelError(c, err)
		return
	}

	response.Created(c, "宿舍楼创建成功", hostel)
}

// ListHostels 宿舍楼列表
// GET /hostels
func (h *HostelHandler) ListHostels(c *gin.Context) {
	hostels, err := h.hostelSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": hostels})
}

// ListAvailableHostels 仍有空余床位的宿舍楼
// GET /available-hostels
func (h *HostelHandler) ListAvailableHostels(c *gin.Context) {
	hostels, err := h.hostelSvc.ListAvailable(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": hostels})
}

// UpdateHostel 更新宿舍楼
// PUT /hostel/:id
func (h *HostelHandler) UpdateHostel(c *gin.Context) {
	id, ok := pathParam(c, "id", "宿舍楼ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	hostel, err := h.hostelSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleHostelError(c, err)
		return
	}

	response.OKMessage(c, "宿舍楼更新成功", hostel)
}

// AssignWarden 指定宿管
// PUT /hostels/:name/assign-warden
func (h *HostelHandler) AssignWarden(c *gin.Context) {
	name, ok := pathParam(c, "name", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	var req dto.WardenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WardenEmail == "" {
		response.BadRequest(c, 10001, "warden_email 不能为空")
		return
	}

	if err := h.hostelSvc.AssignWarden(c.Request.Context(), name, req.WardenEmail); err != nil {
		handleHostelError(c, err)
		return
	}

	response.OKMessage(c, "宿管指定成功", nil)
}

// RemoveWarden 移除宿管，请求体可省略
// PUT /hostels/:name/remove-warden
func (h *HostelHandler) RemoveWarden(c *gin.Context) {
	name, ok := pathParam(c, "name", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	var req dto.WardenRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	if err := h.hostelSvc.RemoveWarden(c.Request.Context(), name, req.WardenEmail); err != nil {
		handleHostelError(c, err)
		return
	}

	response.OKMessage(c, "宿管已移除", nil)
}

// ListStudents 楼内学生
// GET /hostels/:name/students
func (h *HostelHandler) ListStudents(c *gin.Context) {
	name, ok := pathParam(c, "name", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	students, err := h.hostelSvc.ListStudents(c.Request.Context(), name)
	if err != nil {
		handleHostelError(c, err)
		return
	}

	response.OK(c, gin.H{"list": students})
}

// AvailableRooms 楼内仍有空位的房间
// GET /hostels/:name/available_rooms
func (h *HostelHandler) AvailableRooms(c *gin.Context) {
	name, ok := pathParam(c, "name", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	rooms, err := h.hostelSvc.AvailableRooms(c.Request.Context(), name)
	if err != nil {
		handleHostelError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// handleHostelError 统一处理宿舍楼模块业务错误
func handleHostelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHostelNotFound):
		response.NotFound(c, 12001, "宿舍楼不存在")
	case errors.Is(err, service.ErrHostelExists):
		response.Conflict(c, 12002, "宿舍楼名称已存在")
	case errors.Is(err, service.ErrHostelFull):
		response.Conflict(c, 12003, "宿舍楼已满")
	case errors.Is(err, service.ErrCapacityBelowOccupancy):
		response.Conflict(c, 12004, "容量不能小于当前入住人数")
	case errors.Is(err, service.ErrWardenNotFound):
		response.NotFound(c, 12005, "宿管不存在或该邮箱不属于宿管")
	case errors.Is(err, service.ErrNoWardenAssigned):
		response.Conflict(c, 12006, "该宿舍楼未分配宿管")
	case errors.Is(err, service.ErrWardenNotAssignedToThis):
		response.Conflict(c, 12007, "该宿管不负责此宿舍楼")
	default:
		response.InternalError(c)
	}
}
