package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/service"
	"github.com/shiven424/hostel-system/pkg/response"
)

// RoomHandler 房间模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoom 创建房间
// POST /room
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.Created(c, "房间创建成功", room)
}

// ListRooms 房间列表
// GET /rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rooms})
}

// GetRoom 房间详情
// GET /room/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := pathParam(c, "id", "房间ID不能为空")
	if !ok {
		return
	}

	room, err := h.roomSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// UpdateRoom 更新房间
// PUT /room/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := pathParam(c, "id", "房间ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OKMessage(c, "房间更新成功", room)
}

// DeleteRoom 删除房间
// DELETE /room/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := pathParam(c, "id", "房间ID不能为空")
	if !ok {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), id); err != nil {
		handleRoomError(c, err)
		return
	}

	response.OKMessage(c, "房间已删除", nil)
}

// RoomAvailability 房间是否仍有空位
// GET /room/:id/availability
func (h *RoomHandler) RoomAvailability(c *gin.Context) {
	id, ok := pathParam(c, "id", "房间ID不能为空")
	if !ok {
		return
	}

	available, err := h.roomSvc.Availability(c.Request.Context(), id)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, dto.RoomAvailabilityResponse{Available: available})
}

// handleRoomError 统一处理房间模块业务错误
func handleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrRoomExists):
		response.Conflict(c, 13002, "该宿舍楼下房间号已存在")
	case errors.Is(err, service.ErrRoomFull):
		response.Conflict(c, 13003, "房间已满")
	case errors.Is(err, service.ErrRoomOccupied):
		response.Conflict(c, 13004, "房间仍有人入住，不能删除")
	case errors.Is(err, service.ErrCapacityBelowOccupancy):
		response.Conflict(c, 13005, "容量不能小于当前入住人数")
	case errors.Is(err, service.ErrHostelNotFound):
		response.NotFound(c, 12001, "宿舍楼不存在")
	default:
		response.InternalError(c)
	}
}
