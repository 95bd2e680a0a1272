package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/service"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
	"github.com/shiven424/hostel-system/pkg/response"
)

// ApplicationHandler 住宿申请模块 HTTP 处理器
type ApplicationHandler struct {
	workflowSvc service.WorkflowService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(workflowSvc service.WorkflowService) *ApplicationHandler {
	return &ApplicationHandler{workflowSvc: workflowSvc}
}

// ────────────────────── 申请 ──────────────────────

// SubmitApplication 学生提交住宿申请
// POST /applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.workflowSvc.SubmitApplication(c.Request.Context(), &req)
	if err != nil {
		handleApplicationError(c, err)
		return
	}

	response.Created(c, "申请已提交", result)
}

// GetApplication 申请详情
// GET /application/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := pathParam(c, "id", "申请ID不能为空")
	if !ok {
		return
	}

	app, err := h.workflowSvc.GetApplication(c.Request.Context(), id)
	if err != nil {
		handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// DeleteApplication 删除申请
// DELETE /application/:id
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := pathParam(c, "id", "申请ID不能为空")
	if !ok {
		return
	}

	if err := h.workflowSvc.DeleteApplication(c.Request.Context(), id); err != nil {
		handleApplicationError(c, err)
		return
	}

	response.OKMessage(c, "申请已删除", nil)
}

// UpdateStatus 拒绝申请的某一维度
// PUT /application/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathParam(c, "id", "申请ID不能为空")
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.workflowSvc.UpdateStatus(c.Request.Context(), id, &req); err != nil {
		handleApplicationError(c, err)
		return
	}

	response.OKMessage(c, "申请状态已更新", nil)
}

// ────────────────────── 状态流转 ──────────────────────

// AssignHostel 管理员分配宿舍楼
// POST|PUT /assign-hostel/:bits_id
func (h *ApplicationHandler) AssignHostel(c *gin.Context) {
	bitsID, ok := pathParam(c, "bits_id", "BITS ID 不能为空")
	if !ok {
		return
	}

	var req dto.AssignHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.workflowSvc.AssignHostel(c.Request.Context(), bitsID, req.HostelName); err != nil {
		handleApplicationError(c, err)
		return
	}

	response.OKMessage(c, "宿舍楼分配成功", nil)
}

// AssignRoom 宿管分配房间
// PUT /room-requests/:bits_id/assign-room
func (h *ApplicationHandler) AssignRoom(c *gin.Context) {
	bitsID, ok := pathParam(c, "bits_id", "BITS ID 不能为空")
	if !ok {
		return
	}

	var req dto.AssignRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.workflowSvc.AssignRoom(c.Request.Context(), bitsID, req.HostelName, req.RoomNumber); err != nil {
		handleApplicationError(c, err)
		return
	}

	response.OKMessage(c, "房间分配成功", nil)
}

// ────────────────────── 队列 ──────────────────────

// PendingForAdmin 待分配宿舍楼的申请
// GET /pending-requests-admin
func (h *ApplicationHandler) PendingForAdmin(c *gin.Context) {
	apps, err := h.workflowSvc.PendingForAdmin(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": apps})
}

// ClosedForAdmin 已处理宿舍楼维度的申请
// GET /closed-requests-admin
func (h *ApplicationHandler) ClosedForAdmin(c *gin.Context) {
	apps, err := h.workflowSvc.ClosedForAdmin(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": apps})
}

// PendingForWarden 本楼待分配房间的申请
// GET /pending-requests-warden/:hostel
func (h *ApplicationHandler) PendingForWarden(c *gin.Context) {
	hostel, ok := pathParam(c, "hostel", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	apps, err := h.workflowSvc.PendingForWarden(c.Request.Context(), hostel)
	if err != nil {
		handleApplicationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": apps})
}

// ClosedForWarden 本楼已处理房间维度的申请
// GET /closed-requests-warden/:hostel
func (h *ApplicationHandler) ClosedForWarden(c *gin.Context) {
	hostel, ok := pathParam(c, "hostel", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	apps, err := h.workflowSvc.ClosedForWarden(c.Request.Context(), hostel)
	if err != nil {
		handleApplicationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": apps})
}

// handleApplicationError 统一处理申请流转业务错误
func handleApplicationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 14001, "申请不存在")
	case errors.Is(err, service.ErrApplicationExists):
		response.Conflict(c, 14002, "已有处理中的申请")
	case errors.Is(err, service.ErrHostelMismatch):
		response.Conflict(c, 14003, "申请未分配到该宿舍楼")
	case errors.Is(err, service.ErrStatusNotSettable):
		response.BadRequest(c, 14004, "分配状态只能通过分配宿舍楼/房间接口设置")
	case errors.Is(err, model.ErrInvalidTransition):
		response.Conflict(c, 14005, "申请当前状态不允许此操作")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14006, "申请已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11003, "用户不存在")
	case errors.Is(err, service.ErrHostelNotFound):
		response.NotFound(c, 12001, "宿舍楼不存在")
	case errors.Is(err, service.ErrHostelFull):
		response.Conflict(c, 12003, "宿舍楼已满")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "房间不存在")
	case errors.Is(err, service.ErrRoomFull):
		response.Conflict(c, 13003, "房间已满")
	default:
		response.InternalError(c)
	}
}
