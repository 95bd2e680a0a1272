package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// ── 申请流转业务错误 ──

var (
	ErrApplicationNotFound = errors.New("申请不存在")
	ErrApplicationExists   = errors.New("已有处理中的申请")
	ErrHostelMismatch      = errors.New("申请未分配到该宿舍楼")
	ErrStatusNotSettable   = errors.New("分配状态只能通过分配宿舍楼/房间接口设置")
)

// WorkflowService 住宿申请流转
//
// 申请在 (hostel_status, room_status) 两个维度上流转：
//
//	(pending, pending) ──管理员分配宿舍楼──▶ (assigned, pending) ──宿管分配房间──▶ (assigned, assigned)
//
// 任一维度可在 pending 时被拒绝。分配宿舍楼与分配房间各自在一个事务内完成
// 占用数自增、申请状态与用户记录的更新，任何一步失败整体回滚。
type WorkflowService interface {
	SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error)
	GetApplication(ctx context.Context, id string) (*dto.ApplicationResponse, error)
	DeleteApplication(ctx context.Context, id string) error
	// UpdateStatus 通用状态接口，仅允许将 pending 维度置为 rejected
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateApplicationStatusRequest) error

	AssignHostel(ctx context.Context, bitsID, hostelName string) error
	AssignRoom(ctx context.Context, bitsID, hostelName, roomNumber string) error

	PendingForAdmin(ctx context.Context) ([]dto.ApplicationResponse, error)
	ClosedForAdmin(ctx context.Context) ([]dto.ApplicationResponse, error)
	PendingForWarden(ctx context.Context, hostelName string) ([]dto.ApplicationResponse, error)
	ClosedForWarden(ctx context.Context, hostelName string) ([]dto.ApplicationResponse, error)
}

type workflowService struct {
	repo   *repository.Repository
	dir    HostelDirectory
	logger *zap.Logger
}

// NewWorkflowService 创建 WorkflowService 实例
func NewWorkflowService(repo *repository.Repository, dir HostelDirectory, logger *zap.Logger) WorkflowService {
	return &workflowService{repo: repo, dir: dir, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *workflowService) SubmitApplication(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	if _, err := s.repo.User.GetByBitsID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询申请人失败", zap.String("bits_id", req.UserID), zap.Error(err))
		return nil, err
	}

	_, err := s.repo.Application.GetOpenByBitsID(ctx, req.UserID)
	if err == nil {
		return nil, ErrApplicationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中申请失败", zap.String("bits_id", req.UserID), zap.Error(err))
		return nil, err
	}

	initial := model.InitialState()
	app := &model.Application{
		BitsID:             req.UserID,
		HostelPreference:   model.StringArray(req.HostelPreference),
		RoomTypePreference: req.RoomTypePreference,
		HostelStatus:       initial.Hostel,
		RoomStatus:         initial.Room,
	}
	if err := s.repo.Application.Create(ctx, app); err != nil {
		s.logger.Error("创建申请失败", zap.String("bits_id", req.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("申请已提交", zap.String("application_id", app.ApplicationID), zap.String("bits_id", app.BitsID))
	return &dto.SubmitApplicationResponse{ApplicationID: app.ApplicationID}, nil
}

// ────────────────────── Get / Delete ──────────────────────

func (s *workflowService) getApplication(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (s *workflowService) GetApplication(ctx context.Context, id string) (*dto.ApplicationResponse, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toApplicationResponse(app)
	return &resp, nil
}

func (s *workflowService) DeleteApplication(ctx context.Context, id string) error {
	ok, err := s.repo.Application.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除申请失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if !ok {
		return ErrApplicationNotFound
	}
	return nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *workflowService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateApplicationStatusRequest) error {
	axis := model.StatusAxis(req.Axis)
	to := model.AssignmentStatus(req.Status)
	if !axis.Valid() || !to.Valid() {
		return fmt.Errorf("%w: axis=%s status=%s", model.ErrInvalidTransition, req.Axis, req.Status)
	}
	// 分配必须经过带容量检查的接口
	if to != model.StatusRejected {
		return ErrStatusNotSettable
	}

	app, err := s.getApplication(ctx, id)
	if err != nil {
		return err
	}
	next, err := app.State().Transition(axis, to)
	if err != nil {
		return err
	}

	var extra map[string]interface{}
	if req.Remarks != "" {
		extra = map[string]interface{}{"remarks": req.Remarks}
	}
	if err := s.repo.Application.UpdateState(ctx, app, next, extra); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新申请状态失败", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("申请已拒绝",
		zap.String("application_id", id),
		zap.String("axis", string(axis)),
	)
	return nil
}

// ────────────────────── AssignHostel ──────────────────────

func (s *workflowService) AssignHostel(ctx context.Context, bitsID, hostelName string) error {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return err
	}

	app, err := s.openApplication(ctx, bitsID)
	if err != nil {
		return err
	}
	next, err := app.State().Transition(model.AxisHostel, model.StatusAssigned)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 条件自增：检查与占用在同一条语句内完成
		if err := tx.Hostel.IncrementOccupancy(ctx, hostel.HostelID); err != nil {
			if errors.Is(err, pkgerrors.ErrNoCapacity) {
				return ErrHostelFull
			}
			return err
		}

		// 2. 申请状态
		if err := tx.Application.UpdateState(ctx, app, next, map[string]interface{}{
			"alloted_hostel_id": hostel.HostelID,
		}); err != nil {
			return err
		}

		// 3. 用户记录
		ok, err := tx.User.SetHostel(ctx, bitsID, hostel.HostelID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		s.logTransitionErr("分配宿舍楼失败", bitsID, hostel.Name, err)
		return err
	}

	s.logger.Info("宿舍楼分配成功", zap.String("bits_id", bitsID), zap.String("hostel", hostel.Name))
	return nil
}

// ────────────────────── AssignRoom ──────────────────────

func (s *workflowService) AssignRoom(ctx context.Context, bitsID, hostelName, roomNumber string) error {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return err
	}

	app, err := s.openApplication(ctx, bitsID)
	if err != nil {
		return err
	}
	if app.HostelStatus == model.StatusAssigned &&
		(app.AllotedHostelID == nil || *app.AllotedHostelID != hostel.HostelID) {
		return ErrHostelMismatch
	}
	next, err := app.State().Transition(model.AxisRoom, model.StatusAssigned)
	if err != nil {
		return err
	}

	room, err := s.repo.Room.GetByHostelAndNumber(ctx, hostel.HostelID, roomNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.String("hostel", hostel.Name), zap.String("room", roomNumber), zap.Error(err))
		return err
	}

	user, err := s.repo.User.GetByBitsID(ctx, bitsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询申请人失败", zap.String("bits_id", bitsID), zap.Error(err))
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 条件自增，同时持有该房间的行锁
		if err := tx.Room.IncrementOccupancy(ctx, hostel.HostelID, roomNumber); err != nil {
			if errors.Is(err, pkgerrors.ErrNoCapacity) {
				return ErrRoomFull
			}
			return err
		}

		// 2. 用户记录，未命中视为失败并回滚
		ok, err := tx.User.SetRoom(ctx, bitsID, hostel.HostelID, roomNumber)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		// 3. 入住名单
		if err := tx.Room.AddOccupant(ctx, room.RoomID, user.UserID); err != nil {
			return err
		}

		// 4. 申请状态
		return tx.Application.UpdateState(ctx, app, next, map[string]interface{}{
			"alloted_room": roomNumber,
		})
	})
	if err != nil {
		s.logTransitionErr("分配房间失败", bitsID, hostel.Name, err)
		return err
	}

	s.logger.Info("房间分配成功",
		zap.String("bits_id", bitsID),
		zap.String("hostel", hostel.Name),
		zap.String("room", roomNumber),
	)
	return nil
}

// openApplication 申请人当前处理中的申请
func (s *workflowService) openApplication(ctx context.Context, bitsID string) (*model.Application, error) {
	app, err := s.repo.Application.GetOpenByBitsID(ctx, bitsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询进行中申请失败", zap.String("bits_id", bitsID), zap.Error(err))
		return nil, err
	}
	return app, nil
}

// logTransitionErr 业务拒绝记 Info，存储故障记 Error
func (s *workflowService) logTransitionErr(msg, bitsID, hostel string, err error) {
	fields := []zap.Field{zap.String("bits_id", bitsID), zap.String("hostel", hostel), zap.Error(err)}
	switch {
	case errors.Is(err, ErrHostelFull),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, pkgerrors.ErrOptimisticLock):
		s.logger.Info(msg, fields...)
	default:
		s.logger.Error(msg, fields...)
	}
}

// ────────────────────── Queues ──────────────────────

func (s *workflowService) PendingForAdmin(ctx context.Context) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListPendingForAdmin(ctx)
	if err != nil {
		s.logger.Error("查询待分配宿舍楼申请失败", zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

func (s *workflowService) ClosedForAdmin(ctx context.Context) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListClosedForAdmin(ctx)
	if err != nil {
		s.logger.Error("查询已处理申请失败", zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

func (s *workflowService) PendingForWarden(ctx context.Context, hostelName string) ([]dto.ApplicationResponse, error) {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return nil, err
	}
	apps, err := s.repo.Application.ListPendingForWarden(ctx, hostel.HostelID)
	if err != nil {
		s.logger.Error("查询待分配房间申请失败", zap.String("hostel", hostel.Name), zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

func (s *workflowService) ClosedForWarden(ctx context.Context, hostelName string) ([]dto.ApplicationResponse, error) {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return nil, err
	}
	apps, err := s.repo.Application.ListClosedForWarden(ctx, hostel.HostelID)
	if err != nil {
		s.logger.Error("查询已分配房间申请失败", zap.String("hostel", hostel.Name), zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

// ── 转换 ──

func toApplicationResponse(a *model.Application) dto.ApplicationResponse {
	var hostelName *string
	if a.AllotedHostel != nil {
		name := a.AllotedHostel.Name
		hostelName = &name
	}
	prefs := []string(a.HostelPreference)
	if prefs == nil {
		prefs = []string{}
	}
	return dto.ApplicationResponse{
		ID:                 a.ApplicationID,
		BitsID:             a.BitsID,
		HostelPreference:   prefs,
		RoomTypePreference: a.RoomTypePreference,
		ApplicationDate:    a.ApplicationDate.Format(timeLayout),
		HostelStatus:       string(a.HostelStatus),
		RoomStatus:         string(a.RoomStatus),
		AllotedHostel:      hostelName,
		AllotedRoom:        a.AllotedRoom,
		Remarks:            a.Remarks,
	}
}

func toApplicationResponses(apps []model.Application) []dto.ApplicationResponse {
	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, toApplicationResponse(&apps[i]))
	}
	return list
}
