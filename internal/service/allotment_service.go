package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
)

// ── 入住记录模块业务错误 ──

var (
	ErrAllotmentNotFound = errors.New("入住记录不存在")
	ErrRoomNotInHostel   = errors.New("房间不属于该宿舍楼")
	ErrInvalidAllotment  = errors.New("入住日期或状态不合法")
)

// allotmentDateLayout 请求中 allotment_date 的格式
const allotmentDateLayout = "2006-01-02"

// AllotmentService 入住记录业务接口
type AllotmentService interface {
	Create(ctx context.Context, req *dto.CreateAllotmentRequest) (*dto.AllotmentResponse, error)
	Get(ctx context.Context, id string) (*dto.AllotmentResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.AllotmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAllotmentRequest) (*dto.AllotmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type allotmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAllotmentService 创建 AllotmentService 实例
func NewAllotmentService(repo *repository.Repository, logger *zap.Logger) AllotmentService {
	return &allotmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *allotmentService) Create(ctx context.Context, req *dto.CreateAllotmentRequest) (*dto.AllotmentResponse, error) {
	// 1. 字段校验，先于任何存储访问
	var date time.Time
	if req.AllotmentDate != "" {
		d, err := time.Parse(allotmentDateLayout, req.AllotmentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: allotment_date=%q", ErrInvalidAllotment, req.AllotmentDate)
		}
		date = d
	}
	if req.Status != "" && !model.ValidAllotmentStatus(req.Status) {
		return nil, fmt.Errorf("%w: status=%q", ErrInvalidAllotment, req.Status)
	}

	// 2. 引用校验
	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.String("room_id", req.RoomID), zap.Error(err))
		return nil, err
	}
	hostel, err := s.repo.Hostel.GetByID(ctx, model.HostelID(req.HostelID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostelNotFound
		}
		s.logger.Error("查询宿舍楼失败", zap.String("hostel_id", req.HostelID), zap.Error(err))
		return nil, err
	}
	if room.HostelID != hostel.HostelID {
		return nil, ErrRoomNotInHostel
	}

	// 3. 构造记录，日期为空时由 BeforeCreate 取当前时间
	allotment := &model.Allotment{
		UserID:        req.UserID,
		RoomID:        room.RoomID,
		HostelID:      hostel.HostelID,
		AllotmentDate: date,
		Duration:      req.Duration,
		Status:        req.Status,
		Remarks:       req.Remarks,
	}

	if err := s.repo.Allotment.Create(ctx, allotment); err != nil {
		s.logger.Error("创建入住记录失败", zap.Error(err))
		return nil, err
	}

	resp := toAllotmentResponse(allotment)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *allotmentService) get(ctx context.Context, id string) (*model.Allotment, error) {
	allotment, err := s.repo.Allotment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllotmentNotFound
		}
		s.logger.Error("查询入住记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return allotment, nil
}

func (s *allotmentService) Get(ctx context.Context, id string) (*dto.AllotmentResponse, error) {
	allotment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toAllotmentResponse(allotment)
	return &resp, nil
}

func (s *allotmentService) ListByUser(ctx context.Context, userID string) ([]dto.AllotmentResponse, error) {
	allotments, err := s.repo.Allotment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户入住记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.AllotmentResponse, 0, len(allotments))
	for i := range allotments {
		list = append(list, toAllotmentResponse(&allotments[i]))
	}
	return list, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *allotmentService) Update(ctx context.Context, id string, req *dto.UpdateAllotmentRequest) (*dto.AllotmentResponse, error) {
	allotment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Duration != nil {
		fields["duration"] = *req.Duration
		allotment.Duration = *req.Duration
	}
	if req.Status != nil {
		fields["status"] = *req.Status
		allotment.Status = *req.Status
	}
	if req.Remarks != nil {
		fields["remarks"] = *req.Remarks
		allotment.Remarks = req.Remarks
	}

	ok, err := s.repo.Allotment.Update(ctx, id, fields)
	if err != nil {
		s.logger.Error("更新入住记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrAllotmentNotFound
	}

	resp := toAllotmentResponse(allotment)
	return &resp, nil
}

func (s *allotmentService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Allotment.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除入住记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if !ok {
		return ErrAllotmentNotFound
	}
	return nil
}

// ── 转换 ──

func toAllotmentResponse(a *model.Allotment) dto.AllotmentResponse {
	return dto.AllotmentResponse{
		ID:            a.AllotmentID,
		UserID:        a.UserID,
		RoomID:        a.RoomID,
		HostelID:      string(a.HostelID),
		AllotmentDate: a.AllotmentDate.Format(timeLayout),
		Duration:      a.Duration,
		Status:        a.Status,
		Remarks:       a.Remarks,
	}
}
