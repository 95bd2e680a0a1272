package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// ── 房间模块业务错误 ──

var (
	ErrRoomNotFound = errors.New("房间不存在")
	ErrRoomExists   = errors.New("该宿舍楼下房间号已存在")
	ErrRoomFull     = errors.New("房间已满")
	ErrRoomOccupied = errors.New("房间仍有人入住，不能删除")
)

// RoomService 房间管理业务接口
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	List(ctx context.Context) ([]dto.RoomResponse, error)
	Get(ctx context.Context, id string) (*dto.RoomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
	Availability(ctx context.Context, id string) (bool, error)
}

type roomService struct {
	repo   *repository.Repository
	dir    HostelDirectory
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, dir HostelDirectory, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, dir: dir, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	hostel, err := s.dir.Resolve(ctx, req.HostelName)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		HostelID:   hostel.HostelID,
		RoomNumber: req.RoomNumber,
		Type:       req.Type,
		Capacity:   req.Capacity,
		Features:   model.StringArray(req.Features),
	}

	// 房间记录与宿舍楼房间列表同时写入
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Room.Create(ctx, room); err != nil {
			return err
		}
		return tx.Hostel.AppendRoom(ctx, hostel.HostelID, room.RoomNumber)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrRoomExists
		}
		s.logger.Error("创建房间失败", zap.String("hostel", hostel.Name), zap.String("room", req.RoomNumber), zap.Error(err))
		return nil, err
	}

	room.Hostel = hostel
	resp := toRoomResponse(room)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *roomService) List(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("查询房间列表失败", zap.Error(err))
		return nil, err
	}
	return toRoomResponses(rooms), nil
}

func (s *roomService) get(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func (s *roomService) Get(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoomResponse(room)
	return &resp, nil
}

func (s *roomService) Availability(ctx context.Context, id string) (bool, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return false, err
	}
	return room.Available(), nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	room, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Type != nil {
		fields["type"] = *req.Type
		room.Type = *req.Type
	}
	if req.Capacity != nil {
		if *req.Capacity < room.CurrentOccupancy {
			return nil, ErrCapacityBelowOccupancy
		}
		fields["capacity"] = *req.Capacity
		room.Capacity = *req.Capacity
	}
	if req.Features != nil {
		fields["features"] = model.StringArray(req.Features)
		room.Features = model.StringArray(req.Features)
	}

	// 容量条件由 UPDATE 语句判断，读取之后新增的入住同样生效
	ok, err := s.repo.Room.Update(ctx, id, fields)
	if err != nil {
		s.logger.Error("更新房间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !ok {
		if req.Capacity == nil {
			return nil, ErrRoomNotFound
		}
		if _, err := s.get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrCapacityBelowOccupancy
	}

	resp := toRoomResponse(room)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id string) error {
	room, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if room.CurrentOccupancy > 0 {
		return ErrRoomOccupied
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Room.DeleteIfVacant(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			// 读取之后房间被删除或有人入住
			if _, err := tx.Room.GetByID(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoomNotFound
				}
				return err
			}
			return ErrRoomOccupied
		}
		return tx.Hostel.RemoveRoom(ctx, room.HostelID, room.RoomNumber)
	})
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrRoomOccupied) {
			return err
		}
		s.logger.Error("删除房间失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 转换 ──

func toRoomResponse(r *model.Room) dto.RoomResponse {
	resp := dto.RoomResponse{
		ID:               r.RoomID,
		RoomNumber:       r.RoomNumber,
		Type:             r.Type,
		Capacity:         r.Capacity,
		CurrentOccupancy: r.CurrentOccupancy,
		Occupants:        []string(r.Occupants),
		Features:         []string(r.Features),
	}
	if r.Hostel != nil {
		resp.HostelName = r.Hostel.Name
	}
	if resp.Occupants == nil {
		resp.Occupants = []string{}
	}
	if resp.Features == nil {
		resp.Features = []string{}
	}
	return resp
}

func toRoomResponses(rooms []model.Room) []dto.RoomResponse {
	list := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		list = append(list, toRoomResponse(&rooms[i]))
	}
	return list
}
