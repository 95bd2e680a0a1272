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

// ── 宿舍楼模块业务错误 ──

var (
	ErrHostelNotFound          = errors.New("宿舍楼不存在")
	ErrHostelExists            = errors.New("宿舍楼名称已存在")
	ErrHostelFull              = errors.New("宿舍楼已满")
	ErrCapacityBelowOccupancy  = errors.New("容量不能小于当前入住人数")
	ErrWardenNotFound          = errors.New("宿管不存在或该邮箱不属于宿管")
	ErrNoWardenAssigned        = errors.New("该宿舍楼未分配宿管")
	ErrWardenNotAssignedToThis = errors.New("该宿管不负责此宿舍楼")
)

// HostelService 宿舍楼管理业务接口
type HostelService interface {
	Create(ctx context.Context, req *dto.CreateHostelRequest) (*dto.HostelResponse, error)
	List(ctx context.Context) ([]dto.HostelResponse, error)
	// ListAvailable capacity > current_occupancy 的宿舍楼
	ListAvailable(ctx context.Context) ([]dto.HostelResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateHostelRequest) (*dto.HostelResponse, error)
	AssignWarden(ctx context.Context, hostelName, wardenEmail string) error
	// RemoveWarden wardenEmail 为空时移除当前宿管
	RemoveWarden(ctx context.Context, hostelName, wardenEmail string) error
	ListStudents(ctx context.Context, hostelName string) ([]dto.UserResponse, error)
	AvailableRooms(ctx context.Context, hostelName string) ([]dto.RoomResponse, error)
}

type hostelService struct {
	repo   *repository.Repository
	dir    HostelDirectory
	logger *zap.Logger
}

// NewHostelService 创建 HostelService 实例
func NewHostelService(repo *repository.Repository, dir HostelDirectory, logger *zap.Logger) HostelService {
	return &hostelService{repo: repo, dir: dir, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *hostelService) Create(ctx context.Context, req *dto.CreateHostelRequest) (*dto.HostelResponse, error) {
	rooms := model.StringArray{}
	for _, n := range req.Rooms {
		if !rooms.Contains(n) {
			rooms = append(rooms, n)
		}
	}
	totalRooms := len(rooms)
	if req.TotalRooms != nil {
		totalRooms = *req.TotalRooms
	}

	hostel := &model.Hostel{
		Name:       req.Name,
		Location:   req.Location,
		TotalRooms: totalRooms,
		Capacity:   req.Capacity,
		Rooms:      rooms,
	}
	if err := s.repo.Hostel.Create(ctx, hostel); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrHostelExists
		}
		s.logger.Error("创建宿舍楼失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	resp := toHostelResponse(hostel)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *hostelService) List(ctx context.Context) ([]dto.HostelResponse, error) {
	hostels, err := s.repo.Hostel.List(ctx)
	if err != nil {
		s.logger.Error("查询宿舍楼列表失败", zap.Error(err))
		return nil, err
	}
	return toHostelResponses(hostels), nil
}

func (s *hostelService) ListAvailable(ctx context.Context) ([]dto.HostelResponse, error) {
	hostels, err := s.repo.Hostel.ListAvailable(ctx)
	if err != nil {
		s.logger.Error("查询可用宿舍楼失败", zap.Error(err))
		return nil, err
	}
	return toHostelResponses(hostels), nil
}

// ────────────────────── Update ──────────────────────

func (s *hostelService) Update(ctx context.Context, id string, req *dto.UpdateHostelRequest) (*dto.HostelResponse, error) {
	hostel, err := s.repo.Hostel.GetByID(ctx, model.HostelID(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostelNotFound
		}
		s.logger.Error("查询宿舍楼失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	fields := make(map[string]interface{})
	oldName := hostel.Name
	if req.Name != nil && *req.Name != hostel.Name {
		fields["name"] = *req.Name
		fields["slug"] = model.SlugOf(*req.Name)
		hostel.Name = *req.Name
		hostel.Slug = model.SlugOf(*req.Name)
	}
	if req.Location != nil {
		fields["location"] = *req.Location
		hostel.Location = *req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity < hostel.CurrentOccupancy {
			return nil, ErrCapacityBelowOccupancy
		}
		fields["capacity"] = *req.Capacity
		hostel.Capacity = *req.Capacity
	}

	if len(fields) > 0 {
		ok, err := s.repo.Hostel.Update(ctx, hostel.HostelID, fields)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrDuplicate) {
				return nil, ErrHostelExists
			}
			s.logger.Error("更新宿舍楼失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		if !ok {
			if req.Capacity == nil {
				return nil, ErrHostelNotFound
			}
			// 容量条件由 UPDATE 语句判断，读取之后新增的入住同样生效
			if _, err := s.repo.Hostel.GetByID(ctx, hostel.HostelID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrHostelNotFound
				}
				s.logger.Error("查询宿舍楼失败", zap.String("id", id), zap.Error(err))
				return nil, err
			}
			return nil, ErrCapacityBelowOccupancy
		}
		if oldName != hostel.Name {
			s.dir.Invalidate(ctx, oldName)
		}
	}

	resp := toHostelResponse(hostel)
	return &resp, nil
}

// ────────────────────── Warden ──────────────────────

func (s *hostelService) AssignWarden(ctx context.Context, hostelName, wardenEmail string) error {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return err
	}

	warden, err := s.repo.User.GetByEmail(ctx, wardenEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWardenNotFound
		}
		s.logger.Error("查询宿管失败", zap.String("email", wardenEmail), zap.Error(err))
		return err
	}
	if warden.Role != model.RoleWarden {
		return ErrWardenNotFound
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 被替换的宿管解除与本楼的关联
		if hostel.WardenEmail != nil && *hostel.WardenEmail != warden.Email {
			if _, err := tx.User.SetHostelByEmail(ctx, *hostel.WardenEmail, nil); err != nil {
				return err
			}
		}
		// 宿管从其他楼调入时清空原楼的宿管信息
		if warden.HostelID != nil && *warden.HostelID != hostel.HostelID {
			prev, err := tx.Hostel.GetByID(ctx, *warden.HostelID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if prev != nil && prev.WardenEmail != nil && *prev.WardenEmail == warden.Email {
				if _, err := tx.Hostel.ClearWarden(ctx, prev.HostelID); err != nil {
					return err
				}
			}
		}
		ok, err := tx.Hostel.SetWarden(ctx, hostel.HostelID, warden.Username, warden.ContactNumber, warden.Email)
		if err != nil {
			return err
		}
		if !ok {
			return ErrHostelNotFound
		}
		_, err = tx.User.SetHostelByEmail(ctx, warden.Email, &hostel.HostelID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrHostelNotFound) {
			return err
		}
		s.logger.Error("分配宿管失败", zap.String("hostel", hostel.Name), zap.String("email", wardenEmail), zap.Error(err))
		return err
	}

	s.logger.Info("宿管分配成功", zap.String("hostel", hostel.Name), zap.String("email", warden.Email))
	return nil
}

func (s *hostelService) RemoveWarden(ctx context.Context, hostelName, wardenEmail string) error {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return err
	}
	if !hostel.HasWarden() {
		return ErrNoWardenAssigned
	}
	if wardenEmail == "" {
		wardenEmail = *hostel.WardenEmail
	}
	if wardenEmail != *hostel.WardenEmail {
		return ErrWardenNotAssignedToThis
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Hostel.ClearWarden(ctx, hostel.HostelID); err != nil {
			return err
		}
		_, err := tx.User.SetHostelByEmail(ctx, wardenEmail, nil)
		return err
	})
	if err != nil {
		s.logger.Error("移除宿管失败", zap.String("hostel", hostel.Name), zap.Error(err))
		return err
	}

	s.logger.Info("宿管移除成功", zap.String("hostel", hostel.Name), zap.String("email", wardenEmail))
	return nil
}

// ────────────────────── 楼内查询 ──────────────────────

func (s *hostelService) ListStudents(ctx context.Context, hostelName string) ([]dto.UserResponse, error) {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.User.ListStudentsByHostel(ctx, hostel.HostelID)
	if err != nil {
		s.logger.Error("查询楼内学生失败", zap.String("hostel", hostel.Name), zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *hostelService) AvailableRooms(ctx context.Context, hostelName string) ([]dto.RoomResponse, error) {
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.Room.ListAvailableByHostel(ctx, hostel.HostelID)
	if err != nil {
		s.logger.Error("查询可用房间失败", zap.String("hostel", hostel.Name), zap.Error(err))
		return nil, err
	}
	return toRoomResponses(rooms), nil
}

// ── 转换 ──

func toHostelResponse(h *model.Hostel) dto.HostelResponse {
	rooms := []string(h.Rooms)
	if rooms == nil {
		rooms = []string{}
	}
	return dto.HostelResponse{
		ID:               string(h.HostelID),
		Name:             h.Name,
		Slug:             h.Slug,
		Location:         h.Location,
		TotalRooms:       h.TotalRooms,
		Capacity:         h.Capacity,
		CurrentOccupancy: h.CurrentOccupancy,
		Rooms:            rooms,
		WardenName:       h.WardenName,
		WardenContact:    h.WardenContact,
		WardenEmail:      h.WardenEmail,
	}
}

func toHostelResponses(hostels []model.Hostel) []dto.HostelResponse {
	list := make([]dto.HostelResponse, 0, len(hostels))
	for i := range hostels {
		list = append(list, toHostelResponse(&hostels[i]))
	}
	return list
}
