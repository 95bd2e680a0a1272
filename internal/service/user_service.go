package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
)

// UserService 用户查询业务接口
type UserService interface {
	GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	// ListWardens 全部宿管
	ListWardens(ctx context.Context) ([]dto.UserResponse, error)
	// ListAssignableWardens 尚未负责任何宿舍楼的宿管
	ListAssignableWardens(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListWardens(ctx context.Context) ([]dto.UserResponse, error) {
	return s.listWardens(ctx, false)
}

func (s *userService) ListAssignableWardens(ctx context.Context) ([]dto.UserResponse, error) {
	return s.listWardens(ctx, true)
}

func (s *userService) listWardens(ctx context.Context, unassignedOnly bool) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListByRole(ctx, model.RoleWarden, unassignedOnly)
	if err != nil {
		s.logger.Error("查询宿管列表失败", zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

// ── 转换 ──

func toUserResponse(u *model.User) dto.UserResponse {
	var hostelName *string
	if u.Hostel != nil {
		name := u.Hostel.Name
		hostelName = &name
	}
	return dto.UserResponse{
		ID:               u.UserID,
		BitsID:           u.BitsID,
		Username:         u.Username,
		Email:            u.Email,
		ContactNumber:    u.ContactNumber,
		Role:             u.Role,
		HostelName:       hostelName,
		RoomNumber:       u.RoomNumber,
		RegistrationDate: u.RegistrationDate.Format(timeLayout),
	}
}

func toUserResponses(users []model.User) []dto.UserResponse {
	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list
}
