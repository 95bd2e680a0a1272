package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByBitsID(ctx context.Context, bitsID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	FindBy(ctx context.Context, filter map[string]interface{}) ([]model.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	// ListByRole 按角色查询；unassignedOnly 为 true 时仅返回未关联宿舍楼的用户
	ListByRole(ctx context.Context, role string, unassignedOnly bool) ([]model.User, error)
	ListStudentsByHostel(ctx context.Context, hostelID model.HostelID) ([]model.User, error)
	SetHostel(ctx context.Context, bitsID string, hostelID model.HostelID) (bool, error)
	SetRoom(ctx context.Context, bitsID string, hostelID model.HostelID, roomNumber string) (bool, error)
	// SetHostelByEmail hostelID 为 nil 时清除关联
	SetHostelByEmail(ctx context.Context, email string, hostelID *model.HostelID) (bool, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) getBy(ctx context.Context, column, value string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where(column+" = ?", value).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getBy(ctx, "user_id", id)
}

func (r *userRepo) GetByBitsID(ctx context.Context, bitsID string) (*model.User, error) {
	return r.getBy(ctx, "bits_id", bitsID)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepo) FindBy(ctx context.Context, filter map[string]interface{}) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Scopes(scopeFilter(filter)).
		Order("registration_date ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	return updateByID(ctx, r.db, &model.User{}, "user_id", id, fields)
}

func (r *userRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, &model.User{}, "user_id", id)
}

func (r *userRepo) ListByRole(ctx context.Context, role string, unassignedOnly bool) ([]model.User, error) {
	var users []model.User
	db := r.db.WithContext(ctx).Preload("Hostel").Where("role = ?", role)
	if unassignedOnly {
		db = db.Where("hostel_id IS NULL")
	}
	err := db.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) ListStudentsByHostel(ctx context.Context, hostelID model.HostelID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("hostel_id = ? AND role = ?", hostelID, model.RoleStudent).
		Order("room_number ASC, username ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) SetHostel(ctx context.Context, bitsID string, hostelID model.HostelID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("bits_id = ?", bitsID).
		Update("hostel_id", hostelID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepo) SetRoom(ctx context.Context, bitsID string, hostelID model.HostelID, roomNumber string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("bits_id = ?", bitsID).
		Updates(map[string]interface{}{
			"hostel_id":   hostelID,
			"room_number": roomNumber,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepo) SetHostelByEmail(ctx context.Context, email string, hostelID *model.HostelID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("hostel_id", hostelID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
