package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// RoomRepository 房间数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByHostelAndNumber(ctx context.Context, hostelID model.HostelID, roomNumber string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	ListByHostel(ctx context.Context, hostelID model.HostelID) ([]model.Room, error)
	// ListAvailableByHostel current_occupancy < capacity 的房间
	ListAvailableByHostel(ctx context.Context, hostelID model.HostelID) ([]model.Room, error)
	FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Room, error)
	// Update 部分更新；修改 capacity 时要求新容量不低于 current_occupancy，否则返回 false
	Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteIfVacant 仅当 current_occupancy = 0 时删除，返回是否删除
	DeleteIfVacant(ctx context.Context, id string) (bool, error)

	// IncrementOccupancy 原子地占用一个床位；已满或不存在时返回 ErrNoCapacity
	IncrementOccupancy(ctx context.Context, hostelID model.HostelID, roomNumber string) error
	// AddOccupant 追加入住用户，需在 IncrementOccupancy 之后的同一事务内调用
	AddOccupant(ctx context.Context, roomID, userID string) error
}

// roomRepo RoomRepository 的 GORM 实现
type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(room).Error)
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByHostelAndNumber(ctx context.Context, hostelID model.HostelID, roomNumber string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("hostel_id = ? AND room_number = ?", hostelID, roomNumber).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Order("hostel_id ASC, room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) ListByHostel(ctx context.Context, hostelID model.HostelID) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("hostel_id = ?", hostelID).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) ListAvailableByHostel(ctx context.Context, hostelID model.HostelID) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("hostel_id = ? AND current_occupancy < capacity", hostelID).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Preload("Hostel").
		Scopes(scopeFilter(filter)).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	return updateCapacityByID(ctx, r.db, &model.Room{}, "room_id", id, fields)
}

func (r *roomRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, &model.Room{}, "room_id", id)
}

func (r *roomRepo) DeleteIfVacant(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND current_occupancy = 0", id).
		Delete(&model.Room{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *roomRepo) IncrementOccupancy(ctx context.Context, hostelID model.HostelID, roomNumber string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("hostel_id = ? AND room_number = ? AND current_occupancy < capacity", hostelID, roomNumber).
		Update("current_occupancy", gorm.Expr("current_occupancy + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrNoCapacity
	}
	return nil
}

func (r *roomRepo) AddOccupant(ctx context.Context, roomID, userID string) error {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&room).Error; err != nil {
		return err
	}
	if room.Occupants.Contains(userID) {
		return nil
	}
	occupants := append(model.StringArray{}, room.Occupants...)
	occupants = append(occupants, userID)
	return r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("room_id = ?", roomID).
		Update("occupants", occupants).Error
}
