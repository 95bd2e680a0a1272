package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiven424/hostel-system/internal/model"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// HostelRepository 宿舍楼数据访问接口
type HostelRepository interface {
	Create(ctx context.Context, hostel *model.Hostel) error
	GetByID(ctx context.Context, id model.HostelID) (*model.Hostel, error)
	GetByName(ctx context.Context, name string) (*model.Hostel, error)
	GetBySlug(ctx context.Context, slug string) (*model.Hostel, error)
	List(ctx context.Context) ([]model.Hostel, error)
	// ListAvailable capacity > current_occupancy 的宿舍楼
	ListAvailable(ctx context.Context) ([]model.Hostel, error)
	FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Hostel, error)
	// Update 部分更新；修改 capacity 时要求新容量不低于 current_occupancy，否则返回 false
	Update(ctx context.Context, id model.HostelID, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id model.HostelID) (bool, error)

	// IncrementOccupancy 原子地占用一个床位；已满或不存在时返回 ErrNoCapacity
	IncrementOccupancy(ctx context.Context, id model.HostelID) error
	SetWarden(ctx context.Context, id model.HostelID, name, contact, email string) (bool, error)
	ClearWarden(ctx context.Context, id model.HostelID) (bool, error)
	// AppendRoom / RemoveRoom 锁定宿舍楼行后改写房间列表并同步 total_rooms，需在事务内调用
	AppendRoom(ctx context.Context, id model.HostelID, roomNumber string) error
	RemoveRoom(ctx context.Context, id model.HostelID, roomNumber string) error
}

// hostelRepo HostelRepository 的 GORM 实现
type hostelRepo struct {
	db *gorm.DB
}

// NewHostelRepo 创建 HostelRepository 实例
func NewHostelRepo(db *gorm.DB) HostelRepository {
	return &hostelRepo{db: db}
}

func (r *hostelRepo) Create(ctx context.Context, hostel *model.Hostel) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(hostel).Error)
}

func (r *hostelRepo) getBy(ctx context.Context, column string, value interface{}) (*model.Hostel, error) {
	var hostel model.Hostel
	err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&hostel).Error
	if err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *hostelRepo) GetByID(ctx context.Context, id model.HostelID) (*model.Hostel, error) {
	return r.getBy(ctx, "hostel_id", id)
}

func (r *hostelRepo) GetByName(ctx context.Context, name string) (*model.Hostel, error) {
	return r.getBy(ctx, "name", name)
}

func (r *hostelRepo) GetBySlug(ctx context.Context, slug string) (*model.Hostel, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *hostelRepo) List(ctx context.Context) ([]model.Hostel, error) {
	var hostels []model.Hostel
	err := r.db.WithContext(ctx).Order("name ASC").Find(&hostels).Error
	return hostels, err
}

func (r *hostelRepo) ListAvailable(ctx context.Context) ([]model.Hostel, error) {
	var hostels []model.Hostel
	err := r.db.WithContext(ctx).
		Where("capacity > current_occupancy").
		Order("name ASC").
		Find(&hostels).Error
	return hostels, err
}

func (r *hostelRepo) FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Hostel, error) {
	var hostels []model.Hostel
	err := r.db.WithContext(ctx).Scopes(scopeFilter(filter)).Order("name ASC").Find(&hostels).Error
	return hostels, err
}

func (r *hostelRepo) Update(ctx context.Context, id model.HostelID, fields map[string]interface{}) (bool, error) {
	return updateCapacityByID(ctx, r.db, &model.Hostel{}, "hostel_id", string(id), fields)
}

func (r *hostelRepo) Delete(ctx context.Context, id model.HostelID) (bool, error) {
	return deleteByID(ctx, r.db, &model.Hostel{}, "hostel_id", string(id))
}

func (r *hostelRepo) IncrementOccupancy(ctx context.Context, id model.HostelID) error {
	// 检查与自增在同一条 UPDATE 中完成，并发请求不会超额分配
	result := r.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("hostel_id = ? AND current_occupancy < capacity", id).
		Update("current_occupancy", gorm.Expr("current_occupancy + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrNoCapacity
	}
	return nil
}

func (r *hostelRepo) SetWarden(ctx context.Context, id model.HostelID, name, contact, email string) (bool, error) {
	return r.Update(ctx, id, map[string]interface{}{
		"warden_name":    name,
		"warden_contact": contact,
		"warden_email":   email,
	})
}

func (r *hostelRepo) ClearWarden(ctx context.Context, id model.HostelID) (bool, error) {
	return r.Update(ctx, id, map[string]interface{}{
		"warden_name":    nil,
		"warden_contact": nil,
		"warden_email":   nil,
	})
}

// lockByID SELECT ... FOR UPDATE，SQLite 下不加锁
func (r *hostelRepo) lockByID(ctx context.Context, id model.HostelID) (*model.Hostel, error) {
	var hostel model.Hostel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("hostel_id = ?", id).
		First(&hostel).Error
	if err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *hostelRepo) AppendRoom(ctx context.Context, id model.HostelID, roomNumber string) error {
	hostel, err := r.lockByID(ctx, id)
	if err != nil {
		return err
	}
	if hostel.Rooms.Contains(roomNumber) {
		return nil
	}
	rooms := append(model.StringArray{}, hostel.Rooms...)
	rooms = append(rooms, roomNumber)
	return r.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("hostel_id = ?", id).
		Updates(map[string]interface{}{
			"rooms":       rooms,
			"total_rooms": len(rooms),
		}).Error
}

func (r *hostelRepo) RemoveRoom(ctx context.Context, id model.HostelID, roomNumber string) error {
	hostel, err := r.lockByID(ctx, id)
	if err != nil {
		return err
	}
	rooms := model.StringArray{}
	for _, n := range hostel.Rooms {
		if n != roomNumber {
			rooms = append(rooms, n)
		}
	}
	return r.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("hostel_id = ?", id).
		Updates(map[string]interface{}{
			"rooms":       rooms,
			"total_rooms": len(rooms),
		}).Error
}
