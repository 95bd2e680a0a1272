package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// ApplicationRepository 住宿申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	// GetOpenByBitsID 申请人最近一条未进入终态的申请
	GetOpenByBitsID(ctx context.Context, bitsID string) (*model.Application, error)
	FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Application, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	ListPendingForAdmin(ctx context.Context) ([]model.Application, error)
	ListClosedForAdmin(ctx context.Context) ([]model.Application, error)
	ListPendingForWarden(ctx context.Context, hostelID model.HostelID) ([]model.Application, error)
	ListClosedForWarden(ctx context.Context, hostelID model.HostelID) ([]model.Application, error)

	// UpdateState 以 version 为条件写入新状态及附加字段，版本不匹配时返回 ErrOptimisticLock
	UpdateState(ctx context.Context, app *model.Application, next model.ApplicationState, extra map[string]interface{}) error
}

// applicationRepo ApplicationRepository 的 GORM 实现
type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.Application) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(app).Error)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("AllotedHostel").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetOpenByBitsID(ctx context.Context, bitsID string) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("AllotedHostel").
		Where("bits_id = ?", bitsID).
		Where("hostel_status = ? OR (hostel_status = ? AND room_status = ?)",
			model.StatusPending, model.StatusAssigned, model.StatusPending).
		Order("application_date DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("AllotedHostel").
		Scopes(scopeFilter(filter)).
		Order("application_date ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	return updateByID(ctx, r.db, &model.Application{}, "application_id", id, fields)
}

func (r *applicationRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, &model.Application{}, "application_id", id)
}

func (r *applicationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("AllotedHostel").
		Where(query, args...).
		Order("application_date ASC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepo) ListPendingForAdmin(ctx context.Context) ([]model.Application, error) {
	return r.list(ctx, "hostel_status = ?", model.StatusPending)
}

func (r *applicationRepo) ListClosedForAdmin(ctx context.Context) ([]model.Application, error) {
	return r.list(ctx, "hostel_status <> ?", model.StatusPending)
}

func (r *applicationRepo) ListPendingForWarden(ctx context.Context, hostelID model.HostelID) ([]model.Application, error) {
	return r.list(ctx, "room_status = ? AND hostel_status = ? AND alloted_hostel_id = ?",
		model.StatusPending, model.StatusAssigned, hostelID)
}

func (r *applicationRepo) ListClosedForWarden(ctx context.Context, hostelID model.HostelID) ([]model.Application, error) {
	return r.list(ctx, "room_status <> ? AND alloted_hostel_id = ?", model.StatusPending, hostelID)
}

func (r *applicationRepo) UpdateState(ctx context.Context, app *model.Application, next model.ApplicationState, extra map[string]interface{}) error {
	oldVersion := app.Version
	fields := map[string]interface{}{
		"hostel_status": next.Hostel,
		"room_status":   next.Room,
		"version":       oldVersion + 1,
	}
	for k, v := range extra {
		fields[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("application_id = ? AND version = ?", app.ApplicationID, oldVersion).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	app.HostelStatus = next.Hostel
	app.RoomStatus = next.Room
	app.Version = oldVersion + 1
	return nil
}
