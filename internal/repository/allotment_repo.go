package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
)

// AllotmentRepository 入住记录数据访问接口
type AllotmentRepository interface {
	Create(ctx context.Context, allotment *model.Allotment) error
	GetByID(ctx context.Context, id string) (*model.Allotment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Allotment, error)
	FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Allotment, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// allotmentRepo AllotmentRepository 的 GORM 实现
type allotmentRepo struct {
	db *gorm.DB
}

// NewAllotmentRepo 创建 AllotmentRepository 实例
func NewAllotmentRepo(db *gorm.DB) AllotmentRepository {
	return &allotmentRepo{db: db}
}

func (r *allotmentRepo) Create(ctx context.Context, allotment *model.Allotment) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(allotment).Error)
}

func (r *allotmentRepo) GetByID(ctx context.Context, id string) (*model.Allotment, error) {
	var allotment model.Allotment
	if err := r.db.WithContext(ctx).Where("allotment_id = ?", id).First(&allotment).Error; err != nil {
		return nil, err
	}
	return &allotment, nil
}

func (r *allotmentRepo) ListByUser(ctx context.Context, userID string) ([]model.Allotment, error) {
	return r.FindBy(ctx, map[string]interface{}{"user_id": userID})
}

func (r *allotmentRepo) FindBy(ctx context.Context, filter map[string]interface{}) ([]model.Allotment, error) {
	var allotments []model.Allotment
	err := r.db.WithContext(ctx).
		Scopes(scopeFilter(filter)).
		Order("allotment_date DESC").
		Find(&allotments).Error
	return allotments, err
}

func (r *allotmentRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	return updateByID(ctx, r.db, &model.Allotment{}, "allotment_id", id, fields)
}

func (r *allotmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, &model.Allotment{}, "allotment_id", id)
}
