package repository

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User        UserRepository
	Hostel      HostelRepository
	Room        RoomRepository
	Application ApplicationRepository
	Allotment   AllotmentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Hostel:      NewHostelRepo(db),
		Room:        NewRoomRepo(db),
		Application: NewApplicationRepo(db),
		Allotment:   NewAllotmentRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 基于事务连接构建一组新的 Repository
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn，fn 返回错误或 panic 时整体回滚。
// fn 内只能使用传入的 txRepo，不要再通过外层 Repository 访问数据库。
// 未绑定数据库的 Repository（单元测试中由 mock 组装）直接执行 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// ── 通用辅助 ──

// translateWriteErr 唯一键冲突统一转换为 ErrDuplicate
func translateWriteErr(err error) error {
	if pkgerrors.IsUniqueViolation(err) {
		return pkgerrors.ErrDuplicate
	}
	return err
}

// updateByID 按主键部分更新，返回是否命中记录
func updateByID(ctx context.Context, db *gorm.DB, m interface{}, pk, id string, fields map[string]interface{}) (bool, error) {
	return updateWhere(db.WithContext(ctx).Model(m).Where(pk+" = ?", id), fields)
}

// updateCapacityByID 同 updateByID；fields 含 capacity 时追加 current_occupancy <= 新容量，
// 条件不满足时不写入任何字段并返回 false
func updateCapacityByID(ctx context.Context, db *gorm.DB, m interface{}, pk, id string, fields map[string]interface{}) (bool, error) {
	q := db.WithContext(ctx).Model(m).Where(pk+" = ?", id)
	if c, ok := fields["capacity"]; ok {
		q = q.Where("current_occupancy <= ?", c)
	}
	return updateWhere(q, fields)
}

func updateWhere(q *gorm.DB, fields map[string]interface{}) (bool, error) {
	if len(fields) == 0 {
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	}
	result := q.Updates(fields)
	if result.Error != nil {
		return false, translateWriteErr(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// deleteByID 按主键硬删除，记录不存在时返回 false, nil
func deleteByID(ctx context.Context, db *gorm.DB, m interface{}, pk, id string) (bool, error) {
	result := db.WithContext(ctx).Where(pk+" = ?", id).Delete(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// scopeFilter 按字段等值过滤，空过滤条件返回全部记录
func scopeFilter(filter map[string]interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(filter) == 0 {
			return db
		}
		return db.Where(filter)
	}
}
