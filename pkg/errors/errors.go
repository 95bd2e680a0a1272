package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

	// ErrNoCapacity 条件自增未命中：目标记录不存在或占用已达容量上限
	ErrNoCapacity = errors.New("容量已满")

	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("记录已存在")
)

// pgUniqueViolation PostgreSQL unique_violation 错误码
const pgUniqueViolation = "23505"

// IsUniqueViolation 判断错误是否为唯一约束冲突
// 兼容 gorm TranslateError 翻译后的 ErrDuplicatedKey 与未翻译的 pgconn.PgError
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
