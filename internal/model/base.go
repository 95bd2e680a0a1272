package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// isoLayout 对外序列化日期使用的 ISO-8601 格式
const isoLayout = time.RFC3339

// ── JSON 文本数组自定义类型 ──

// StringArray 以 JSON 文本存储的字符串列表，实现 GORM Scanner/Valuer 接口。
// 同时兼容 PostgreSQL TEXT 列与测试用 SQLite。
type StringArray []string

// Scan 将 ["a","b"] 文本解析为 []string。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = StringArray{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*a = StringArray{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringArray.Scan: %w", err)
	}
	*a = out
	return nil
}

// Value 将 []string 序列化为 JSON 文本，nil 写为空数组。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Contains 判断列表是否包含 s
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// newID 生成记录主键
func newID() string {
	return uuid.NewString()
}

// isoTime 渲染日期为 ISO-8601 字符串
func isoTime(t time.Time) string {
	return t.Format(isoLayout)
}

// derefString 可选字段在 ToMap 中以 nil 表示缺省
func derefString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
