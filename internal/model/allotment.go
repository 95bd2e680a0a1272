package model

import (
	"time"

	"gorm.io/gorm"
)

// 入住记录状态
const (
	AllotmentActive  = "active"
	AllotmentVacated = "vacated"
)

// Allotment 入住记录表 — 对应 allotments
type Allotment struct {
	AllotmentID   string    `gorm:"type:varchar(36);primaryKey"       json:"allotment_id"`
	UserID        string    `gorm:"type:varchar(36);not null;index"   json:"user_id"`
	RoomID        string    `gorm:"type:varchar(36);not null"         json:"room_id"`
	HostelID      HostelID  `gorm:"type:varchar(36);not null"         json:"hostel_id"`
	AllotmentDate time.Time `gorm:"not null"                          json:"allotment_date"`
	Duration      string    `gorm:"type:varchar(50);not null"         json:"duration"`
	Status        string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Remarks       *string   `gorm:"type:text"                         json:"remarks,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Allotment) TableName() string { return "allotments" }

// BeforeCreate 生成主键并补全默认值
func (a *Allotment) BeforeCreate(_ *gorm.DB) error {
	if a.AllotmentID == "" {
		a.AllotmentID = newID()
	}
	if a.AllotmentDate.IsZero() {
		a.AllotmentDate = time.Now()
	}
	if a.Status == "" {
		a.Status = AllotmentActive
	}
	return nil
}

// ValidAllotmentStatus 入住记录状态取值校验
func ValidAllotmentStatus(s string) bool {
	return s == AllotmentActive || s == AllotmentVacated
}

// ToMap 序列化为字段名 → 值映射
func (a *Allotment) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"allotment_id":   a.AllotmentID,
		"user_id":        a.UserID,
		"room_id":        a.RoomID,
		"hostel_id":      string(a.HostelID),
		"allotment_date": isoTime(a.AllotmentDate),
		"duration":       a.Duration,
		"status":         a.Status,
		"remarks":        derefString(a.Remarks),
	}
}
