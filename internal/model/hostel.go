package model

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// HostelID 宿舍楼标识。跨记录引用宿舍楼一律使用该类型，不使用展示名称。
type HostelID string

// Hostel 宿舍楼表 — 对应 hostels
type Hostel struct {
	HostelID         HostelID    `gorm:"type:varchar(36);primaryKey"            json:"hostel_id"`
	Name             string      `gorm:"type:varchar(100);not null;uniqueIndex" json:"hostel_name"`
	Slug             string      `gorm:"type:varchar(120);not null;uniqueIndex" json:"slug"`
	Location         string      `gorm:"type:varchar(200)"                      json:"location"`
	TotalRooms       int         `gorm:"not null;default:0"                     json:"total_rooms"`
	Capacity         int         `gorm:"not null;default:0"                     json:"capacity"`
	CurrentOccupancy int         `gorm:"not null;default:0"                     json:"current_occupancy"`
	Rooms            StringArray `gorm:"type:text;not null"                     json:"rooms"`
	WardenName       *string     `gorm:"type:varchar(100)"                      json:"warden_name"`
	WardenContact    *string     `gorm:"type:varchar(32)"                       json:"warden_contact"`
	WardenEmail      *string     `gorm:"type:varchar(255)"                      json:"warden_email"`
	BaseModel
}

// TableName 指定表名
func (Hostel) TableName() string { return "hostels" }

// BeforeCreate 生成主键与 slug
func (h *Hostel) BeforeCreate(_ *gorm.DB) error {
	if h.HostelID == "" {
		h.HostelID = HostelID(newID())
	}
	if h.Slug == "" {
		h.Slug = SlugOf(h.Name)
	}
	if h.Rooms == nil {
		h.Rooms = StringArray{}
	}
	return nil
}

// SlugOf 宿舍楼名称的 URL 友好形式，"Hostel A" → "hostel-a"
func SlugOf(name string) string {
	return slug.Make(name)
}

// HasWarden 三个宿管字段同时有值才视为已分配
func (h *Hostel) HasWarden() bool {
	return h.WardenName != nil && h.WardenContact != nil && h.WardenEmail != nil
}

// Available 是否仍有剩余床位
func (h *Hostel) Available() bool {
	return h.CurrentOccupancy < h.Capacity
}

// ToMap 序列化为字段名 → 值映射
func (h *Hostel) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"hostel_id":         string(h.HostelID),
		"hostel_name":       h.Name,
		"slug":              h.Slug,
		"location":          h.Location,
		"total_rooms":       h.TotalRooms,
		"capacity":          h.Capacity,
		"current_occupancy": h.CurrentOccupancy,
		"rooms":             []string(h.Rooms),
		"warden_name":       derefString(h.WardenName),
		"warden_contact":    derefString(h.WardenContact),
		"warden_email":      derefString(h.WardenEmail),
	}
}
