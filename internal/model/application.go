package model

import (
	"time"

	"gorm.io/gorm"
)

// Application 住宿申请表 — 对应 applications
// hostel_status / room_status 两个维度独立流转，Version 用于乐观锁
type Application struct {
	ApplicationID      string           `gorm:"type:varchar(36);primaryKey"             json:"application_id"`
	BitsID             string           `gorm:"type:varchar(32);not null;index"         json:"bits_id"`
	HostelPreference   StringArray      `gorm:"type:text;not null"                      json:"hostel_preference"`
	RoomTypePreference string           `gorm:"type:varchar(20);not null"               json:"room_type_preference"`
	ApplicationDate    time.Time        `gorm:"not null"                                json:"application_date"`
	HostelStatus       AssignmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"hostel_status"`
	RoomStatus         AssignmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"room_status"`
	AllotedHostelID    *HostelID        `gorm:"type:varchar(36);index"                  json:"alloted_hostel_id,omitempty"`
	AllotedRoom        *string          `gorm:"type:varchar(20)"                        json:"alloted_room,omitempty"`
	Remarks            *string          `gorm:"type:text"                               json:"remarks,omitempty"`
	Version            int              `gorm:"not null;default:1"                      json:"version"`
	BaseModel

	// 关联
	AllotedHostel *Hostel `gorm:"foreignKey:AllotedHostelID;references:HostelID" json:"-"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }

// BeforeCreate 生成主键并设置初始状态
func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.ApplicationID == "" {
		a.ApplicationID = newID()
	}
	if a.ApplicationDate.IsZero() {
		a.ApplicationDate = time.Now()
	}
	if a.HostelStatus == "" {
		a.HostelStatus = StatusPending
	}
	if a.RoomStatus == "" {
		a.RoomStatus = StatusPending
	}
	if a.Version == 0 {
		a.Version = 1
	}
	return nil
}

// State 当前组合状态
func (a *Application) State() ApplicationState {
	return ApplicationState{Hostel: a.HostelStatus, Room: a.RoomStatus}
}

// AllotedHostelName 已分配宿舍楼名称
func (a *Application) AllotedHostelName() string {
	if a.AllotedHostel == nil {
		return ""
	}
	return a.AllotedHostel.Name
}

// ToMap 序列化为字段名 → 值映射
func (a *Application) ToMap() map[string]interface{} {
	var hostelName interface{}
	if a.AllotedHostel != nil {
		hostelName = a.AllotedHostel.Name
	}
	return map[string]interface{}{
		"application_id":       a.ApplicationID,
		"bits_id":              a.BitsID,
		"hostel_preference":    []string(a.HostelPreference),
		"room_type_preference": a.RoomTypePreference,
		"application_date":     isoTime(a.ApplicationDate),
		"hostel_status":        string(a.HostelStatus),
		"room_status":          string(a.RoomStatus),
		"alloted_hostel":       hostelName,
		"alloted_room":         derefString(a.AllotedRoom),
		"remarks":              derefString(a.Remarks),
	}
}
