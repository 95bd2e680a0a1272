package model

import "gorm.io/gorm"

// Room 房间表 — 对应 rooms，(hostel_id, room_number) 唯一
type Room struct {
	RoomID           string      `gorm:"type:varchar(36);primaryKey"                                  json:"room_id"`
	HostelID         HostelID    `gorm:"type:varchar(36);not null;uniqueIndex:uk_rooms_hostel_number" json:"hostel_id"`
	RoomNumber       string      `gorm:"type:varchar(20);not null;uniqueIndex:uk_rooms_hostel_number" json:"room_number"`
	Type             string      `gorm:"type:varchar(20);not null"                                    json:"type"`
	Capacity         int         `gorm:"not null;default:1"                                           json:"capacity"`
	CurrentOccupancy int         `gorm:"not null;default:0"                                           json:"current_occupancy"`
	Occupants        StringArray `gorm:"type:text;not null"                                           json:"occupants"`
	Features         StringArray `gorm:"type:text;not null"                                           json:"features"`
	BaseModel

	// 关联
	Hostel *Hostel `gorm:"foreignKey:HostelID;references:HostelID" json:"-"`
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// BeforeCreate 生成主键并初始化列表字段
func (r *Room) BeforeCreate(_ *gorm.DB) error {
	if r.RoomID == "" {
		r.RoomID = newID()
	}
	if r.Occupants == nil {
		r.Occupants = StringArray{}
	}
	if r.Features == nil {
		r.Features = StringArray{}
	}
	return nil
}

// Available 是否仍有剩余床位
func (r *Room) Available() bool {
	return r.CurrentOccupancy < r.Capacity
}

// ToMap 序列化为字段名 → 值映射
func (r *Room) ToMap() map[string]interface{} {
	var hostelName interface{}
	if r.Hostel != nil {
		hostelName = r.Hostel.Name
	}
	return map[string]interface{}{
		"room_id":           r.RoomID,
		"hostel_id":         string(r.HostelID),
		"hostel_name":       hostelName,
		"room_number":       r.RoomNumber,
		"type":              r.Type,
		"capacity":          r.Capacity,
		"current_occupancy": r.CurrentOccupancy,
		"occupants":         []string(r.Occupants),
		"features":          []string(r.Features),
	}
}
