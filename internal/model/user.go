package model

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
	RoleWarden  = "warden"
)

// User 用户表 — 对应 users
type User struct {
	UserID           string    `gorm:"type:varchar(36);primaryKey"              json:"user_id"`
	BitsID           string    `gorm:"type:varchar(32);not null;uniqueIndex"    json:"bits_id"`
	Username         string    `gorm:"type:varchar(100);not null;uniqueIndex"   json:"username"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex"   json:"email"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"               json:"-"`
	ContactNumber    string    `gorm:"type:varchar(32)"                         json:"contact_number"`
	Role             string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	HostelID         *HostelID `gorm:"type:varchar(36);index"                   json:"hostel_id,omitempty"`
	RoomNumber       *string   `gorm:"type:varchar(20)"                         json:"room_number,omitempty"`
	RegistrationDate time.Time `gorm:"not null"                                 json:"registration_date"`
	BaseModel

	// 关联
	Hostel *Hostel `gorm:"foreignKey:HostelID;references:HostelID" json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键与注册时间
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = newID()
	}
	if u.RegistrationDate.IsZero() {
		u.RegistrationDate = time.Now()
	}
	return nil
}

// HostelName 关联宿舍楼名称，未分配时为空
func (u *User) HostelName() string {
	if u.Hostel == nil {
		return ""
	}
	return u.Hostel.Name
}

// ToMap 序列化为字段名 → 值映射（不含凭证哈希）
func (u *User) ToMap() map[string]interface{} {
	var hostelName interface{}
	if u.Hostel != nil {
		hostelName = u.Hostel.Name
	}
	var hostelID interface{}
	if u.HostelID != nil {
		hostelID = string(*u.HostelID)
	}
	return map[string]interface{}{
		"user_id":           u.UserID,
		"bits_id":           u.BitsID,
		"username":          u.Username,
		"email":             u.Email,
		"contact_number":    u.ContactNumber,
		"role":              u.Role,
		"hostel_id":         hostelID,
		"hostel_name":       hostelName,
		"room_number":       derefString(u.RoomNumber),
		"registration_date": isoTime(u.RegistrationDate),
	}
}
