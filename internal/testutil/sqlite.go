// Package testutil 测试辅助：基于内存 SQLite 的 gorm 连接
package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shiven424/hostel-system/internal/model"
)

// NewSQLiteDB 创建独立的内存数据库并迁移全部表结构
// 内存库只存在于单个连接上，连接池固定为 1
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开 SQLite 失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&model.Hostel{},
		&model.User{},
		&model.Room{},
		&model.Application{},
		&model.Allotment{},
	); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	return db
}

// SeedHostel 写入一栋宿舍楼及其单人间
func SeedHostel(t testing.TB, db *gorm.DB, name string, capacity int, rooms ...string) *model.Hostel {
	t.Helper()

	h := &model.Hostel{
		Name:       name,
		Location:   "Test Wing",
		TotalRooms: len(rooms),
		Capacity:   capacity,
		Rooms:      model.StringArray(rooms),
	}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("创建宿舍楼失败: %v", err)
	}
	for _, n := range rooms {
		r := &model.Room{HostelID: h.HostelID, RoomNumber: n, Type: model.RoomTypeSingle, Capacity: 1}
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("创建房间失败: %v", err)
		}
	}
	return h
}

// SeedUser 写入一个用户，密码哈希为占位值
func SeedUser(t testing.TB, db *gorm.DB, bitsID, role string) *model.User {
	t.Helper()

	u := &model.User{
		BitsID:        bitsID,
		Username:      "user-" + bitsID,
		Email:         bitsID + "@hostel.test",
		PasswordHash:  "x",
		ContactNumber: "9000000000",
		Role:          role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}
