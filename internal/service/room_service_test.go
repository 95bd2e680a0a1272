package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
)

func setupTestRoomService() (RoomService, *mockRepos) {
	m := newMockRepos()
	return NewRoomService(m.repository, m.directory, zap.NewNop()), m
}

func TestRoomService_Create(t *testing.T) {
	svc, m := setupTestRoomService()
	h := m.addHostel("Hostel A", 6, 0, "101")
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateRoomRequest{
		HostelName: "Hostel A", RoomNumber: "104", Type: "double", Capacity: 2, Features: []string{"balcony"},
	})
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}
	if resp.HostelName != "Hostel A" || resp.Capacity != 2 {
		t.Errorf("返回内容不符: %+v", resp)
	}
	got := m.hostels.hostels[h.HostelID]
	if !got.Rooms.Contains("104") || got.TotalRooms != 2 {
		t.Errorf("宿舍楼房间列表应追加 104，实际: rooms=%v total=%d", got.Rooms, got.TotalRooms)
	}

	_, err = svc.Create(ctx, &dto.CreateRoomRequest{HostelName: "Hostel A", RoomNumber: "101", Type: "single", Capacity: 1})
	if !errors.Is(err, ErrRoomExists) {
		t.Errorf("期望 ErrRoomExists，实际: %v", err)
	}

	_, err = svc.Create(ctx, &dto.CreateRoomRequest{HostelName: "Hostel Q", RoomNumber: "1", Type: "single", Capacity: 1})
	if !errors.Is(err, ErrHostelNotFound) {
		t.Errorf("期望 ErrHostelNotFound，实际: %v", err)
	}
}

func TestRoomService_GetAndAvailability(t *testing.T) {
	svc, m := setupTestRoomService()
	h := m.addHostel("Hostel A", 6, 0, "101")
	id := "r-" + string(h.HostelID) + "-101"
	ctx := context.Background()

	resp, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if resp.RoomNumber != "101" || len(resp.Occupants) != 0 {
		t.Errorf("返回内容不符: %+v", resp)
	}

	ok, err := svc.Availability(ctx, id)
	if err != nil || !ok {
		t.Errorf("空房间应可用，实际: %v, %v", ok, err)
	}
	m.rooms.rooms[id].CurrentOccupancy = 1
	ok, _ = svc.Availability(ctx, id)
	if ok {
		t.Error("满员房间不应可用")
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomService_Update(t *testing.T) {
	svc, m := setupTestRoomService()
	h := m.addHostel("Hostel A", 6, 0, "101")
	id := "r-" + string(h.HostelID) + "-101"
	m.rooms.rooms[id].CurrentOccupancy = 1
	ctx := context.Background()

	_, err := svc.Update(ctx, id, &dto.UpdateRoomRequest{Capacity: intPtr(0)})
	if !errors.Is(err, ErrCapacityBelowOccupancy) {
		t.Errorf("期望 ErrCapacityBelowOccupancy，实际: %v", err)
	}

	resp, err := svc.Update(ctx, id, &dto.UpdateRoomRequest{Capacity: intPtr(3), Type: strPtr("triple")})
	if err != nil {
		t.Fatalf("更新应成功: %v", err)
	}
	if resp.Capacity != 3 || resp.Type != "triple" {
		t.Errorf("返回内容不符: %+v", resp)
	}
}

func TestRoomService_Delete(t *testing.T) {
	svc, m := setupTestRoomService()
	h := m.addHostel("Hostel A", 6, 0, "101", "102")
	occupied := "r-" + string(h.HostelID) + "-101"
	empty := "r-" + string(h.HostelID) + "-102"
	m.rooms.rooms[occupied].CurrentOccupancy = 1
	ctx := context.Background()

	if err := svc.Delete(ctx, occupied); !errors.Is(err, ErrRoomOccupied) {
		t.Errorf("期望 ErrRoomOccupied，实际: %v", err)
	}
	if err := svc.Delete(ctx, empty); err != nil {
		t.Fatalf("删除空房间应成功: %v", err)
	}
	if m.hostels.hostels[h.HostelID].Rooms.Contains("102") {
		t.Error("宿舍楼房间列表应移除 102")
	}
	if err := svc.Delete(ctx, empty); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("重复删除应返回 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomService_Delete_OccupiedAfterRead(t *testing.T) {
	svc, m := setupTestRoomService()
	h := m.addHostel("Hostel A", 6, 0, "101")
	id := "r-" + string(h.HostelID) + "-101"
	ctx := context.Background()

	// 读取之后、删除之前有学生入住
	m.rooms.beforeWrite = func() {
		m.rooms.rooms[id].CurrentOccupancy = 1
		m.rooms.rooms[id].Occupants = append(m.rooms.rooms[id].Occupants, "u-S1")
	}

	if err := svc.Delete(ctx, id); !errors.Is(err, ErrRoomOccupied) {
		t.Fatalf("期望 ErrRoomOccupied，实际: %v", err)
	}
	if _, ok := m.rooms.rooms[id]; !ok {
		t.Error("已有人入住的房间不应被删除")
	}
	if !m.hostels.hostels[h.HostelID].Rooms.Contains("101") {
		t.Error("宿舍楼房间列表不应移除 101")
	}
}

func TestRoomService_Update_CapacityBelowOccupancyAfterRead(t *testing.T) {
	svc, m := setupTestRoomService()
	h := m.addHostel("Hostel A", 6, 0, "101")
	id := "r-" + string(h.HostelID) + "-101"
	m.rooms.rooms[id].Capacity = 2
	m.rooms.rooms[id].CurrentOccupancy = 1
	ctx := context.Background()

	m.rooms.beforeWrite = func() { m.rooms.rooms[id].CurrentOccupancy = 2 }

	_, err := svc.Update(ctx, id, &dto.UpdateRoomRequest{Capacity: intPtr(1), Type: strPtr("double")})
	if !errors.Is(err, ErrCapacityBelowOccupancy) {
		t.Fatalf("期望 ErrCapacityBelowOccupancy，实际: %v", err)
	}
	got := m.rooms.rooms[id]
	if got.Capacity != 2 || got.Type != model.RoomTypeSingle {
		t.Errorf("条件不满足时不应写入任何字段，实际: capacity=%d type=%s", got.Capacity, got.Type)
	}

	m.rooms.beforeWrite = nil
	if _, err := svc.Update(ctx, "missing", &dto.UpdateRoomRequest{Capacity: intPtr(1)}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}
