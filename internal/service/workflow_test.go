package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/dto"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
	"github.com/shiven424/hostel-system/internal/testutil"
)

// ── SQLite 装配 ──

func setupWorkflow(t *testing.T) (WorkflowService, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewRepository(db)
	dir := NewHostelDirectory(repo, nil, 0, zap.NewNop())
	return NewWorkflowService(repo, dir, zap.NewNop()), db
}

func submit(t *testing.T, svc WorkflowService, bitsID string) string {
	t.Helper()
	resp, err := svc.SubmitApplication(context.Background(), &dto.SubmitApplicationRequest{
		UserID:             bitsID,
		HostelPreference:   []string{"Hostel A"},
		RoomTypePreference: model.RoomTypeSingle,
	})
	require.NoError(t, err)
	return resp.ApplicationID
}

func loadHostel(t *testing.T, db *gorm.DB, id model.HostelID) model.Hostel {
	t.Helper()
	var h model.Hostel
	require.NoError(t, db.First(&h, "hostel_id = ?", id).Error)
	return h
}

func loadApp(t *testing.T, db *gorm.DB, id string) model.Application {
	t.Helper()
	var a model.Application
	require.NoError(t, db.First(&a, "application_id = ?", id).Error)
	return a
}

// ────────────────────── Submit ──────────────────────

func TestWorkflow_Submit(t *testing.T) {
	svc, db := setupWorkflow(t)
	testutil.SeedUser(t, db, "S1", model.RoleStudent)
	ctx := context.Background()

	id := submit(t, svc, "S1")
	app := loadApp(t, db, id)
	assert.Equal(t, model.InitialState(), app.State())
	assert.Equal(t, 1, app.Version)

	_, err := svc.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		UserID: "S1", HostelPreference: []string{"Hostel B"}, RoomTypePreference: model.RoomTypeSingle,
	})
	assert.ErrorIs(t, err, ErrApplicationExists)

	_, err = svc.SubmitApplication(ctx, &dto.SubmitApplicationRequest{
		UserID: "NOBODY", HostelPreference: []string{"Hostel A"}, RoomTypePreference: model.RoomTypeSingle,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ────────────────────── AssignHostel ──────────────────────

func TestWorkflow_AssignHostel_CapacityExhausted(t *testing.T) {
	svc, db := setupWorkflow(t)
	h := testutil.SeedHostel(t, db, "Hostel A", 6)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		bits := fmt.Sprintf("S%d", i)
		testutil.SeedUser(t, db, bits, model.RoleStudent)
		submit(t, svc, bits)
	}

	for i := 1; i <= 6; i++ {
		require.NoError(t, svc.AssignHostel(ctx, fmt.Sprintf("S%d", i), "Hostel A"))
	}
	err := svc.AssignHostel(ctx, "S7", "Hostel A")
	assert.ErrorIs(t, err, ErrHostelFull)

	got := loadHostel(t, db, h.HostelID)
	assert.Equal(t, 6, got.CurrentOccupancy, "占用数不应超过容量")

	// 失败的申请保持 pending，用户未关联宿舍楼
	var u model.User
	require.NoError(t, db.First(&u, "bits_id = ?", "S7").Error)
	assert.Nil(t, u.HostelID)

	pending, err := svc.PendingForAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "S7", pending[0].BitsID)
}

func TestWorkflow_AssignHostel_UpdatesUserAndApplication(t *testing.T) {
	svc, db := setupWorkflow(t)
	h := testutil.SeedHostel(t, db, "Hostel A", 6)
	testutil.SeedUser(t, db, "S1", model.RoleStudent)
	ctx := context.Background()
	id := submit(t, svc, "S1")

	// slug 同样可以定位宿舍楼
	require.NoError(t, svc.AssignHostel(ctx, "S1", "hostel-a"))

	app := loadApp(t, db, id)
	assert.Equal(t, model.StatusAssigned, app.HostelStatus)
	assert.Equal(t, model.StatusPending, app.RoomStatus)
	require.NotNil(t, app.AllotedHostelID)
	assert.Equal(t, h.HostelID, *app.AllotedHostelID)
	assert.Equal(t, 2, app.Version)

	var u model.User
	require.NoError(t, db.First(&u, "bits_id = ?", "S1").Error)
	require.NotNil(t, u.HostelID)
	assert.Equal(t, h.HostelID, *u.HostelID)

	resp, err := svc.GetApplication(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, resp.AllotedHostel)
	assert.Equal(t, "Hostel A", *resp.AllotedHostel)

	// 已分配后不可再次分配宿舍楼
	err = svc.AssignHostel(ctx, "S1", "Hostel A")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, 1, loadHostel(t, db, h.HostelID).CurrentOccupancy)
}

func TestWorkflow_AssignHostel_Errors(t *testing.T) {
	svc, db := setupWorkflow(t)
	testutil.SeedHostel(t, db, "Hostel A", 6)
	testutil.SeedUser(t, db, "S1", model.RoleStudent)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AssignHostel(ctx, "S1", "Hostel A"), ErrApplicationNotFound)
	submit(t, svc, "S1")
	assert.ErrorIs(t, svc.AssignHostel(ctx, "S1", "Hostel Q"), ErrHostelNotFound)
}

func TestWorkflow_AssignHostel_RollsBackWhenUserMissing(t *testing.T) {
	svc, db := setupWorkflow(t)
	h := testutil.SeedHostel(t, db, "Hostel A", 6)
	ctx := context.Background()

	// 申请人记录已被删除
	app := &model.Application{BitsID: "GHOST", HostelPreference: model.StringArray{"Hostel A"}, RoomTypePreference: model.RoomTypeSingle}
	require.NoError(t, db.Create(app).Error)

	err := svc.AssignHostel(ctx, "GHOST", "Hostel A")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Equal(t, 0, loadHostel(t, db, h.HostelID).CurrentOccupancy, "占用数应回滚")
	got := loadApp(t, db, app.ApplicationID)
	assert.Equal(t, model.StatusPending, got.HostelStatus, "申请状态应回滚")
	assert.Nil(t, got.AllotedHostelID)
	assert.Equal(t, 1, got.Version)
}

// ────────────────────── AssignRoom ──────────────────────

func TestWorkflow_AssignRoom(t *testing.T) {
	svc, db := setupWorkflow(t)
	h := testutil.SeedHostel(t, db, "Hostel A", 6, "101", "102", "103")
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		bits := fmt.Sprintf("S%d", i)
		testutil.SeedUser(t, db, bits, model.RoleStudent)
		submit(t, svc, bits)
		require.NoError(t, svc.AssignHostel(ctx, bits, "Hostel A"))
	}

	for i, room := range []string{"101", "102", "103"} {
		require.NoError(t, svc.AssignRoom(ctx, fmt.Sprintf("S%d", i+1), "Hostel A", room))
	}
	// 单人间已满
	err := svc.AssignRoom(ctx, "S4", "Hostel A", "101")
	assert.ErrorIs(t, err, ErrRoomFull)

	var room model.Room
	require.NoError(t, db.First(&room, "hostel_id = ? AND room_number = ?", h.HostelID, "101").Error)
	assert.Equal(t, 1, room.CurrentOccupancy)
	require.Len(t, room.Occupants, 1)

	var u1, u4 model.User
	require.NoError(t, db.First(&u1, "bits_id = ?", "S1").Error)
	require.NoError(t, db.First(&u4, "bits_id = ?", "S4").Error)
	assert.Equal(t, u1.UserID, room.Occupants[0])
	require.NotNil(t, u1.RoomNumber)
	assert.Equal(t, "101", *u1.RoomNumber)
	assert.Nil(t, u4.RoomNumber, "失败的分配不应写入用户房间号")

	pending, err := svc.PendingForWarden(ctx, "Hostel A")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "S4", pending[0].BitsID)

	closed, err := svc.ClosedForWarden(ctx, "Hostel A")
	require.NoError(t, err)
	assert.Len(t, closed, 3)
	for _, a := range closed {
		assert.Equal(t, string(model.StatusAssigned), a.RoomStatus)
		require.NotNil(t, a.AllotedRoom)
	}
}

func TestWorkflow_AssignRoom_Guards(t *testing.T) {
	svc, db := setupWorkflow(t)
	testutil.SeedHostel(t, db, "Hostel A", 6, "101")
	testutil.SeedHostel(t, db, "Hostel B", 8, "201")
	testutil.SeedUser(t, db, "S1", model.RoleStudent)
	testutil.SeedUser(t, db, "S2", model.RoleStudent)
	ctx := context.Background()

	// 宿舍楼未分配时不能分配房间
	submit(t, svc, "S1")
	err := svc.AssignRoom(ctx, "S1", "Hostel A", "101")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	// 分配到 A 楼的申请不能分配 B 楼房间
	require.NoError(t, svc.AssignHostel(ctx, "S1", "Hostel A"))
	err = svc.AssignRoom(ctx, "S1", "Hostel B", "201")
	assert.ErrorIs(t, err, ErrHostelMismatch)

	err = svc.AssignRoom(ctx, "S1", "Hostel A", "999")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	// 没有处理中的申请
	err = svc.AssignRoom(ctx, "S2", "Hostel A", "101")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

// ────────────────────── UpdateStatus ──────────────────────

func TestWorkflow_UpdateStatus(t *testing.T) {
	svc, db := setupWorkflow(t)
	testutil.SeedHostel(t, db, "Hostel A", 6)
	testutil.SeedUser(t, db, "S1", model.RoleStudent)
	testutil.SeedUser(t, db, "S2", model.RoleStudent)
	ctx := context.Background()

	id1 := submit(t, svc, "S1")
	err := svc.UpdateStatus(ctx, id1, &dto.UpdateApplicationStatusRequest{Axis: "hostel", Status: "assigned"})
	assert.ErrorIs(t, err, ErrStatusNotSettable)

	// 宿舍楼未分配时不能拒绝房间维度
	err = svc.UpdateStatus(ctx, id1, &dto.UpdateApplicationStatusRequest{Axis: "room", Status: "rejected"})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	require.NoError(t, svc.UpdateStatus(ctx, id1, &dto.UpdateApplicationStatusRequest{
		Axis: "hostel", Status: "rejected", Remarks: "名额不足",
	}))
	app := loadApp(t, db, id1)
	assert.Equal(t, model.StatusRejected, app.HostelStatus)
	require.NotNil(t, app.Remarks)
	assert.Equal(t, "名额不足", *app.Remarks)

	// 终态不可离开
	err = svc.UpdateStatus(ctx, id1, &dto.UpdateApplicationStatusRequest{Axis: "hostel", Status: "rejected"})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	// 被拒绝后可重新提交
	submit(t, svc, "S1")

	id2 := submit(t, svc, "S2")
	require.NoError(t, svc.AssignHostel(ctx, "S2", "Hostel A"))
	require.NoError(t, svc.UpdateStatus(ctx, id2, &dto.UpdateApplicationStatusRequest{Axis: "room", Status: "rejected"}))
	app = loadApp(t, db, id2)
	assert.Equal(t, model.StatusAssigned, app.HostelStatus)
	assert.Equal(t, model.StatusRejected, app.RoomStatus)

	closed, err := svc.ClosedForAdmin(ctx)
	require.NoError(t, err)
	assert.Len(t, closed, 2)

	err = svc.UpdateStatus(ctx, "missing", &dto.UpdateApplicationStatusRequest{Axis: "hostel", Status: "rejected"})
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

// ────────────────────── Get / Delete ──────────────────────

func TestWorkflow_GetDelete(t *testing.T) {
	svc, db := setupWorkflow(t)
	testutil.SeedUser(t, db, "S1", model.RoleStudent)
	ctx := context.Background()
	id := submit(t, svc, "S1")

	resp, err := svc.GetApplication(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "S1", resp.BitsID)
	assert.Equal(t, []string{"Hostel A"}, resp.HostelPreference)
	assert.Nil(t, resp.AllotedHostel)

	require.NoError(t, svc.DeleteApplication(ctx, id))
	assert.True(t, errors.Is(svc.DeleteApplication(ctx, id), ErrApplicationNotFound))
	_, err = svc.GetApplication(ctx, id)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
