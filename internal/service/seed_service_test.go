package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
	"github.com/shiven424/hostel-system/internal/testutil"
)

func TestSeedService_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewSeedService(repository.NewRepository(db), zap.NewNop())
	ctx := context.Background()

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "重复执行不应新建宿舍楼")

	var hostels, rooms int64
	require.NoError(t, db.Model(&model.Hostel{}).Count(&hostels).Error)
	require.NoError(t, db.Model(&model.Room{}).Count(&rooms).Error)
	assert.EqualValues(t, 3, hostels)
	assert.EqualValues(t, 9, rooms)

	var a model.Hostel
	require.NoError(t, db.First(&a, "name = ?", "Hostel A").Error)
	assert.Equal(t, "hostel-a", a.Slug)
	assert.Equal(t, 6, a.Capacity)
	assert.Equal(t, model.StringArray{"101", "102", "103"}, a.Rooms)
}

func TestSeedService_SkipsExistingHostel(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedHostel(t, db, "Hostel B", 2)
	svc := NewSeedService(repository.NewRepository(db), zap.NewNop())

	created, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var b model.Hostel
	require.NoError(t, db.First(&b, "name = ?", "Hostel B").Error)
	assert.Equal(t, 2, b.Capacity, "已存在的宿舍楼不应被覆盖")
}
