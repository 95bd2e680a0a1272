package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
)

// SeedService 预置数据写入
type SeedService interface {
	// Seed 写入预置宿舍楼与房间，已存在的宿舍楼跳过；返回新建的宿舍楼数量
	Seed(ctx context.Context) (int, error)
}

type seedService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(repo *repository.Repository, logger *zap.Logger) SeedService {
	return &seedService{repo: repo, logger: logger}
}

func (s *seedService) Seed(ctx context.Context) (int, error) {
	roomsByHostel := make(map[string][]model.SeedRoom)
	for _, r := range model.SeedRooms() {
		roomsByHostel[r.HostelName] = append(roomsByHostel[r.HostelName], r)
	}

	var (
		created int
		errs    []error
	)
	for _, sh := range model.SeedHostels() {
		_, err := s.repo.Hostel.GetByName(ctx, sh.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			errs = append(errs, fmt.Errorf("查询宿舍楼 %s: %w", sh.Name, err))
			continue
		}

		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			hostel := &model.Hostel{
				Name:       sh.Name,
				Location:   sh.Location,
				TotalRooms: sh.TotalRooms,
				Capacity:   sh.Capacity,
				Rooms:      model.StringArray(sh.Rooms),
			}
			if err := tx.Hostel.Create(ctx, hostel); err != nil {
				return err
			}
			for _, r := range roomsByHostel[sh.Name] {
				room := &model.Room{
					HostelID:   hostel.HostelID,
					RoomNumber: r.RoomNumber,
					Type:       r.Type,
					Capacity:   r.Capacity,
				}
				if err := tx.Room.Create(ctx, room); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("写入宿舍楼 %s: %w", sh.Name, err))
			continue
		}
		created++
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("预置数据写入失败", zap.Int("created", created), zap.Error(err))
		return created, err
	}
	if created > 0 {
		s.logger.Info("预置数据写入完成", zap.Int("hostels", created))
	}
	return created, nil
}
