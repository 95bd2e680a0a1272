package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
)

// HostelIDCache 宿舍楼名称 → ID 的缓存存储，由 Redis 客户端实现
type HostelIDCache interface {
	GetHostelID(ctx context.Context, key string) (string, bool, error)
	SetHostelID(ctx context.Context, key, id string, ttl time.Duration) error
	DeleteHostelKeys(ctx context.Context, keys ...string) error
}

// HostelDirectory 把路由与请求体中的宿舍楼名称解析为宿舍楼记录
//
// 名称与 slug 都可用于查询（"Hostel A" / "hostel-a"）。
// 缓存只保存名称到 ID 的映射，记录本身每次从数据库读取，占用数不会过期失真。
type HostelDirectory interface {
	Resolve(ctx context.Context, nameOrSlug string) (*model.Hostel, error)
	Invalidate(ctx context.Context, names ...string)
}

type hostelDirectory struct {
	repo   *repository.Repository
	cache  HostelIDCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewHostelDirectory 创建 HostelDirectory，cache 为 nil 时直接查库
func NewHostelDirectory(repo *repository.Repository, cache HostelIDCache, ttl time.Duration, logger *zap.Logger) HostelDirectory {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &hostelDirectory{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (d *hostelDirectory) Resolve(ctx context.Context, nameOrSlug string) (*model.Hostel, error) {
	key := model.SlugOf(nameOrSlug)
	if key == "" {
		return nil, ErrHostelNotFound
	}

	// 1. 缓存命中
	if d.cache != nil {
		id, ok, err := d.cache.GetHostelID(ctx, key)
		if err != nil {
			d.logger.Warn("读取宿舍楼目录缓存失败", zap.String("key", key), zap.Error(err))
		}
		if ok {
			hostel, err := d.repo.Hostel.GetByID(ctx, model.HostelID(id))
			if err == nil {
				return hostel, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				d.logger.Error("查询宿舍楼失败", zap.String("id", id), zap.Error(err))
				return nil, err
			}
			// 缓存指向已删除的记录
			d.Invalidate(ctx, nameOrSlug)
		}
	}

	// 2. 按名称、slug 依次查库
	hostel, err := d.repo.Hostel.GetByName(ctx, nameOrSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hostel, err = d.repo.Hostel.GetBySlug(ctx, key)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHostelNotFound
		}
		d.logger.Error("查询宿舍楼失败", zap.String("name", nameOrSlug), zap.Error(err))
		return nil, err
	}

	// 3. 回填缓存
	if d.cache != nil {
		if err := d.cache.SetHostelID(ctx, key, string(hostel.HostelID), d.ttl); err != nil {
			d.logger.Warn("写入宿舍楼目录缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return hostel, nil
}

func (d *hostelDirectory) Invalidate(ctx context.Context, names ...string) {
	if d.cache == nil || len(names) == 0 {
		return
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		if k := model.SlugOf(n); k != "" {
			keys = append(keys, k)
		}
	}
	if err := d.cache.DeleteHostelKeys(ctx, keys...); err != nil {
		d.logger.Warn("清除宿舍楼目录缓存失败", zap.Strings("keys", keys), zap.Error(err))
	}
}
