package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/shiven424/hostel-system/config"
	"github.com/shiven424/hostel-system/internal/repository"
	"github.com/shiven424/hostel-system/pkg/jwt"
	"github.com/shiven424/hostel-system/pkg/password"
	"github.com/shiven424/hostel-system/pkg/redis"
)

// timeLayout 响应中日期字段的 ISO-8601 格式
const timeLayout = time.RFC3339

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Hostel    HostelService
	Room      RoomService
	Workflow  WorkflowService
	Allotment AllotmentService
	Export    ExportService
	Seed      SeedService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：此时不启用 Token 黑名单与宿舍楼目录缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		blacklist TokenBlacklist
		cache     HostelIDCache
	)
	if rdb != nil {
		blacklist = rdb
		cache = rdb
	}

	dir := NewHostelDirectory(repo, cache, cfg.Redis.HostelCacheTTL, logger)
	hasher := password.NewBcrypt(cfg.Auth.BcryptCost)

	return &Service{
		Auth:      NewAuthService(repo, hasher, jwtMgr, blacklist, logger),
		User:      NewUserService(repo, logger),
		Hostel:    NewHostelService(repo, dir, logger),
		Room:      NewRoomService(repo, dir, logger),
		Workflow:  NewWorkflowService(repo, dir, logger),
		Allotment: NewAllotmentService(repo, logger),
		Export:    NewExportService(repo, dir, logger),
		Seed:      NewSeedService(repo, logger),
	}
}
