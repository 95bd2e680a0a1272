package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shiven424/hostel-system/config"
	"github.com/shiven424/hostel-system/internal/api/handler"
	"github.com/shiven424/hostel-system/internal/api/middleware"
	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/pkg/jwt"
	"github.com/shiven424/hostel-system/pkg/redis"
	"github.com/shiven424/hostel-system/pkg/validate"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：此时不启用登录限流与 Token 黑名单
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	validate.Register()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 公开路由 ──
	limit := middleware.RateLimit(rdb, cfg.Feature.LoginRateLimit, cfg.Feature.LoginRateWindow, logger)
	r.POST("/register", limit, h.Auth.Register)
	r.POST("/login", limit, h.Auth.Login)

	r.GET("/user/:email", h.User.GetUserByEmail)
	r.GET("/hostels", h.Hostel.ListHostels)
	r.GET("/available-hostels", h.Hostel.ListAvailableHostels)
	r.GET("/rooms", h.Room.ListRooms)
	r.GET("/room/:id", h.Room.GetRoom)
	r.GET("/room/:id/availability", h.Room.RoomAvailability)
	r.POST("/applications", h.Application.SubmitApplication)
	r.GET("/application/:id", h.Application.GetApplication)

	// ── 登出始终需要 Token ──
	r.POST("/logout", middleware.JWTAuth(jwtMgr, rdb), h.Auth.Logout)

	// ── 管理员路由 ──
	admin := r.Group("")
	// ── 宿管路由（管理员同样可访问）──
	warden := r.Group("")
	if cfg.Feature.EnforceAuth {
		admin.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.RoleAuth(model.RoleAdmin))
		warden.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.RoleAuth(model.RoleAdmin, model.RoleWarden))
	}

	{
		// 用户
		admin.GET("/wardens", h.User.ListWardens)
		admin.GET("/wardens-for-assign", h.User.ListAssignableWardens)

		// 宿舍楼
		admin.POST("/hostel", h.Hostel.CreateHostel)
		admin.PUT("/hostel/:id", h.Hostel.UpdateHostel)
		admin.PUT("/hostels/:name/assign-warden", h.Hostel.AssignWarden)
		admin.PUT("/hostels/:name/remove-warden", h.Hostel.RemoveWarden)

		// 房间
		admin.POST("/room", h.Room.CreateRoom)
		admin.PUT("/room/:id", h.Room.UpdateRoom)
		admin.DELETE("/room/:id", h.Room.DeleteRoom)

		// 申请
		admin.PUT("/application/:id/status", h.Application.UpdateStatus)
		admin.DELETE("/application/:id", h.Application.DeleteApplication)
		admin.GET("/pending-requests-admin", h.Application.PendingForAdmin)
		admin.GET("/closed-requests-admin", h.Application.ClosedForAdmin)
		admin.POST("/assign-hostel/:bits_id", h.Application.AssignHostel)
		admin.PUT("/assign-hostel/:bits_id", h.Application.AssignHostel)

		// 入住记录
		admin.POST("/allotment", h.Allotment.CreateAllotment)
		admin.GET("/allotment/:id", h.Allotment.GetAllotment)
		admin.PUT("/allotment/:id", h.Allotment.UpdateAllotment)
		admin.DELETE("/allotment/:id", h.Allotment.DeleteAllotment)
		admin.GET("/allotments/user/:id", h.Allotment.ListUserAllotments)
	}

	{
		warden.GET("/hostels/:name/students", h.Hostel.ListStudents)
		warden.GET("/hostels/:name/students/export", h.Export.ExportResidents)
		warden.GET("/hostels/:name/available_rooms", h.Hostel.AvailableRooms)
		warden.GET("/pending-requests-warden/:hostel", h.Application.PendingForWarden)
		warden.GET("/closed-requests-warden/:hostel", h.Application.ClosedForWarden)
		warden.PUT("/room-requests/:bits_id/assign-room", h.Application.AssignRoom)
	}

	return r
}
