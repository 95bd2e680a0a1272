package handler

import "github.com/shiven424/hostel-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Hostel      *HostelHandler
	Room        *RoomHandler
	Application *ApplicationHandler
	Allotment   *AllotmentHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Hostel:      NewHostelHandler(svc.Hostel),
		Room:        NewRoomHandler(svc.Room),
		Application: NewApplicationHandler(svc.Workflow),
		Allotment:   NewAllotmentHandler(svc.Allotment),
		Export:      NewExportHandler(svc.Export),
	}
}
