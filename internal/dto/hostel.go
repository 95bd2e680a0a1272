package dto

// ── 宿舍楼模块 DTO ──

// CreateHostelRequest 创建宿舍楼请求
type CreateHostelRequest struct {
	Name       string   `json:"hostel_name" binding:"required,notblank,max=100"`
	Location   string   `json:"location"    binding:"omitempty,max=200"`
	TotalRooms *int     `json:"total_rooms" binding:"omitempty,min=0"`
	Capacity   int      `json:"capacity"    binding:"min=0"`
	Rooms      []string `json:"rooms"       binding:"omitempty,dive,notblank"`
}

// UpdateHostelRequest 更新宿舍楼请求
type UpdateHostelRequest struct {
	Name     *string `json:"hostel_name" binding:"omitempty,notblank,max=100"`
	Location *string `json:"location"    binding:"omitempty,max=200"`
	Capacity *int    `json:"capacity"    binding:"omitempty,min=0"`
}

// WardenRequest 分配 / 移除宿管请求
type WardenRequest struct {
	WardenEmail string `json:"warden_email" binding:"omitempty,email"`
}

// HostelResponse 宿舍楼信息
type HostelResponse struct {
	ID               string   `json:"_id"`
	Name             string   `json:"hostel_name"`
	Slug             string   `json:"slug"`
	Location         string   `json:"location"`
	TotalRooms       int      `json:"total_rooms"`
	Capacity         int      `json:"capacity"`
	CurrentOccupancy int      `json:"current_occupancy"`
	Rooms            []string `json:"rooms"`
	WardenName       *string  `json:"warden_name"`
	WardenContact    *string  `json:"warden_contact"`
	WardenEmail      *string  `json:"warden_email"`
}
