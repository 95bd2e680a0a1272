package dto

// ── 房间模块 DTO ──

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	HostelName string   `json:"hostel_name" binding:"required,notblank"`
	RoomNumber string   `json:"room_number" binding:"required,notblank,max=20"`
	Type       string   `json:"type"        binding:"required,notblank,max=20"`
	Capacity   int      `json:"capacity"    binding:"required,min=1"`
	Features   []string `json:"features"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	Type     *string  `json:"type"     binding:"omitempty,notblank,max=20"`
	Capacity *int     `json:"capacity" binding:"omitempty,min=1"`
	Features []string `json:"features"`
}

// RoomResponse 房间信息
type RoomResponse struct {
	ID               string   `json:"_id"`
	HostelName       string   `json:"hostel_name"`
	RoomNumber       string   `json:"room_number"`
	Type             string   `json:"type"`
	Capacity         int      `json:"capacity"`
	CurrentOccupancy int      `json:"current_occupancy"`
	Occupants        []string `json:"occupants"`
	Features         []string `json:"features"`
}

// RoomAvailabilityResponse 房间可用性
type RoomAvailabilityResponse struct {
	Available bool `json:"available"`
}
