package dto

// ── 住宿申请模块 DTO ──

// SubmitApplicationRequest 提交申请请求，user_id 为申请人 BITS ID
type SubmitApplicationRequest struct {
	UserID             string   `json:"user_id"              binding:"required,notblank"`
	HostelPreference   []string `json:"hostel_preference"    binding:"required,min=1,dive,notblank"`
	RoomTypePreference string   `json:"room_type_preference" binding:"required,notblank,max=20"`
}

// SubmitApplicationResponse 提交成功响应
type SubmitApplicationResponse struct {
	ApplicationID string `json:"application_id"`
}

// UpdateApplicationStatusRequest 通用状态变更请求（仅支持拒绝）
type UpdateApplicationStatusRequest struct {
	Axis    string `json:"axis"    binding:"required,oneof=hostel room"`
	Status  string `json:"status"  binding:"required,oneof=pending assigned rejected"`
	Remarks string `json:"remarks" binding:"omitempty,max=500"`
}

// AssignHostelRequest 分配宿舍楼请求
type AssignHostelRequest struct {
	HostelName string `json:"hostel_name" binding:"required,notblank"`
}

// AssignRoomRequest 分配房间请求
type AssignRoomRequest struct {
	HostelName string `json:"hostel_name" binding:"required,notblank"`
	RoomNumber string `json:"room_number" binding:"required,notblank"`
}

// ApplicationResponse 申请信息
type ApplicationResponse struct {
	ID                 string   `json:"_id"`
	BitsID             string   `json:"bits_id"`
	HostelPreference   []string `json:"hostel_preference"`
	RoomTypePreference string   `json:"room_type_preference"`
	ApplicationDate    string   `json:"application_date"`
	HostelStatus       string   `json:"hostel_status"`
	RoomStatus         string   `json:"room_status"`
	AllotedHostel      *string  `json:"alloted_hostel"`
	AllotedRoom        *string  `json:"alloted_room"`
	Remarks            *string  `json:"remarks"`
}
