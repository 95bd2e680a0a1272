package dto

// ── 入住记录模块 DTO ──

// CreateAllotmentRequest 创建入住记录请求
type CreateAllotmentRequest struct {
	UserID        string  `json:"user_id"        binding:"required,notblank"`
	RoomID        string  `json:"room_id"        binding:"required,notblank"`
	HostelID      string  `json:"hostel_id"      binding:"required,notblank"`
	AllotmentDate string  `json:"allotment_date" binding:"omitempty,datetime=2006-01-02"`
	Duration      string  `json:"duration"       binding:"required,notblank,max=50"`
	Status        string  `json:"status"         binding:"omitempty,oneof=active vacated"`
	Remarks       *string `json:"remarks"        binding:"omitempty,max=500"`
}

// UpdateAllotmentRequest 更新入住记录请求
type UpdateAllotmentRequest struct {
	Duration *string `json:"duration" binding:"omitempty,notblank,max=50"`
	Status   *string `json:"status"   binding:"omitempty,oneof=active vacated"`
	Remarks  *string `json:"remarks"  binding:"omitempty,max=500"`
}

// AllotmentResponse 入住记录
type AllotmentResponse struct {
	ID            string  `json:"_id"`
	UserID        string  `json:"user_id"`
	RoomID        string  `json:"room_id"`
	HostelID      string  `json:"hostel_id"`
	AllotmentDate string  `json:"allotment_date"`
	Duration      string  `json:"duration"`
	Status        string  `json:"status"`
	Remarks       *string `json:"remarks"`
}
