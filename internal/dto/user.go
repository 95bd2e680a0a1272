package dto

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID               string  `json:"_id"`
	BitsID           string  `json:"bits_id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	ContactNumber    string  `json:"contact_number"`
	Role             string  `json:"role"`
	HostelName       *string `json:"hostel_name"`
	RoomNumber       *string `json:"room_number"`
	RegistrationDate string  `json:"registration_date"`
}
