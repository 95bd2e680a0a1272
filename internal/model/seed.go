package model

// SeedHostel 初始化宿舍楼数据
type SeedHostel struct {
	Name       string
	Location   string
	TotalRooms int
	Capacity   int
	Rooms      []string
}

// SeedRoom 初始化房间数据
type SeedRoom struct {
	HostelName string
	RoomNumber string
	Type       string
	Capacity   int
}

// RoomTypeSingle 单人间
const RoomTypeSingle = "single"

// SeedHostels 系统启动时预置的宿舍楼
func SeedHostels() []SeedHostel {
	return []SeedHostel{
		{Name: "Hostel A", Location: "East Wing", TotalRooms: 3, Capacity: 6, Rooms: []string{"101", "102", "103"}},
		{Name: "Hostel B", Location: "West Wing", TotalRooms: 4, Capacity: 8, Rooms: []string{"201", "202", "203", "204"}},
		{Name: "Hostel C", Location: "North Wing", TotalRooms: 2, Capacity: 4, Rooms: []string{"301", "302"}},
	}
}

// SeedRooms 预置房间，均为单人间
func SeedRooms() []SeedRoom {
	var rooms []SeedRoom
	for _, h := range SeedHostels() {
		for _, n := range h.Rooms {
			rooms = append(rooms, SeedRoom{HostelName: h.Name, RoomNumber: n, Type: RoomTypeSingle, Capacity: 1})
		}
	}
	return rooms
}
