package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shiven424/hostel-system/internal/model"
	"github.com/shiven424/hostel-system/internal/repository"
	pkgerrors "github.com/shiven424/hostel-system/pkg/errors"
)

// ── 测试装配 ──

type mockRepos struct {
	users      *mockUserRepo
	hostels    *mockHostelRepo
	rooms      *mockRoomRepo
	apps       *mockApplicationRepo
	allotments *mockAllotmentRepo
	repository *repository.Repository
	directory  HostelDirectory
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		users:      newMockUserRepo(),
		hostels:    newMockHostelRepo(),
		rooms:      newMockRoomRepo(),
		apps:       newMockApplicationRepo(),
		allotments: newMockAllotmentRepo(),
	}
	m.rooms.hostels = m.hostels
	m.users.hostels = m.hostels
	m.repository = &repository.Repository{
		User:        m.users,
		Hostel:      m.hostels,
		Room:        m.rooms,
		Application: m.apps,
		Allotment:   m.allotments,
	}
	m.directory = NewHostelDirectory(m.repository, nil, 0, zap.NewNop())
	return m
}

func (m *mockRepos) addHostel(name string, capacity, occupancy int, rooms ...string) *model.Hostel {
	h := &model.Hostel{
		HostelID:         model.HostelID("h-" + model.SlugOf(name)),
		Name:             name,
		Slug:             model.SlugOf(name),
		Capacity:         capacity,
		CurrentOccupancy: occupancy,
		TotalRooms:       len(rooms),
		Rooms:            model.StringArray(rooms),
	}
	m.hostels.hostels[h.HostelID] = h
	for _, n := range rooms {
		r := &model.Room{
			RoomID:     "r-" + string(h.HostelID) + "-" + n,
			HostelID:   h.HostelID,
			RoomNumber: n,
			Type:       model.RoomTypeSingle,
			Capacity:   1,
			Occupants:  model.StringArray{},
		}
		m.rooms.rooms[r.RoomID] = r
	}
	return h
}

func (m *mockRepos) addUser(bitsID, role string) *model.User {
	u := &model.User{
		UserID:        "u-" + bitsID,
		BitsID:        bitsID,
		Username:      "user-" + bitsID,
		Email:         bitsID + "@test.com",
		PasswordHash:  "x",
		ContactNumber: "9000000000",
		Role:          role,
	}
	m.users.users[u.UserID] = u
	return u
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users   map[string]*model.User // key: user_id
	hostels *mockHostelRepo
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) withHostel(u *model.User) *model.User {
	if u.HostelID != nil && m.hostels != nil {
		u.Hostel = m.hostels.hostels[*u.HostelID]
	} else {
		u.Hostel = nil
	}
	return u
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email || u.BitsID == user.BitsID {
			return pkgerrors.ErrDuplicate
		}
	}
	if user.UserID == "" {
		user.UserID = "u-" + user.BitsID
	}
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range m.users {
		if match(u) {
			return m.withHostel(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.UserID == id })
}

func (m *mockUserRepo) GetByBitsID(_ context.Context, bitsID string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.BitsID == bitsID })
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Username == username })
}

func (m *mockUserRepo) FindBy(_ context.Context, filter map[string]interface{}) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if role, ok := filter["role"]; ok && u.Role != role {
			continue
		}
		result = append(result, *m.withHostel(u))
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, id string, fields map[string]interface{}) (bool, error) {
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	if v, ok := fields["contact_number"].(string); ok {
		u.ContactNumber = v
	}
	return true, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func (m *mockUserRepo) sorted(match func(*model.User) bool) []model.User {
	var result []model.User
	for _, u := range m.users {
		if match(u) {
			result = append(result, *m.withHostel(u))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string, unassignedOnly bool) ([]model.User, error) {
	return m.sorted(func(u *model.User) bool {
		return u.Role == role && (!unassignedOnly || u.HostelID == nil)
	}), nil
}

func (m *mockUserRepo) ListStudentsByHostel(_ context.Context, hostelID model.HostelID) ([]model.User, error) {
	return m.sorted(func(u *model.User) bool {
		return u.Role == model.RoleStudent && u.HostelID != nil && *u.HostelID == hostelID
	}), nil
}

func (m *mockUserRepo) SetHostel(_ context.Context, bitsID string, hostelID model.HostelID) (bool, error) {
	for _, u := range m.users {
		if u.BitsID == bitsID {
			id := hostelID
			u.HostelID = &id
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) SetRoom(_ context.Context, bitsID string, hostelID model.HostelID, roomNumber string) (bool, error) {
	for _, u := range m.users {
		if u.BitsID == bitsID {
			id, n := hostelID, roomNumber
			u.HostelID = &id
			u.RoomNumber = &n
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) SetHostelByEmail(_ context.Context, email string, hostelID *model.HostelID) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			u.HostelID = hostelID
			return true, nil
		}
	}
	return false, nil
}

// ── Mock HostelRepository ──

type mockHostelRepo struct {
	hostels map[model.HostelID]*model.Hostel
	seq     int
	// beforeWrite 在 Update 判断条件前调用，模拟读取之后的并发写入
	beforeWrite func()
}

func newMockHostelRepo() *mockHostelRepo {
	return &mockHostelRepo{hostels: make(map[model.HostelID]*model.Hostel)}
}

func (m *mockHostelRepo) Create(_ context.Context, hostel *model.Hostel) error {
	for _, h := range m.hostels {
		if h.Name == hostel.Name {
			return pkgerrors.ErrDuplicate
		}
	}
	if hostel.HostelID == "" {
		m.seq++
		hostel.HostelID = model.HostelID(fmt.Sprintf("h-%d", m.seq))
	}
	if hostel.Slug == "" {
		hostel.Slug = model.SlugOf(hostel.Name)
	}
	m.hostels[hostel.HostelID] = hostel
	return nil
}

func (m *mockHostelRepo) GetByID(_ context.Context, id model.HostelID) (*model.Hostel, error) {
	if h, ok := m.hostels[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHostelRepo) GetByName(_ context.Context, name string) (*model.Hostel, error) {
	for _, h := range m.hostels {
		if h.Name == name {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHostelRepo) GetBySlug(_ context.Context, slug string) (*model.Hostel, error) {
	for _, h := range m.hostels {
		if h.Slug == slug {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHostelRepo) List(_ context.Context) ([]model.Hostel, error) {
	var result []model.Hostel
	for _, h := range m.hostels {
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockHostelRepo) ListAvailable(ctx context.Context) ([]model.Hostel, error) {
	all, _ := m.List(ctx)
	var result []model.Hostel
	for _, h := range all {
		if h.Capacity > h.CurrentOccupancy {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *mockHostelRepo) FindBy(ctx context.Context, _ map[string]interface{}) ([]model.Hostel, error) {
	return m.List(ctx)
}

func (m *mockHostelRepo) Update(_ context.Context, id model.HostelID, fields map[string]interface{}) (bool, error) {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	h, ok := m.hostels[id]
	if !ok {
		return false, nil
	}
	if v, ok := fields["capacity"].(int); ok && v < h.CurrentOccupancy {
		return false, nil
	}
	if v, ok := fields["name"].(string); ok {
		for _, other := range m.hostels {
			if other.HostelID != id && other.Name == v {
				return false, pkgerrors.ErrDuplicate
			}
		}
		h.Name = v
	}
	if v, ok := fields["slug"].(string); ok {
		h.Slug = v
	}
	if v, ok := fields["location"].(string); ok {
		h.Location = v
	}
	if v, ok := fields["capacity"].(int); ok {
		h.Capacity = v
	}
	return true, nil
}

func (m *mockHostelRepo) Delete(_ context.Context, id model.HostelID) (bool, error) {
	if _, ok := m.hostels[id]; !ok {
		return false, nil
	}
	delete(m.hostels, id)
	return true, nil
}

func (m *mockHostelRepo) IncrementOccupancy(_ context.Context, id model.HostelID) error {
	h, ok := m.hostels[id]
	if !ok || h.CurrentOccupancy >= h.Capacity {
		return pkgerrors.ErrNoCapacity
	}
	h.CurrentOccupancy++
	return nil
}

func (m *mockHostelRepo) SetWarden(_ context.Context, id model.HostelID, name, contact, email string) (bool, error) {
	h, ok := m.hostels[id]
	if !ok {
		return false, nil
	}
	h.WardenName, h.WardenContact, h.WardenEmail = &name, &contact, &email
	return true, nil
}

func (m *mockHostelRepo) ClearWarden(_ context.Context, id model.HostelID) (bool, error) {
	h, ok := m.hostels[id]
	if !ok {
		return false, nil
	}
	h.WardenName, h.WardenContact, h.WardenEmail = nil, nil, nil
	return true, nil
}

func (m *mockHostelRepo) AppendRoom(_ context.Context, id model.HostelID, roomNumber string) error {
	h, ok := m.hostels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !h.Rooms.Contains(roomNumber) {
		h.Rooms = append(h.Rooms, roomNumber)
		h.TotalRooms = len(h.Rooms)
	}
	return nil
}

func (m *mockHostelRepo) RemoveRoom(_ context.Context, id model.HostelID, roomNumber string) error {
	h, ok := m.hostels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rooms := model.StringArray{}
	for _, n := range h.Rooms {
		if n != roomNumber {
			rooms = append(rooms, n)
		}
	}
	h.Rooms = rooms
	h.TotalRooms = len(rooms)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms   map[string]*model.Room
	hostels *mockHostelRepo
	// beforeWrite 在 Update / DeleteIfVacant 判断条件前调用，模拟读取之后的并发写入
	beforeWrite func()
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) withHostel(r *model.Room) model.Room {
	cp := *r
	if m.hostels != nil {
		cp.Hostel = m.hostels.hostels[r.HostelID]
	}
	return cp
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	for _, r := range m.rooms {
		if r.HostelID == room.HostelID && r.RoomNumber == room.RoomNumber {
			return pkgerrors.ErrDuplicate
		}
	}
	if room.RoomID == "" {
		room.RoomID = "r-" + string(room.HostelID) + "-" + room.RoomNumber
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		cp := m.withHostel(r)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByHostelAndNumber(_ context.Context, hostelID model.HostelID, roomNumber string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.HostelID == hostelID && r.RoomNumber == roomNumber {
			cp := m.withHostel(r)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) filter(match func(*model.Room) bool) []model.Room {
	var result []model.Room
	for _, r := range m.rooms {
		if match(r) {
			result = append(result, m.withHostel(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomNumber < result[j].RoomNumber })
	return result
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	return m.filter(func(*model.Room) bool { return true }), nil
}

func (m *mockRoomRepo) ListByHostel(_ context.Context, hostelID model.HostelID) ([]model.Room, error) {
	return m.filter(func(r *model.Room) bool { return r.HostelID == hostelID }), nil
}

func (m *mockRoomRepo) ListAvailableByHostel(_ context.Context, hostelID model.HostelID) ([]model.Room, error) {
	return m.filter(func(r *model.Room) bool { return r.HostelID == hostelID && r.Available() }), nil
}

func (m *mockRoomRepo) FindBy(ctx context.Context, _ map[string]interface{}) ([]model.Room, error) {
	return m.List(ctx)
}

func (m *mockRoomRepo) Update(_ context.Context, id string, fields map[string]interface{}) (bool, error) {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	r, ok := m.rooms[id]
	if !ok {
		return false, nil
	}
	if v, ok := fields["capacity"].(int); ok && v < r.CurrentOccupancy {
		return false, nil
	}
	if v, ok := fields["type"].(string); ok {
		r.Type = v
	}
	if v, ok := fields["capacity"].(int); ok {
		r.Capacity = v
	}
	if v, ok := fields["features"].(model.StringArray); ok {
		r.Features = v
	}
	return true, nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.rooms[id]; !ok {
		return false, nil
	}
	delete(m.rooms, id)
	return true, nil
}

func (m *mockRoomRepo) DeleteIfVacant(_ context.Context, id string) (bool, error) {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	r, ok := m.rooms[id]
	if !ok || r.CurrentOccupancy != 0 {
		return false, nil
	}
	delete(m.rooms, id)
	return true, nil
}

func (m *mockRoomRepo) IncrementOccupancy(_ context.Context, hostelID model.HostelID, roomNumber string) error {
	for _, r := range m.rooms {
		if r.HostelID == hostelID && r.RoomNumber == roomNumber {
			if r.CurrentOccupancy >= r.Capacity {
				return pkgerrors.ErrNoCapacity
			}
			r.CurrentOccupancy++
			return nil
		}
	}
	return pkgerrors.ErrNoCapacity
}

func (m *mockRoomRepo) AddOccupant(_ context.Context, roomID, userID string) error {
	r, ok := m.rooms[roomID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !r.Occupants.Contains(userID) {
		r.Occupants = append(r.Occupants, userID)
	}
	return nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps map[string]*model.Application
	seq  int
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[string]*model.Application)}
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	if app.ApplicationID == "" {
		m.seq++
		app.ApplicationID = fmt.Sprintf("app-%d", m.seq)
	}
	if app.Version == 0 {
		app.Version = 1
	}
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = time.Now()
	}
	m.apps[app.ApplicationID] = app
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetOpenByBitsID(_ context.Context, bitsID string) (*model.Application, error) {
	for _, a := range m.apps {
		if a.BitsID != bitsID {
			continue
		}
		if a.HostelStatus == model.StatusPending ||
			(a.HostelStatus == model.StatusAssigned && a.RoomStatus == model.StatusPending) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) filter(match func(*model.Application) bool) []model.Application {
	var result []model.Application
	for _, a := range m.apps {
		if match(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ApplicationID < result[j].ApplicationID })
	return result
}

func (m *mockApplicationRepo) FindBy(_ context.Context, _ map[string]interface{}) ([]model.Application, error) {
	return m.filter(func(*model.Application) bool { return true }), nil
}

func (m *mockApplicationRepo) Update(_ context.Context, id string, _ map[string]interface{}) (bool, error) {
	_, ok := m.apps[id]
	return ok, nil
}

func (m *mockApplicationRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.apps[id]; !ok {
		return false, nil
	}
	delete(m.apps, id)
	return true, nil
}

func (m *mockApplicationRepo) ListPendingForAdmin(_ context.Context) ([]model.Application, error) {
	return m.filter(func(a *model.Application) bool { return a.HostelStatus == model.StatusPending }), nil
}

func (m *mockApplicationRepo) ListClosedForAdmin(_ context.Context) ([]model.Application, error) {
	return m.filter(func(a *model.Application) bool { return a.HostelStatus != model.StatusPending }), nil
}

func (m *mockApplicationRepo) ListPendingForWarden(_ context.Context, hostelID model.HostelID) ([]model.Application, error) {
	return m.filter(func(a *model.Application) bool {
		return a.RoomStatus == model.StatusPending && a.HostelStatus == model.StatusAssigned &&
			a.AllotedHostelID != nil && *a.AllotedHostelID == hostelID
	}), nil
}

func (m *mockApplicationRepo) ListClosedForWarden(_ context.Context, hostelID model.HostelID) ([]model.Application, error) {
	return m.filter(func(a *model.Application) bool {
		return a.RoomStatus != model.StatusPending && a.AllotedHostelID != nil && *a.AllotedHostelID == hostelID
	}), nil
}

func (m *mockApplicationRepo) UpdateState(_ context.Context, app *model.Application, next model.ApplicationState, extra map[string]interface{}) error {
	stored, ok := m.apps[app.ApplicationID]
	if !ok || stored.Version != app.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.HostelStatus, stored.RoomStatus = next.Hostel, next.Room
	stored.Version++
	if v, ok := extra["alloted_hostel_id"].(model.HostelID); ok {
		stored.AllotedHostelID = &v
	}
	if v, ok := extra["alloted_room"].(string); ok {
		stored.AllotedRoom = &v
	}
	if v, ok := extra["remarks"].(string); ok {
		stored.Remarks = &v
	}
	app.HostelStatus, app.RoomStatus, app.Version = next.Hostel, next.Room, stored.Version
	return nil
}

// ── Mock AllotmentRepository ──

type mockAllotmentRepo struct {
	allotments map[string]*model.Allotment
	seq        int
}

func newMockAllotmentRepo() *mockAllotmentRepo {
	return &mockAllotmentRepo{allotments: make(map[string]*model.Allotment)}
}

func (m *mockAllotmentRepo) Create(_ context.Context, a *model.Allotment) error {
	if a.AllotmentID == "" {
		m.seq++
		a.AllotmentID = fmt.Sprintf("al-%d", m.seq)
	}
	if a.Status == "" {
		a.Status = model.AllotmentActive
	}
	if a.AllotmentDate.IsZero() {
		a.AllotmentDate = time.Now()
	}
	m.allotments[a.AllotmentID] = a
	return nil
}

func (m *mockAllotmentRepo) GetByID(_ context.Context, id string) (*model.Allotment, error) {
	if a, ok := m.allotments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllotmentRepo) ListByUser(_ context.Context, userID string) ([]model.Allotment, error) {
	var result []model.Allotment
	for _, a := range m.allotments {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAllotmentRepo) FindBy(_ context.Context, _ map[string]interface{}) ([]model.Allotment, error) {
	var result []model.Allotment
	for _, a := range m.allotments {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAllotmentRepo) Update(_ context.Context, id string, fields map[string]interface{}) (bool, error) {
	a, ok := m.allotments[id]
	if !ok {
		return false, nil
	}
	if v, ok := fields["status"].(string); ok {
		a.Status = v
	}
	if v, ok := fields["duration"].(string); ok {
		a.Duration = v
	}
	return true, nil
}

func (m *mockAllotmentRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.allotments[id]; !ok {
		return false, nil
	}
	delete(m.allotments, id)
	return true, nil
}
