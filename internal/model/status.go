package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition 申请状态非法流转
var ErrInvalidTransition = errors.New("申请状态不允许此流转")

// AssignmentStatus 单一维度（宿舍楼 / 房间）上的分配状态
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "pending"
	StatusAssigned AssignmentStatus = "assigned"
	StatusRejected AssignmentStatus = "rejected"
)

// Valid 是否为已知状态值
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusRejected:
		return true
	}
	return false
}

// StatusAxis 申请的两个独立状态维度
type StatusAxis string

const (
	AxisHostel StatusAxis = "hostel"
	AxisRoom   StatusAxis = "room"
)

// Valid 是否为已知维度
func (a StatusAxis) Valid() bool {
	return a == AxisHostel || a == AxisRoom
}

// ApplicationState 申请在 (hostel_status, room_status) 上的组合状态
type ApplicationState struct {
	Hostel AssignmentStatus
	Room   AssignmentStatus
}

// InitialState 新提交申请的初始状态
func InitialState() ApplicationState {
	return ApplicationState{Hostel: StatusPending, Room: StatusPending}
}

// Transition 计算在 axis 维度上迁移到 to 之后的状态。
//
// 规则：
//   - 任一维度只允许 pending → assigned 与 pending → rejected
//   - 房间维度的任何迁移都要求宿舍楼维度已是 assigned
//   - 其他迁移（含原地迁移、离开终态）一律返回 ErrInvalidTransition
func (s ApplicationState) Transition(axis StatusAxis, to AssignmentStatus) (ApplicationState, error) {
	if to != StatusAssigned && to != StatusRejected {
		return s, fmt.Errorf("%w: 目标状态 %q", ErrInvalidTransition, to)
	}

	next := s
	switch axis {
	case AxisHostel:
		if s.Hostel != StatusPending {
			return s, fmt.Errorf("%w: hostel %s → %s", ErrInvalidTransition, s.Hostel, to)
		}
		next.Hostel = to
	case AxisRoom:
		if s.Hostel != StatusAssigned {
			return s, fmt.Errorf("%w: 宿舍楼尚未分配，房间状态不可变更", ErrInvalidTransition)
		}
		if s.Room != StatusPending {
			return s, fmt.Errorf("%w: room %s → %s", ErrInvalidTransition, s.Room, to)
		}
		next.Room = to
	default:
		return s, fmt.Errorf("%w: 未知维度 %q", ErrInvalidTransition, axis)
	}
	return next, nil
}

// IsTerminal 终态：完全入住，或任一维度被拒绝
func (s ApplicationState) IsTerminal() bool {
	if s.Hostel == StatusRejected || s.Room == StatusRejected {
		return true
	}
	return s.Hostel == StatusAssigned && s.Room == StatusAssigned
}
