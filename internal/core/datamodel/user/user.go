package user

import (
	"fmt"
	"time"
)

// Role is the single role carried by every user. There is no role
// hierarchy: authorization is decided by explicit per-role grants.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// User is the persisted shape stored under the users collection key.
// Department is free text and doubles as the manager scoping key.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Status     Status    `json:"status"`
	Department string    `json:"department"`
	Phone      string    `json:"phone,omitempty"`
	Location   string    `json:"location,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsActiveUser() bool {
	return u.Status == StatusActive
}
