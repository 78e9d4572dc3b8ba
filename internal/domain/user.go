package domain

import "time"

type UserRole string

const (
	RoleBoard        UserRole = "board"
	RoleManagement   UserRole = "management"
	RoleReception    UserRole = "reception"
	RoleHousekeeping UserRole = "housekeeping"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleBoard, RoleManagement, RoleReception, RoleHousekeeping:
		return true
	}
	return false
}

// CanAuthorizeDiscount reports whether the role may grant checkout discounts.
func (r UserRole) CanAuthorizeDiscount() bool {
	return r == RoleBoard || r == RoleManagement
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
}

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}
