// Package models holds the rows of the job portal database. JSON tags give
// the wire shape returned by the HTTP API.
package models

import "time"

type Role string

const (
	RoleEmployer Role = "employer"
	RoleEmployee Role = "employee"
	RoleBoth     Role = "both"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployer, RoleEmployee, RoleBoth:
		return true
	}
	return false
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	Name          *string   `json:"name"`
	AvatarURL     *string   `json:"avatar_url"`
	Role          Role      `json:"role"`
	IsActive      bool      `json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// Profile is the current user as served by GET /api/auth/me. Plan is the
// plan of the active, unexpired subscription.
type Profile struct {
	*User
	Plan *PlanName `json:"plan"`
}
