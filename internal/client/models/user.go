// Package models holds the job portal payloads as the CLI decodes them from
// the HTTP API.
package models

// Role is the account category that decides which screens a user may open.
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

// PlanName is a subscription tier.
type PlanName string

const (
	PlanStandard PlanName = "standard"
	PlanPremium  PlanName = "premium"
)

func (p PlanName) Valid() bool {
	return p == PlanStandard || p == PlanPremium
}

// User is the record returned by GET /api/auth/me and kept by the session
// store. Plan is nil without an active subscription.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          *string   `json:"name"`
	AvatarURL     *string   `json:"avatar_url"`
	EmailVerified bool      `json:"email_verified"`
	Role          Role      `json:"role"`
	Plan          *PlanName `json:"plan"`
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Name != nil {
		v := *u.Name
		c.Name = &v
	}
	if u.AvatarURL != nil {
		v := *u.AvatarURL
		c.AvatarURL = &v
	}
	if u.Plan != nil {
		v := *u.Plan
		c.Plan = &v
	}
	return &c
}

// DisplayName prefers the profile name and falls back to the email.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// PlanName returns the active plan or "" when there is none.
func (u *User) PlanName() PlanName {
	if u == nil || u.Plan == nil {
		return ""
	}
	return *u.Plan
}
