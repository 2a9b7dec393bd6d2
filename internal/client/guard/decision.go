// Package guard decides whether a protected screen may be shown.
//
// Authorize is a pure predicate over the session state. Guard wraps it with
// the side effects of a denial: a notice for a role mismatch and a redirect
// to the root route, each fired once per denial.
package guard

import (
	"slices"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

type Outcome int

const (
	Pending Outcome = iota
	Granted
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Reason qualifies a Denied outcome.
type Reason int

const (
	NoReason Reason = iota
	NotLoggedIn
	RoleMismatch
)

func (r Reason) String() string {
	switch r {
	case NotLoggedIn:
		return "not logged in"
	case RoleMismatch:
		return "role mismatch"
	}
	return ""
}

type Decision struct {
	Outcome Outcome
	Reason  Reason
}

func (d Decision) Granted() bool { return d.Outcome == Granted }
func (d Decision) Denied() bool  { return d.Outcome == Denied }

// State is what the predicate looks at.
type State struct {
	Loading bool
	Settled bool
	User    *models.User
}

// Requirement is empty for the plain authentication guard.
type Requirement struct {
	Role models.Role
}

func Authorize(s State, req Requirement) Decision {
	if s.Loading || !s.Settled {
		return Decision{Outcome: Pending}
	}
	if s.User == nil {
		return Decision{Outcome: Denied, Reason: NotLoggedIn}
	}
	if req.Role != "" && s.User.Role != req.Role {
		return Decision{Outcome: Denied, Reason: RoleMismatch}
	}
	return Decision{Outcome: Granted}
}

// HasPlan reports whether the user's active plan is one of plans.
func HasPlan(u *models.User, plans ...models.PlanName) bool {
	p := u.PlanName()
	if p == "" {
		return false
	}
	return slices.Contains(plans, p)
}
