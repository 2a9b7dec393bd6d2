package services

import (
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func requireEmployer(user *models.User) error {
	if user.Role != models.RoleBoth {
		return fmt.Errorf("%w: only users with 'both' role (employer and employee) can perform this action", common.ErrorForbidden)
	}
	return nil
}

// parseID rejects anything that is not a UUID before it reaches Postgres.
func parseID(id, what string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid %s ID format", common.ErrorValidation, what)
	}
	return u.String(), nil
}

// normalizePage applies defaults and bounds: page >= 1, 1 <= size <= 100.
// Zero values take the defaults; out of range values are rejected.
func normalizePage(page, size int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be >= 1", common.ErrorValidation)
	}
	if size < 1 || size > MaxPageSize {
		return 0, 0, fmt.Errorf("%w: page_size must be between 1 and %d", common.ErrorValidation, MaxPageSize)
	}
	return page, size, nil
}
