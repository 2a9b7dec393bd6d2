package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/repomanager"
)

type PlanService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPlanService(db *sql.DB, m repomanager.RepositoryManager) *PlanService {
	return &PlanService{db: db, repomanager: m}
}

// List returns the active plans ordered by name.
func (s *PlanService) List(ctx context.Context) ([]*models.Plan, error) {
	plans, err := s.repomanager.Plans(s.db).ListActive(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("%w: no plans found", common.ErrorNotFound)
	}
	return plans, nil
}
