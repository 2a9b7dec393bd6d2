package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/payments"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/plans"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a connection or to a
// transaction, so services can run several of them atomically.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Jobs(db dbx.DBTX) jobs.Repository
	Applications(db dbx.DBTX) applications.Repository
	Plans(db dbx.DBTX) plans.Repository
	Payments(db dbx.DBTX) payments.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
}
