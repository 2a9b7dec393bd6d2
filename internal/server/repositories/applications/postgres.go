// Package applications stores job applications in PostgreSQL.
package applications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/pgerr"
)

const applicationColumns = `a.id, a.job_id, a.applicant_id, a.cover_letter, a.resume_key, a.portfolio_url,
 a.linkedin_url, a.github_url, a.expected_salary, a.availability_date, a.additional_notes, a.status,
 a.reviewed_at, a.reviewed_by, a.review_notes, a.created_at, a.updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending application. A second application of the same
// user to the same job yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	query :=
		`INSERT INTO job_applications AS a (job_id, applicant_id, cover_letter, resume_key, portfolio_url,
		 linkedin_url, github_url, expected_salary, availability_date, additional_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING ` + applicationColumns

	return scanApplication(r.db.QueryRowContext(ctx, query,
		a.JobID, a.ApplicantID, a.CoverLetter, a.ResumeKey, a.PortfolioURL,
		a.LinkedinURL, a.GithubURL, a.ExpectedSalary, a.AvailabilityDate, a.AdditionalNotes))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM job_applications a WHERE a.id = $1`
	return scanApplication(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM job_applications WHERE job_id = $1 AND applicant_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, jobID, applicantID).Scan(&ok); err != nil {
		return false, pgerr.Wrap(err)
	}
	return ok, nil
}

// ListByJob returns one page of the applications to a job, newest first,
// with the applicant's name and email.
func (r *PostgresRepository) ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*models.Application, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_applications WHERE job_id = $1`, jobID).Scan(&total); err != nil {
		return nil, 0, pgerr.Wrap(err)
	}

	query :=
		`SELECT ` + applicationColumns + `, u.name, u.email
		 FROM job_applications a JOIN users u ON u.id = a.applicant_id
		 WHERE a.job_id = $1
		 ORDER BY a.created_at DESC
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, jobID, limit, offset)
	if err != nil {
		return nil, 0, pgerr.Wrap(err)
	}
	defer rows.Close()

	out := []*models.Application{}
	for rows.Next() {
		a := &models.Application{}
		var email string
		if err := rows.Scan(append(fields(a), &a.ApplicantName, &email)...); err != nil {
			return nil, 0, pgerr.Wrap(err)
		}
		a.ApplicantEmail = &email
		a.HasResume = a.ResumeKey != nil
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, pgerr.Wrap(err)
	}
	return out, total, nil
}

// ListByApplicant returns the user's applications with the job title and
// company, newest first.
func (r *PostgresRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error) {
	query :=
		`SELECT ` + applicationColumns + `, j.title, j.company_name
		 FROM job_applications a JOIN jobs j ON j.id = a.job_id
		 WHERE a.applicant_id = $1
		 ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	out := []*models.Application{}
	for rows.Next() {
		a := &models.Application{}
		var title, company string
		if err := rows.Scan(append(fields(a), &title, &company)...); err != nil {
			return nil, pgerr.Wrap(err)
		}
		a.JobTitle, a.CompanyName = &title, &company
		a.HasResume = a.ResumeKey != nil
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) Review(ctx context.Context, id string, status models.ApplicationStatus, reviewerID string, at time.Time) (*models.Application, error) {
	query :=
		`UPDATE job_applications AS a SET status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4
		 WHERE a.id = $1
		 RETURNING ` + applicationColumns
	return scanApplication(r.db.QueryRowContext(ctx, query, id, status, reviewerID, at))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return pgerr.ExpectOne(r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = $1`, id))
}

func (r *PostgresRepository) ResumeKeysByJob(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT resume_key FROM job_applications WHERE job_id = $1 AND resume_key IS NOT NULL`, jobID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, pgerr.Wrap(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return keys, nil
}

func fields(a *models.Application) []any {
	return []any{&a.ID, &a.JobID, &a.ApplicantID, &a.CoverLetter, &a.ResumeKey, &a.PortfolioURL,
		&a.LinkedinURL, &a.GithubURL, &a.ExpectedSalary, &a.AvailabilityDate, &a.AdditionalNotes, &a.Status,
		&a.ReviewedAt, &a.ReviewedBy, &a.ReviewNotes, &a.CreatedAt, &a.UpdatedAt}
}

func scanApplication(row pgerr.Scanner) (*models.Application, error) {
	a := &models.Application{}
	if err := row.Scan(fields(a)...); err != nil {
		return nil, pgerr.Wrap(err)
	}
	a.HasResume = a.ResumeKey != nil
	return a, nil
}
