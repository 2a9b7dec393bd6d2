// Package jobs stores job postings in PostgreSQL.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/pgerr"
)

const jobColumns = `id, title, company_name, location, work_mode, description, employment_type,
 experience_level, salary_min, salary_max, salary_currency, salary_period, is_salary_negotiable,
 category, industry, application_deadline, expires_at, published_at, status, is_featured,
 is_active, view_count, application_count, employer_id, created_at, updated_at`

// publicCondition selects jobs anyone may see; $1 is the current time.
const publicCondition = `status = 'published' AND is_active AND (expires_at IS NULL OR expires_at > $1)`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	query :=
		`INSERT INTO jobs (title, company_name, location, work_mode, description, employment_type,
		 experience_level, salary_min, salary_max, salary_currency, salary_period, is_salary_negotiable,
		 category, industry, application_deadline, expires_at, published_at, status, is_featured, employer_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING ` + jobColumns

	return scanJob(r.db.QueryRowContext(ctx, query,
		j.Title, j.CompanyName, j.Location, j.WorkMode, j.Description, j.EmploymentType,
		j.ExperienceLevel, j.SalaryMin, j.SalaryMax, j.SalaryCurrency, j.SalaryPeriod, j.IsSalaryNegotiable,
		j.Category, j.Industry, j.ApplicationDeadline, j.ExpiresAt, j.PublishedAt, j.Status, j.IsFeatured, j.EmployerID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.db.QueryRowContext(ctx, query, id))
}

// Update writes every editable column of j.
func (r *PostgresRepository) Update(ctx context.Context, j *models.Job) (*models.Job, error) {
	query :=
		`UPDATE jobs SET title = $2, company_name = $3, location = $4, work_mode = $5, description = $6,
		 employment_type = $7, experience_level = $8, salary_min = $9, salary_max = $10,
		 salary_currency = $11, salary_period = $12, is_salary_negotiable = $13, category = $14,
		 industry = $15, application_deadline = $16, expires_at = $17, published_at = $18,
		 status = $19, is_featured = $20, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + jobColumns

	return scanJob(r.db.QueryRowContext(ctx, query, j.ID,
		j.Title, j.CompanyName, j.Location, j.WorkMode, j.Description,
		j.EmploymentType, j.ExperienceLevel, j.SalaryMin, j.SalaryMax,
		j.SalaryCurrency, j.SalaryPeriod, j.IsSalaryNegotiable, j.Category,
		j.Industry, j.ApplicationDeadline, j.ExpiresAt, j.PublishedAt,
		j.Status, j.IsFeatured))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return pgerr.ExpectOne(r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id))
}

func (r *PostgresRepository) ListByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, employerID)
}

// ListPublic returns one page of published, active, unexpired jobs, featured
// first and newest next, together with the total number of matches.
func (r *PostgresRepository) ListPublic(ctx context.Context, f models.JobFilter, now time.Time) ([]*models.Job, int, error) {
	where := []string{publicCondition}
	args := []any{now}

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.EmploymentType != "" {
		add("employment_type = $%d", f.EmploymentType)
	}
	if f.ExperienceLevel != "" {
		add("experience_level = $%d", f.ExperienceLevel)
	}
	if f.WorkMode != "" {
		add("work_mode = $%d", f.WorkMode)
	}
	if f.Location != "" {
		add("location ILIKE '%%' || $%d || '%%'", f.Location)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, pgerr.Wrap(err)
	}

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY is_featured DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, cond, len(args)-1, len(args))

	jobs, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *PostgresRepository) GetPublic(ctx context.Context, id string, now time.Time) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + publicCondition + ` AND id = $2`
	return scanJob(r.db.QueryRowContext(ctx, query, now, id))
}

func (r *PostgresRepository) IncrementViewCount(ctx context.Context, id string) error {
	return pgerr.ExpectOne(r.db.ExecContext(ctx, `UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`, id))
}

// AdjustApplicationCount adds delta to the counter, never going below zero.
func (r *PostgresRepository) AdjustApplicationCount(ctx context.Context, id string, delta int) error {
	query := `UPDATE jobs SET application_count = GREATEST(application_count + $2, 0) WHERE id = $1`
	return pgerr.ExpectOne(r.db.ExecContext(ctx, query, id, delta))
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return jobs, nil
}

func scanJob(row pgerr.Scanner) (*models.Job, error) {
	j := &models.Job{}
	err := row.Scan(&j.ID, &j.Title, &j.CompanyName, &j.Location, &j.WorkMode, &j.Description,
		&j.EmploymentType, &j.ExperienceLevel, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency,
		&j.SalaryPeriod, &j.IsSalaryNegotiable, &j.Category, &j.Industry, &j.ApplicationDeadline,
		&j.ExpiresAt, &j.PublishedAt, &j.Status, &j.IsFeatured, &j.IsActive, &j.ViewCount,
		&j.ApplicationCount, &j.EmployerID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return j, nil
}
