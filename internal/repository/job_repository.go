package repository

import (
	"context"
	"strings"

	"jobhub/internal/database"
	"jobhub/internal/domain/company"
	"jobhub/internal/domain/job"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// JobFilter narrows open job listings. Patterns are ILIKE patterns; a job
// matches when its title or description matches any of them.
type JobFilter struct {
	Patterns []string
	Location string
	Type     job.Type
	Limit    int
	Offset   int
}

type JobRepository interface {
	CreateJob(ctx context.Context, j job.Job) error
	UpdateJob(ctx context.Context, j job.Job) error
	SetJobActive(ctx context.Context, id uuid.UUID, active bool) error
	GetJobByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error)
	ListOpenJobs(ctx context.Context, f JobFilter) ([]job.Job, int, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobSelect = `SELECT j.id, j.company_id, j.title, j.description, j.requirements, j.location,
	j.salary_min, j.salary_max, j.job_type, j.level, j.is_active, j.created_at, j.updated_at,
	c.name, c.status, c.recruiter_id
	FROM jobs j JOIN companies c ON c.id = j.company_id`

func (r *PostgresJobRepository) CreateJob(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, company_id, title, description, requirements, location, salary_min, salary_max, job_type, level, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		j.ID, j.CompanyID, j.Title, j.Description, j.Requirements, j.Location, j.SalaryMin, j.SalaryMax,
		string(j.Type), string(j.Level), j.IsActive, timeOrNow(j.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCompanyNotFound
		}
		return errors.Wrap(err, "insert job")
	}
	return nil
}

func (r *PostgresJobRepository) UpdateJob(ctx context.Context, j job.Job) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE jobs SET title = $1, description = $2, requirements = $3, location = $4, salary_min = $5,
		        salary_max = $6, job_type = $7, level = $8, updated_at = $9
		 WHERE id = $10`,
		j.Title, j.Description, j.Requirements, j.Location, j.SalaryMin, j.SalaryMax,
		string(j.Type), string(j.Level), timeOrNow(j.UpdatedAt), j.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update job")
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) SetJobActive(ctx context.Context, id uuid.UUID, active bool) error {
	affected, err := r.db.Exec(ctx, `UPDATE jobs SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return errors.Wrap(err, "set job active")
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) GetJobByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
}

func (r *PostgresJobRepository) ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.company_id = $1 ORDER BY j.created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListOpenJobs returns active jobs of verified companies matching f, newest
// first, together with the total match count.
func (r *PostgresJobRepository) ListOpenJobs(ctx context.Context, f JobFilter) ([]job.Job, int, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 20, 50)

	where := ` WHERE j.is_active = true AND c.status = $1
		AND (cardinality($2::text[]) = 0 OR j.title ILIKE ANY($2::text[]) OR j.description ILIKE ANY($2::text[]))
		AND ($3 = '' OR j.location ILIKE '%' || $3 || '%')
		AND ($4 = '' OR j.job_type = $4)`
	patterns := f.Patterns
	if patterns == nil {
		patterns = []string{}
	}
	args := []any{string(company.StatusVerified), patterns, strings.TrimSpace(f.Location), string(f.Type)}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs j JOIN companies c ON c.id = j.company_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count open jobs")
	}

	rows, err := r.db.Query(ctx, jobSelect+where+` ORDER BY j.created_at DESC LIMIT $5 OFFSET $6`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func scanJob(row scanner) (job.Job, error) {
	var j job.Job
	var jobType, level, companyStatus string
	if err := row.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Requirements, &j.Location,
		&j.SalaryMin, &j.SalaryMax, &jobType, &level, &j.IsActive, &j.CreatedAt, &j.UpdatedAt,
		&j.CompanyName, &companyStatus, &j.RecruiterID,
	); err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	j.Type = job.Type(jobType)
	j.Level = job.Level(level)
	j.CompanyStatus = company.Status(companyStatus)
	return j, nil
}
