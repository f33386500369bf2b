package repository

import (
	"context"

	"jobhub/internal/database"
	"jobhub/internal/domain/company"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type CompanyRepository interface {
	CreateCompany(ctx context.Context, c company.Company) error
	UpdateCompanyProfile(ctx context.Context, c company.Company, from company.Status) error
	GetCompanyByID(ctx context.Context, id uuid.UUID) (company.Company, error)
	GetCompanyByRecruiter(ctx context.Context, recruiterID uuid.UUID) (company.Company, error)
	ListCompanies(ctx context.Context, statuses []company.Status, limit, offset int) ([]company.Company, error)
	UpdateVerification(ctx context.Context, c company.Company, from company.Status) error
}

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const companyColumns = `id, recruiter_id, name, description, industry, website, address, city, logo_url,
	status, verified, verified_at, verification_notes, rejection_reason, rejected_at, created_at, updated_at`

func (r *PostgresCompanyRepository) CreateCompany(ctx context.Context, c company.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, recruiter_id, name, description, industry, website, address, city, logo_url, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		c.ID, c.RecruiterID, c.Name, c.Description, c.Industry, c.Website, c.Address, c.City, c.LogoURL,
		string(c.Status), timeOrNow(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCompanyExists
		}
		return errors.Wrap(err, "insert company")
	}
	return nil
}

// UpdateCompanyProfile writes the recruiter-editable fields and the status,
// provided the company still holds from.
func (r *PostgresCompanyRepository) UpdateCompanyProfile(ctx context.Context, c company.Company, from company.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE companies SET name = $1, description = $2, industry = $3, website = $4, address = $5,
		        city = $6, logo_url = $7, status = $8, rejection_reason = $9, updated_at = $10
		 WHERE id = $11 AND status = $12`,
		c.Name, c.Description, c.Industry, c.Website, c.Address, c.City, c.LogoURL,
		string(c.Status), c.RejectionReason, timeOrNow(c.UpdatedAt), c.ID, string(from),
	)
	if err != nil {
		return errors.Wrap(err, "update company")
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *PostgresCompanyRepository) GetCompanyByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

func (r *PostgresCompanyRepository) GetCompanyByRecruiter(ctx context.Context, recruiterID uuid.UUID) (company.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE recruiter_id = $1`, recruiterID))
}

func (r *PostgresCompanyRepository) ListCompanies(ctx context.Context, statuses []company.Status, limit, offset int) ([]company.Company, error) {
	limit, offset = clampPage(limit, offset, 50, 200)

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+companyColumns+`
		 FROM companies
		 WHERE cardinality($1::text[]) = 0 OR status = ANY($1::text[])
		 ORDER BY updated_at ASC
		 LIMIT $2 OFFSET $3`,
		names, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]company.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateVerification stores an admin decision. The row must still be in
// from, so two admins acting at once cannot both succeed.
func (r *PostgresCompanyRepository) UpdateVerification(ctx context.Context, c company.Company, from company.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE companies SET status = $1, verified = $2, verified_at = $3, verification_notes = $4,
		        rejection_reason = $5, rejected_at = $6, updated_at = $7
		 WHERE id = $8 AND status = $9`,
		string(c.Status), c.Verified, c.VerifiedAt, c.VerificationNotes,
		c.RejectionReason, c.RejectedAt, timeOrNow(c.UpdatedAt), c.ID, string(from),
	)
	if err != nil {
		return errors.Wrap(err, "update company verification")
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

func scanCompany(row scanner) (company.Company, error) {
	var c company.Company
	var status string
	if err := row.Scan(
		&c.ID, &c.RecruiterID, &c.Name, &c.Description, &c.Industry, &c.Website, &c.Address, &c.City, &c.LogoURL,
		&status, &c.Verified, &c.VerifiedAt, &c.VerificationNotes, &c.RejectionReason, &c.RejectedAt,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if database.IsNoRows(err) {
			return company.Company{}, ErrCompanyNotFound
		}
		return company.Company{}, err
	}
	c.Status = company.Status(status)
	return c, nil
}
