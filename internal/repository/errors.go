package repository

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrProfileNotFound      = errors.New("jobseeker profile not found")
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyExists        = errors.New("recruiter already owns a company")
	ErrJobNotFound          = errors.New("job not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("active application already exists for this job")
	ErrInterviewNotFound    = errors.New("interview not found")

	// ErrStaleState means a conditional update matched no row because the
	// record changed since it was read.
	ErrStaleState = errors.New("record was modified concurrently")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
