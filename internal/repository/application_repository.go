package repository

import (
	"context"
	"time"

	"jobhub/internal/database"
	"jobhub/internal/domain/application"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ApplicationView is an application joined with the job, company and
// jobseeker details the handlers and notifications need.
type ApplicationView struct {
	application.Application

	JobTitle    string
	CompanyID   uuid.UUID
	CompanyName string
	RecruiterID uuid.UUID

	JobseekerEmail      string
	JobseekerFirstName  string
	JobseekerLastName   string
	JobseekerPhone      string
	JobseekerCity       string
	ProfileCompleteness int
}

func (v ApplicationView) JobseekerName() string {
	name := v.JobseekerFirstName
	if v.JobseekerLastName != "" {
		if name != "" {
			name += " "
		}
		name += v.JobseekerLastName
	}
	if name == "" {
		return v.JobseekerEmail
	}
	return name
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, a application.Application) error
	HasActiveApplication(ctx context.Context, jobseekerID, jobID uuid.UUID) (bool, error)
	GetApplication(ctx context.Context, id uuid.UUID) (ApplicationView, error)
	ListApplicationsByJobseeker(ctx context.Context, jobseekerID uuid.UUID) ([]ApplicationView, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]ApplicationView, error)
	ChangeStatus(ctx context.Context, ch application.StatusChange) error
	ListHistory(ctx context.Context, applicationID uuid.UUID) ([]application.HistoryEntry, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationSelect = `SELECT a.id, a.job_id, a.jobseeker_id, a.status, a.cover_letter, a.recruiter_note,
	a.applied_at, a.updated_at, a.decided_at, a.withdrawn_at,
	j.title, c.id, c.name, c.recruiter_id,
	u.email, COALESCE(js.first_name, ''), COALESCE(js.last_name, ''), COALESCE(js.phone, ''),
	COALESCE(js.city, ''), COALESCE(js.profile_completeness, 0)
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id
	JOIN users u ON u.id = a.jobseeker_id
	LEFT JOIN jobseekers js ON js.user_id = a.jobseeker_id`

func (r *PostgresApplicationRepository) CreateApplication(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, jobseeker_id, status, cover_letter, applied_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		a.ID, a.JobID, a.JobseekerID, string(a.Status), a.CoverLetter, timeOrNow(a.AppliedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateApplication
		}
		if isForeignKeyViolation(err) {
			return ErrJobNotFound
		}
		return errors.Wrap(err, "insert application")
	}
	return nil
}

func (r *PostgresApplicationRepository) HasActiveApplication(ctx context.Context, jobseekerID, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE jobseeker_id = $1 AND job_id = $2 AND status <> $3)`,
		jobseekerID, jobID, string(application.StatusWithdrawn),
	).Scan(&exists)
	return exists, err
}

func (r *PostgresApplicationRepository) GetApplication(ctx context.Context, id uuid.UUID) (ApplicationView, error) {
	return scanApplicationView(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *PostgresApplicationRepository) ListApplicationsByJobseeker(ctx context.Context, jobseekerID uuid.UUID) ([]ApplicationView, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.jobseeker_id = $1 ORDER BY a.applied_at DESC`, jobseekerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplicationViews(rows)
}

func (r *PostgresApplicationRepository) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]ApplicationView, error) {
	rows, err := r.db.Query(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.applied_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplicationViews(rows)
}

// ChangeStatus applies ch and records it in the history in one transaction.
func (r *PostgresApplicationRepository) ChangeStatus(ctx context.Context, ch application.StatusChange) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		return applyStatusChange(ctx, tx, ch)
	})
}

func (r *PostgresApplicationRepository) ListHistory(ctx context.Context, applicationID uuid.UUID) ([]application.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, application_id, from_status, to_status, actor_id, note, created_at
		 FROM application_status_history WHERE application_id = $1 ORDER BY created_at ASC`,
		applicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.HistoryEntry, 0)
	for rows.Next() {
		var h application.HistoryEntry
		var from, to string
		if err := rows.Scan(&h.ID, &h.ApplicationID, &from, &to, &h.ActorID, &h.Note, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.FromStatus = application.Status(from)
		h.ToStatus = application.Status(to)
		out = append(out, h)
	}
	return out, rows.Err()
}

// applyStatusChange moves one application only if it still holds ch.From,
// then appends the history row. Callers own the transaction.
func applyStatusChange(ctx context.Context, q database.Querier, ch application.StatusChange) error {
	at := ch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var decidedAt, withdrawnAt *time.Time
	var recruiterNote *string
	switch {
	case ch.To.IsDecision():
		decidedAt = &at
		if ch.Note != "" {
			note := ch.Note
			recruiterNote = &note
		}
	case ch.To == application.StatusWithdrawn:
		withdrawnAt = &at
	}

	affected, err := q.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = $2,
		        decided_at = COALESCE($3, decided_at),
		        withdrawn_at = COALESCE($4, withdrawn_at),
		        recruiter_note = COALESCE($5, recruiter_note)
		 WHERE id = $6 AND status = $7`,
		string(ch.To), at, decidedAt, withdrawnAt, recruiterNote, ch.ApplicationID, string(ch.From),
	)
	if err != nil {
		return errors.Wrapf(err, "update application %s", ch.ApplicationID)
	}
	if affected == 0 {
		return errors.Wrapf(ErrStaleState, "application %s is no longer %s", ch.ApplicationID, ch.From)
	}

	if _, err := q.Exec(ctx,
		`INSERT INTO application_status_history (id, application_id, from_status, to_status, actor_id, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), ch.ApplicationID, string(ch.From), string(ch.To), ch.ActorID, ch.Note, at,
	); err != nil {
		return errors.Wrap(err, "insert application history")
	}
	return nil
}

func collectApplicationViews(rows database.Rows) ([]ApplicationView, error) {
	out := make([]ApplicationView, 0)
	for rows.Next() {
		v, err := scanApplicationView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanApplicationView(row scanner) (ApplicationView, error) {
	var v ApplicationView
	var status string
	if err := row.Scan(
		&v.ID, &v.JobID, &v.JobseekerID, &status, &v.CoverLetter, &v.RecruiterNote,
		&v.AppliedAt, &v.UpdatedAt, &v.DecidedAt, &v.WithdrawnAt,
		&v.JobTitle, &v.CompanyID, &v.CompanyName, &v.RecruiterID,
		&v.JobseekerEmail, &v.JobseekerFirstName, &v.JobseekerLastName, &v.JobseekerPhone,
		&v.JobseekerCity, &v.ProfileCompleteness,
	); err != nil {
		if database.IsNoRows(err) {
			return ApplicationView{}, ErrApplicationNotFound
		}
		return ApplicationView{}, err
	}
	v.Status = application.Status(status)
	return v, nil
}
