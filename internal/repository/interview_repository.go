package repository

import (
	"context"
	"time"

	"jobhub/internal/database"
	"jobhub/internal/domain/application"
	"jobhub/internal/domain/interview"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type InterviewRepository interface {
	CreateInterview(ctx context.Context, iv interview.Interview, changes []application.StatusChange) error
	GetInterview(ctx context.Context, id uuid.UUID) (interview.Interview, error)
	ListInterviewsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]interview.Interview, error)
	ListInterviewsByJobseeker(ctx context.Context, jobseekerID uuid.UUID) ([]interview.Interview, error)
	UpdateParticipant(ctx context.Context, ch interview.ParticipantChange) error
	ApplyCompletion(ctx context.Context, plan interview.CompletionPlan) error
	ApplyCancellation(ctx context.Context, plan interview.CancellationPlan) error
	ApplyReschedule(ctx context.Context, iv interview.Interview, changes []interview.ParticipantChange) error
}

type PostgresInterviewRepository struct {
	db database.DB
}

func NewPostgresInterviewRepository(db database.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

const interviewSelect = `SELECT i.id, i.recruiter_id, i.job_id, j.title, c.name, i.title, i.description,
	i.scheduled_at, i.duration_minutes, i.meeting_type, i.meeting_url, i.location, i.status,
	i.completed_at, i.cancelled_at, i.created_at, i.updated_at
	FROM interviews i
	JOIN jobs j ON j.id = i.job_id
	JOIN companies c ON c.id = j.company_id`

const participantSelect = `SELECT p.id, p.interview_id, p.application_id, p.status, p.responded_at, p.reschedule_reason,
	a.status, a.jobseeker_id,
	COALESCE(NULLIF(TRIM(COALESCE(js.first_name, '') || ' ' || COALESCE(js.last_name, '')), ''), u.email),
	u.email
	FROM interview_participants p
	JOIN applications a ON a.id = p.application_id
	JOIN users u ON u.id = a.jobseeker_id
	LEFT JOIN jobseekers js ON js.user_id = a.jobseeker_id`

// CreateInterview inserts the interview, one participant per application and
// moves every application along changes, all in one transaction.
func (r *PostgresInterviewRepository) CreateInterview(ctx context.Context, iv interview.Interview, changes []application.StatusChange) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO interviews (id, recruiter_id, job_id, title, description, scheduled_at, duration_minutes,
			        meeting_type, meeting_url, location, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
			iv.ID, iv.RecruiterID, iv.JobID, iv.Title, iv.Description, iv.ScheduledAt, iv.DurationMinutes,
			string(iv.Meeting.Type), iv.Meeting.URL, iv.Meeting.Location, string(iv.Status), timeOrNow(iv.CreatedAt),
		); err != nil {
			return errors.Wrap(err, "insert interview")
		}

		for _, p := range iv.Participants {
			if _, err := tx.Exec(ctx,
				`INSERT INTO interview_participants (id, interview_id, application_id, status, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $5)`,
				p.ID, iv.ID, p.ApplicationID, string(p.Status), timeOrNow(iv.CreatedAt),
			); err != nil {
				return errors.Wrapf(err, "insert participant for application %s", p.ApplicationID)
			}
		}

		for _, ch := range changes {
			if err := applyStatusChange(ctx, tx, ch); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresInterviewRepository) GetInterview(ctx context.Context, id uuid.UUID) (interview.Interview, error) {
	iv, err := scanInterview(r.db.QueryRow(ctx, interviewSelect+` WHERE i.id = $1`, id))
	if err != nil {
		return interview.Interview{}, err
	}
	if iv.Participants, err = r.participants(ctx, iv.ID); err != nil {
		return interview.Interview{}, err
	}
	return iv, nil
}

func (r *PostgresInterviewRepository) ListInterviewsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]interview.Interview, error) {
	return r.list(ctx, interviewSelect+` WHERE i.recruiter_id = $1 ORDER BY i.scheduled_at DESC`, recruiterID)
}

func (r *PostgresInterviewRepository) ListInterviewsByJobseeker(ctx context.Context, jobseekerID uuid.UUID) ([]interview.Interview, error) {
	return r.list(ctx, interviewSelect+`
		WHERE EXISTS (
			SELECT 1 FROM interview_participants p
			JOIN applications a ON a.id = p.application_id
			WHERE p.interview_id = i.id AND a.jobseeker_id = $1
		)
		ORDER BY i.scheduled_at DESC`, jobseekerID)
}

func (r *PostgresInterviewRepository) UpdateParticipant(ctx context.Context, ch interview.ParticipantChange) error {
	return updateParticipant(ctx, r.db, ch)
}

func (r *PostgresInterviewRepository) ApplyCompletion(ctx context.Context, plan interview.CompletionPlan) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, ch := range plan.Participants {
			if err := updateParticipant(ctx, tx, ch); err != nil {
				return err
			}
		}
		for _, ch := range plan.Applications {
			if err := applyStatusChange(ctx, tx, ch); err != nil {
				return err
			}
		}
		if !plan.CompleteInterview {
			return nil
		}
		return closeInterview(ctx, tx, plan.InterviewID, interview.StatusCompleted, plan.At)
	})
}

// ApplyCancellation closes the interview and rejects its applications. Any
// failure rolls back the whole cascade.
func (r *PostgresInterviewRepository) ApplyCancellation(ctx context.Context, plan interview.CancellationPlan) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := closeInterview(ctx, tx, plan.InterviewID, interview.StatusCancelled, plan.At); err != nil {
			return err
		}
		for _, ch := range plan.Applications {
			if err := applyStatusChange(ctx, tx, ch); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresInterviewRepository) ApplyReschedule(ctx context.Context, iv interview.Interview, changes []interview.ParticipantChange) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx,
			`UPDATE interviews SET scheduled_at = $1, duration_minutes = $2, meeting_type = $3, meeting_url = $4,
			        location = $5, description = $6, status = $7, updated_at = $8
			 WHERE id = $9 AND status IN ($10, $11)`,
			iv.ScheduledAt, iv.DurationMinutes, string(iv.Meeting.Type), iv.Meeting.URL, iv.Meeting.Location,
			iv.Description, string(iv.Status), timeOrNow(iv.UpdatedAt), iv.ID,
			string(interview.StatusScheduled), string(interview.StatusRescheduled),
		)
		if err != nil {
			return errors.Wrap(err, "update interview schedule")
		}
		if affected == 0 {
			return errors.Wrapf(ErrStaleState, "interview %s is closed", iv.ID)
		}
		for _, ch := range changes {
			if err := updateParticipant(ctx, tx, ch); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresInterviewRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]interview.Interview, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	out := make([]interview.Interview, 0)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, iv)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	for i := range out {
		if out[i].Participants, err = r.participants(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresInterviewRepository) participants(ctx context.Context, interviewID uuid.UUID) ([]interview.Participant, error) {
	rows, err := r.db.Query(ctx, participantSelect+` WHERE p.interview_id = $1 ORDER BY p.created_at ASC`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interview.Participant, 0)
	for rows.Next() {
		var p interview.Participant
		var status, appStatus string
		if err := rows.Scan(
			&p.ID, &p.InterviewID, &p.ApplicationID, &status, &p.RespondedAt, &p.RescheduleReason,
			&appStatus, &p.JobseekerID, &p.JobseekerName, &p.JobseekerEmail,
		); err != nil {
			return nil, err
		}
		p.Status = interview.ParticipantStatus(status)
		p.ApplicationStatus = application.Status(appStatus)
		out = append(out, p)
	}
	return out, rows.Err()
}

func updateParticipant(ctx context.Context, q database.Querier, ch interview.ParticipantChange) error {
	affected, err := q.Exec(ctx,
		`UPDATE interview_participants SET status = $1, responded_at = $2, reschedule_reason = $3, updated_at = $4
		 WHERE id = $5 AND status = $6`,
		string(ch.To), ch.RespondedAt, ch.RescheduleReason, timeOrNow(ch.At), ch.ParticipantID, string(ch.From),
	)
	if err != nil {
		return errors.Wrapf(err, "update participant %s", ch.ParticipantID)
	}
	if affected == 0 {
		return errors.Wrapf(ErrStaleState, "participant %s is no longer %s", ch.ParticipantID, ch.From)
	}
	return nil
}

// closeInterview moves an open interview to COMPLETED or CANCELLED and stamps
// the matching timestamp.
func closeInterview(ctx context.Context, q database.Querier, id uuid.UUID, to interview.Status, at time.Time) error {
	at = timeOrNow(at)
	var completedAt, cancelledAt *time.Time
	if to == interview.StatusCompleted {
		completedAt = &at
	} else {
		cancelledAt = &at
	}

	affected, err := q.Exec(ctx,
		`UPDATE interviews SET status = $1, completed_at = COALESCE($2, completed_at),
		        cancelled_at = COALESCE($3, cancelled_at), updated_at = $4
		 WHERE id = $5 AND status IN ($6, $7)`,
		string(to), completedAt, cancelledAt, at, id,
		string(interview.StatusScheduled), string(interview.StatusRescheduled),
	)
	if err != nil {
		return errors.Wrapf(err, "close interview %s", id)
	}
	if affected == 0 {
		return errors.Wrapf(ErrStaleState, "interview %s is already closed", id)
	}
	return nil
}

func scanInterview(row scanner) (interview.Interview, error) {
	var iv interview.Interview
	var meetingType, status string
	if err := row.Scan(
		&iv.ID, &iv.RecruiterID, &iv.JobID, &iv.JobTitle, &iv.CompanyName, &iv.Title, &iv.Description,
		&iv.ScheduledAt, &iv.DurationMinutes, &meetingType, &iv.Meeting.URL, &iv.Meeting.Location, &status,
		&iv.CompletedAt, &iv.CancelledAt, &iv.CreatedAt, &iv.UpdatedAt,
	); err != nil {
		if database.IsNoRows(err) {
			return interview.Interview{}, ErrInterviewNotFound
		}
		return interview.Interview{}, err
	}
	iv.Meeting.Type = interview.MeetingType(meetingType)
	iv.Status = interview.Status(status)
	return iv, nil
}
