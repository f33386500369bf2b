package application

import (
	"time"

	"github.com/google/uuid"
)

// CancellationNote is recorded on applications rejected because their interview was cancelled.
const CancellationNote = "Interview dibatalkan oleh recruiter"

type Application struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	JobseekerID   uuid.UUID
	Status        Status
	CoverLetter   string
	RecruiterNote string

	AppliedAt   time.Time
	UpdatedAt   time.Time
	DecidedAt   *time.Time
	WithdrawnAt *time.Time
}

// StatusChange is one validated edge, applied by the store only if the
// application still holds From.
type StatusChange struct {
	ApplicationID uuid.UUID
	From          Status
	To            Status
	ActorID       *uuid.UUID
	Note          string
	At            time.Time
}

func NewStatusChange(appID uuid.UUID, from, to Status, actorID *uuid.UUID, note string, at time.Time) (StatusChange, error) {
	if err := ValidateTransition(from, to); err != nil {
		return StatusChange{}, err
	}
	return StatusChange{
		ApplicationID: appID,
		From:          from,
		To:            to,
		ActorID:       actorID,
		Note:          note,
		At:            at.UTC(),
	}, nil
}

type HistoryEntry struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	FromStatus    Status
	ToStatus      Status
	ActorID       *uuid.UUID
	Note          string
	CreatedAt     time.Time
}
