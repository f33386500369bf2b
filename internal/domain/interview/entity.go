package interview

import (
	"strings"
	"time"

	"jobhub/internal/domain/application"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	ErrInvalidMeetingType = errors.New("invalid meeting type")
	ErrInvalidResponse    = errors.New("invalid interview response")
)

type MeetingType string

const (
	MeetingGoogleMeet MeetingType = "GOOGLE_MEET"
	MeetingZoom       MeetingType = "ZOOM"
	MeetingInPerson   MeetingType = "IN_PERSON"
)

// ParseMeetingType accepts ONLINE as an alias of GOOGLE_MEET.
func ParseMeetingType(raw string) (MeetingType, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "ONLINE", string(MeetingGoogleMeet):
		return MeetingGoogleMeet, nil
	case string(MeetingZoom):
		return MeetingZoom, nil
	case string(MeetingInPerson):
		return MeetingInPerson, nil
	default:
		return "", errors.Wrapf(ErrInvalidMeetingType, "%q", raw)
	}
}

func (m MeetingType) IsOnline() bool {
	return m == MeetingGoogleMeet || m == MeetingZoom
}

type Status string

const (
	StatusScheduled   Status = "SCHEDULED"
	StatusRescheduled Status = "RESCHEDULED"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
)

// IsClosed reports whether the interview no longer accepts changes.
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type ParticipantStatus string

const (
	ParticipantPending             ParticipantStatus = "PENDING"
	ParticipantAccepted            ParticipantStatus = "ACCEPTED"
	ParticipantDeclined            ParticipantStatus = "DECLINED"
	ParticipantCompleted           ParticipantStatus = "COMPLETED"
	ParticipantNoShow              ParticipantStatus = "NO_SHOW"
	ParticipantRescheduleRequested ParticipantStatus = "RESCHEDULE_REQUESTED"
)

func (s ParticipantStatus) IsTerminal() bool {
	return s == ParticipantDeclined || s == ParticipantCompleted || s == ParticipantNoShow
}

type Response string

const (
	ResponseAccept  Response = "ACCEPT"
	ResponseDecline Response = "DECLINE"
)

func ParseResponse(raw string) (Response, error) {
	r := Response(strings.ToUpper(strings.TrimSpace(raw)))
	if r != ResponseAccept && r != ResponseDecline {
		return "", errors.Wrapf(ErrInvalidResponse, "%q", raw)
	}
	return r, nil
}

type Interview struct {
	ID              uuid.UUID
	RecruiterID     uuid.UUID
	JobID           uuid.UUID
	JobTitle        string
	CompanyName     string
	Title           string
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int
	Meeting         Meeting
	Status          Status
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Participants []Participant
}

// Participant is one invited application. The jobseeker and application
// fields are read-only projections loaded alongside it.
type Participant struct {
	ID               uuid.UUID
	InterviewID      uuid.UUID
	ApplicationID    uuid.UUID
	Status           ParticipantStatus
	RespondedAt      *time.Time
	RescheduleReason string

	ApplicationStatus application.Status
	JobseekerID       uuid.UUID
	JobseekerName     string
	JobseekerEmail    string
}

func (i Interview) Participant(id uuid.UUID) (Participant, bool) {
	for _, p := range i.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (i Interview) ParticipantForJobseeker(jobseekerID uuid.UUID) (Participant, bool) {
	for _, p := range i.Participants {
		if p.JobseekerID == jobseekerID {
			return p, true
		}
	}
	return Participant{}, false
}

// ParticipantChange moves one participant from From to To. RespondedAt and
// RescheduleReason carry the values to store after the change.
type ParticipantChange struct {
	ParticipantID    uuid.UUID
	From             ParticipantStatus
	To               ParticipantStatus
	RespondedAt      *time.Time
	RescheduleReason string
	At               time.Time
}
