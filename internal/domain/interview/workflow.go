package interview

import (
	"strings"
	"time"

	"jobhub/internal/domain/application"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const (
	JoinLeadTime    = 15 * time.Minute
	JoinGracePeriod = 60 * time.Minute
)

var (
	ErrTooEarly                = errors.New("interview cannot be completed before its scheduled time")
	ErrInterviewClosed         = errors.New("interview is already completed or cancelled")
	ErrAlreadyResponded        = errors.New("invitation has already been answered")
	ErrInvalidParticipantState = errors.New("participant status does not allow this action")
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrNothingToComplete       = errors.New("interview has no participant left to complete")
)

type AccessState string

const (
	AccessUpcoming AccessState = "UPCOMING"
	AccessOpen     AccessState = "OPEN"
	AccessPast     AccessState = "PAST"
)

type Access struct {
	State            AccessState
	OpensAt          time.Time
	ClosesAt         time.Time
	SecondsUntilOpen int64
}

func (a Access) CanJoin() bool {
	return a.State == AccessOpen
}

// AccessAt evaluates the join window: open from JoinLeadTime before the start
// until JoinGracePeriod after it, both ends inclusive.
func (i Interview) AccessAt(now time.Time) Access {
	opens := i.ScheduledAt.Add(-JoinLeadTime)
	closes := i.ScheduledAt.Add(JoinGracePeriod)
	a := Access{OpensAt: opens, ClosesAt: closes}

	switch {
	case now.Before(opens):
		a.State = AccessUpcoming
		secs := opens.Sub(now) / time.Second
		if opens.Sub(now)%time.Second != 0 {
			secs++
		}
		a.SecondsUntilOpen = int64(secs)
	case now.After(closes):
		a.State = AccessPast
	default:
		a.State = AccessOpen
	}
	return a
}

// Respond answers a PENDING invitation. It can be done once.
func (p Participant) Respond(r Response, now time.Time) (ParticipantChange, error) {
	if p.Status != ParticipantPending {
		return ParticipantChange{}, ErrAlreadyResponded
	}
	to := ParticipantAccepted
	switch r {
	case ResponseAccept:
	case ResponseDecline:
		to = ParticipantDeclined
	default:
		return ParticipantChange{}, ErrInvalidResponse
	}
	at := now.UTC()
	return ParticipantChange{
		ParticipantID:    p.ID,
		From:             p.Status,
		To:               to,
		RespondedAt:      &at,
		RescheduleReason: p.RescheduleReason,
		At:               at,
	}, nil
}

func (p Participant) RequestReschedule(reason string, now time.Time) (ParticipantChange, error) {
	if p.Status != ParticipantPending && p.Status != ParticipantAccepted {
		return ParticipantChange{}, ErrInvalidParticipantState
	}
	at := now.UTC()
	return ParticipantChange{
		ParticipantID:    p.ID,
		From:             p.Status,
		To:               ParticipantRescheduleRequested,
		RespondedAt:      &at,
		RescheduleReason: strings.TrimSpace(reason),
		At:               at,
	}, nil
}

// MarkNoShow records an absent participant once the start time has passed.
// Unlike completion it is still allowed on a COMPLETED interview, so a
// recruiter can correct attendance afterwards; only cancellation closes it.
func (i Interview) MarkNoShow(participantID uuid.UUID, now time.Time) (ParticipantChange, error) {
	if i.Status == StatusCancelled {
		return ParticipantChange{}, ErrInterviewClosed
	}
	if now.Before(i.ScheduledAt) {
		return ParticipantChange{}, ErrTooEarly
	}
	p, ok := i.Participant(participantID)
	if !ok {
		return ParticipantChange{}, ErrParticipantNotFound
	}
	if p.Status.IsTerminal() {
		return ParticipantChange{}, ErrInvalidParticipantState
	}
	return ParticipantChange{
		ParticipantID:    p.ID,
		From:             p.Status,
		To:               ParticipantNoShow,
		RespondedAt:      p.RespondedAt,
		RescheduleReason: p.RescheduleReason,
		At:               now.UTC(),
	}, nil
}

func (i Interview) CanComplete(now time.Time) error {
	if i.Status.IsClosed() {
		return ErrInterviewClosed
	}
	if now.Before(i.ScheduledAt) {
		return ErrTooEarly
	}
	return nil
}

type CompletionPlan struct {
	InterviewID       uuid.UUID
	CompleteInterview bool
	Participants      []ParticipantChange
	Applications      []application.StatusChange
	At                time.Time
}

// PlanCompletion completes either one participant or, when participantID is
// nil, every participant still in play. Terminal participants and
// participants whose application already ended are left untouched.
func (i Interview) PlanCompletion(participantID *uuid.UUID, actorID uuid.UUID, now time.Time) (CompletionPlan, error) {
	if err := i.CanComplete(now); err != nil {
		return CompletionPlan{}, err
	}

	at := now.UTC()
	plan := CompletionPlan{InterviewID: i.ID, CompleteInterview: participantID == nil, At: at}

	candidates := i.Participants
	if participantID != nil {
		p, ok := i.Participant(*participantID)
		if !ok {
			return CompletionPlan{}, ErrParticipantNotFound
		}
		if p.Status.IsTerminal() || p.ApplicationStatus.IsTerminal() {
			return CompletionPlan{}, ErrInvalidParticipantState
		}
		candidates = []Participant{p}
	}

	for _, p := range candidates {
		if p.Status.IsTerminal() || p.ApplicationStatus.IsTerminal() {
			continue
		}
		plan.Participants = append(plan.Participants, ParticipantChange{
			ParticipantID:    p.ID,
			From:             p.Status,
			To:               ParticipantCompleted,
			RespondedAt:      p.RespondedAt,
			RescheduleReason: p.RescheduleReason,
			At:               at,
		})
		if application.CanTransition(p.ApplicationStatus, application.StatusInterviewCompleted) {
			ch, err := application.NewStatusChange(p.ApplicationID, p.ApplicationStatus, application.StatusInterviewCompleted, &actorID, "", at)
			if err != nil {
				return CompletionPlan{}, err
			}
			plan.Applications = append(plan.Applications, ch)
		}
	}

	if !plan.CompleteInterview && len(plan.Participants) == 0 {
		return CompletionPlan{}, ErrNothingToComplete
	}
	return plan, nil
}

type CancellationPlan struct {
	InterviewID  uuid.UUID
	Applications []application.StatusChange
	At           time.Time
}

// PlanCancellation rejects every linked application that has not ended yet.
func (i Interview) PlanCancellation(actorID uuid.UUID, now time.Time) (CancellationPlan, error) {
	if i.Status.IsClosed() {
		return CancellationPlan{}, ErrInterviewClosed
	}
	at := now.UTC()
	plan := CancellationPlan{InterviewID: i.ID, At: at}
	for _, p := range i.Participants {
		if p.ApplicationStatus.IsTerminal() {
			continue
		}
		ch, err := application.NewStatusChange(p.ApplicationID, p.ApplicationStatus, application.StatusRejected, &actorID, application.CancellationNote, at)
		if err != nil {
			return CancellationPlan{}, err
		}
		plan.Applications = append(plan.Applications, ch)
	}
	return plan, nil
}

// Reschedule applies s and asks every participant who had confirmed, or had
// asked for a new time, to confirm again.
func (i Interview) Reschedule(s Schedule, now time.Time) (Interview, []ParticipantChange, error) {
	if i.Status.IsClosed() {
		return Interview{}, nil, ErrInterviewClosed
	}
	s.Meeting = s.Meeting.Normalize()
	// An unchanged start time may already have passed; only a new one must lie ahead.
	check := s.validateDetails
	if !s.ScheduledAt.Equal(i.ScheduledAt) {
		check = func() error { return s.Validate(now) }
	}
	if err := check(); err != nil {
		return Interview{}, nil, err
	}

	at := now.UTC()
	out := i
	out.ScheduledAt = s.ScheduledAt.UTC()
	out.DurationMinutes = s.DurationMinutes
	out.Meeting = s.Meeting
	out.Description = strings.TrimSpace(s.Description)
	out.Status = StatusRescheduled
	out.UpdatedAt = at

	var changes []ParticipantChange
	out.Participants = make([]Participant, 0, len(i.Participants))
	for _, p := range i.Participants {
		if p.Status == ParticipantAccepted || p.Status == ParticipantRescheduleRequested {
			changes = append(changes, ParticipantChange{
				ParticipantID: p.ID,
				From:          p.Status,
				To:            ParticipantPending,
				At:            at,
			})
			p.Status = ParticipantPending
			p.RespondedAt = nil
			p.RescheduleReason = ""
		}
		out.Participants = append(out.Participants, p)
	}
	return out, changes, nil
}
