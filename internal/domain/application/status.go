package application

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("invalid application status transition")
)

type Status string

const (
	StatusPending            Status = "PENDING"
	StatusReviewing          Status = "REVIEWING"
	StatusShortlisted        Status = "SHORTLISTED"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusInterviewCompleted Status = "INTERVIEW_COMPLETED"
	StatusAccepted           Status = "ACCEPTED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
)

// forward holds the happy-path edges. REJECTED and WITHDRAWN are reachable
// from every non-terminal status and are not listed here.
var forward = map[Status][]Status{
	StatusPending:            {StatusReviewing},
	StatusReviewing:          {StatusShortlisted},
	StatusShortlisted:        {StatusInterviewScheduled},
	StatusInterviewScheduled: {StatusInterviewCompleted},
	StatusInterviewCompleted: {StatusAccepted},
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", errors.Wrapf(ErrInvalidStatus, "%q", raw)
	}
	return s, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusShortlisted, StatusInterviewScheduled,
		StatusInterviewCompleted, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// IsDecision reports whether s is a final recruiter decision that is mailed to the jobseeker.
func (s Status) IsDecision() bool {
	return s == StatusAccepted || s == StatusRejected
}

func CanTransition(from, to Status) bool {
	if !from.IsValid() || !to.IsValid() || from.IsTerminal() || from == to {
		return false
	}
	if to == StatusRejected || to == StatusWithdrawn {
		return true
	}
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RecruiterSettable lists the targets accepted from a recruiter status update.
// Interview statuses are driven by the interview workflow and withdrawal by the jobseeker.
func RecruiterSettable(to Status) bool {
	switch to {
	case StatusReviewing, StatusShortlisted, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

func ValidateTransition(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	return errors.Wrapf(ErrInvalidTransition, "%s -> %s", from, to)
}
