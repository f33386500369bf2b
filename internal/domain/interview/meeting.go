package interview

import (
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

var (
	ErrMeetingURLRequired = errors.New("meeting url is required for online interviews")
	ErrInvalidMeetingURL  = errors.New("meeting url must be an http(s) url")
	ErrLocationRequired   = errors.New("location is required for in-person interviews")
	ErrInvalidDuration    = errors.New("invalid interview duration")
	ErrScheduleInPast     = errors.New("interview must be scheduled in the future")
)

type Meeting struct {
	Type     MeetingType
	URL      string
	Location string
}

// Normalize trims input and drops the field the meeting type does not use.
func (m Meeting) Normalize() Meeting {
	m.URL = strings.TrimSpace(m.URL)
	m.Location = strings.TrimSpace(m.Location)
	if m.Type.IsOnline() {
		m.Location = ""
	} else {
		m.URL = ""
	}
	return m
}

func (m Meeting) Validate() error {
	switch {
	case m.Type.IsOnline():
		raw := strings.TrimSpace(m.URL)
		if raw == "" {
			return ErrMeetingURLRequired
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidMeetingURL
		}
		return nil
	case m.Type == MeetingInPerson:
		if strings.TrimSpace(m.Location) == "" {
			return ErrLocationRequired
		}
		return nil
	default:
		return ErrInvalidMeetingType
	}
}

// Schedule is the recruiter-editable part of an interview.
type Schedule struct {
	ScheduledAt     time.Time
	DurationMinutes int
	Meeting         Meeting
	Description     string
}

func (s Schedule) Validate(now time.Time) error {
	if !s.ScheduledAt.After(now) {
		return ErrScheduleInPast
	}
	return s.validateDetails()
}

// validateDetails checks everything but the start time.
func (s Schedule) validateDetails() error {
	if s.DurationMinutes < MinDurationMinutes || s.DurationMinutes > MaxDurationMinutes {
		return ErrInvalidDuration
	}
	return s.Meeting.Validate()
}
