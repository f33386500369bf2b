package job

import (
	"strings"
	"time"

	"jobhub/internal/domain/company"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	ErrInvalidType        = errors.New("invalid job type")
	ErrInvalidLevel       = errors.New("invalid job level")
	ErrInvalidSalaryRange = errors.New("salary min must not exceed salary max")
	ErrTitleRequired      = errors.New("job title is required")
)

type Type string

const (
	TypeFullTime   Type = "FULL_TIME"
	TypePartTime   Type = "PART_TIME"
	TypeContract   Type = "CONTRACT"
	TypeInternship Type = "INTERNSHIP"
	TypeFreelance  Type = "FREELANCE"
)

func ParseType(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship, TypeFreelance:
		return t, nil
	default:
		return "", errors.Wrapf(ErrInvalidType, "%q", raw)
	}
}

type Level string

const (
	LevelEntry  Level = "ENTRY"
	LevelJunior Level = "JUNIOR"
	LevelMid    Level = "MID"
	LevelSenior Level = "SENIOR"
	LevelLead   Level = "LEAD"
)

func ParseLevel(raw string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(raw)))
	switch l {
	case LevelEntry, LevelJunior, LevelMid, LevelSenior, LevelLead:
		return l, nil
	default:
		return "", errors.Wrapf(ErrInvalidLevel, "%q", raw)
	}
}

type Job struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	Title        string
	Description  string
	Requirements string
	Location     string
	SalaryMin    *int64
	SalaryMax    *int64
	Type         Type
	Level        Level
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CompanyName   string
	CompanyStatus company.Status
	RecruiterID   uuid.UUID
}

func (j Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return ErrTitleRequired
	}
	if _, err := ParseType(string(j.Type)); err != nil {
		return err
	}
	if _, err := ParseLevel(string(j.Level)); err != nil {
		return err
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return ErrInvalidSalaryRange
	}
	if (j.SalaryMin != nil && *j.SalaryMin < 0) || (j.SalaryMax != nil && *j.SalaryMax < 0) {
		return ErrInvalidSalaryRange
	}
	return nil
}

// IsOpen reports whether jobseekers can see and apply to the job.
func (j Job) IsOpen() bool {
	return j.IsActive && j.CompanyStatus == company.StatusVerified
}
