package company

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var (
	ErrNotActionable  = errors.New("company is not awaiting verification")
	ErrReasonRequired = errors.New("rejection reason is required")
	ErrInvalidStatus  = errors.New("invalid company status")
)

type Status string

const (
	StatusPendingVerification Status = "PENDING_VERIFICATION"
	StatusPendingResubmission Status = "PENDING_RESUBMISSION"
	StatusVerified            Status = "VERIFIED"
	StatusRejected            Status = "REJECTED"
)

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPendingVerification, StatusPendingResubmission, StatusVerified, StatusRejected:
		return s, nil
	default:
		return "", errors.Wrapf(ErrInvalidStatus, "%q", raw)
	}
}

// IsPending reports whether an admin may verify or reject from s.
func (s Status) IsPending() bool {
	return s == StatusPendingVerification || s == StatusPendingResubmission
}

type Company struct {
	ID          uuid.UUID
	RecruiterID uuid.UUID
	Name        string
	Description string
	Industry    string
	Website     string
	Address     string
	City        string
	LogoURL     string

	Status            Status
	Verified          bool
	VerifiedAt        *time.Time
	VerificationNotes string
	RejectionReason   string
	RejectedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Company) Verify(notes string, now time.Time) (Company, error) {
	if !c.Status.IsPending() {
		return Company{}, errors.Wrapf(ErrNotActionable, "status %s", c.Status)
	}
	at := now.UTC()
	c.Status = StatusVerified
	c.Verified = true
	c.VerifiedAt = &at
	c.VerificationNotes = strings.TrimSpace(notes)
	c.RejectionReason = ""
	c.RejectedAt = nil
	c.UpdatedAt = at
	return c, nil
}

func (c Company) Reject(reason string, now time.Time) (Company, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Company{}, ErrReasonRequired
	}
	if !c.Status.IsPending() {
		return Company{}, errors.Wrapf(ErrNotActionable, "status %s", c.Status)
	}
	at := now.UTC()
	c.Status = StatusRejected
	c.Verified = false
	c.VerifiedAt = nil
	c.RejectionReason = reason
	c.RejectedAt = &at
	c.UpdatedAt = at
	return c, nil
}

// Resubmit returns a rejected company to the admin queue after the recruiter edits it.
func (c Company) Resubmit(now time.Time) Company {
	if c.Status != StatusRejected {
		return c
	}
	c.Status = StatusPendingResubmission
	c.RejectionReason = ""
	c.RejectedAt = nil
	c.UpdatedAt = now.UTC()
	return c
}
