package usecase

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")

	ErrProfileNotFound    = errors.New("jobseeker profile not found")
	ErrProfileIncomplete  = errors.New("profile must be at least 70% complete before applying")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyRequired    = errors.New("create your company profile first")
	ErrJobNotFound        = errors.New("job not found")
	ErrJobNotOpen         = errors.New("job is not open for applications")
	ErrApplicationMissing = errors.New("application not found")
	ErrDuplicate          = errors.New("you already have an active application for this job")
	ErrInterviewMissing   = errors.New("interview not found")
	ErrNotParticipant     = errors.New("you are not invited to this interview")
	ErrConflict           = errors.New("the record was changed by another request, reload and retry")
	ErrBusy               = errors.New("another request is processing this record")
	ErrJoinDenied         = errors.New("interview room is not available")

	ErrStorageUnavailable = errors.New("document storage is not configured")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file is too large")
	ErrDocumentMissing    = errors.New("document not uploaded")
)

// internalErr keeps err for logging while matching ErrInternal.
func internalErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrInternal)
}
