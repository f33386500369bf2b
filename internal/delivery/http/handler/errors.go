package handler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/application"
	"jobhub/internal/domain/company"
	"jobhub/internal/domain/interview"
	"jobhub/internal/domain/job"
	"jobhub/internal/domain/profile"
	"jobhub/internal/domain/user"
	"jobhub/internal/pkg/response"
	"jobhub/internal/pkg/validation"
	"jobhub/internal/repository"
	"jobhub/internal/usecase"
	ucauth "jobhub/internal/usecase/auth"
	ucuser "jobhub/internal/usecase/user"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v3"
)

type errorRule struct {
	target error
	status int
}

// errorRules is checked in order. The first match decides the status.
var errorRules = []errorRule{
	{usecase.ErrUnauthorized, fiber.StatusUnauthorized},
	{usecase.ErrInvalidRefreshToken, fiber.StatusUnauthorized},
	{usecase.ErrRefreshTokenExpired, fiber.StatusUnauthorized},
	{ucauth.ErrInvalidCredentials, fiber.StatusUnauthorized},

	{usecase.ErrForbidden, fiber.StatusForbidden},
	{usecase.ErrNotParticipant, fiber.StatusForbidden},
	{usecase.ErrJoinDenied, fiber.StatusForbidden},
	{ucauth.ErrRoleNotAllowed, fiber.StatusForbidden},

	{usecase.ErrProfileNotFound, fiber.StatusNotFound},
	{usecase.ErrCompanyNotFound, fiber.StatusNotFound},
	{usecase.ErrJobNotFound, fiber.StatusNotFound},
	{usecase.ErrApplicationMissing, fiber.StatusNotFound},
	{usecase.ErrInterviewMissing, fiber.StatusNotFound},
	{usecase.ErrDocumentMissing, fiber.StatusNotFound},
	{interview.ErrParticipantNotFound, fiber.StatusNotFound},
	{ucuser.ErrAccountNotFound, fiber.StatusNotFound},
	{user.ErrNotFound, fiber.StatusNotFound},
	{repository.ErrProfileNotFound, fiber.StatusNotFound},
	{repository.ErrCompanyNotFound, fiber.StatusNotFound},
	{repository.ErrJobNotFound, fiber.StatusNotFound},
	{repository.ErrApplicationNotFound, fiber.StatusNotFound},
	{repository.ErrInterviewNotFound, fiber.StatusNotFound},

	{usecase.ErrDuplicate, fiber.StatusConflict},
	{usecase.ErrConflict, fiber.StatusConflict},
	{usecase.ErrBusy, fiber.StatusConflict},
	{usecase.ErrCompanyRequired, fiber.StatusConflict},
	{usecase.ErrJobNotOpen, fiber.StatusConflict},
	{application.ErrInvalidTransition, fiber.StatusConflict},
	{interview.ErrTooEarly, fiber.StatusConflict},
	{interview.ErrInterviewClosed, fiber.StatusConflict},
	{interview.ErrAlreadyResponded, fiber.StatusConflict},
	{interview.ErrInvalidParticipantState, fiber.StatusConflict},
	{interview.ErrNothingToComplete, fiber.StatusConflict},
	{company.ErrNotActionable, fiber.StatusConflict},
	{ucauth.ErrEmailAlreadyRegistered, fiber.StatusConflict},
	{repository.ErrEmailTaken, fiber.StatusConflict},
	{repository.ErrDuplicateApplication, fiber.StatusConflict},
	{repository.ErrStaleState, fiber.StatusConflict},

	{usecase.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
	{usecase.ErrStorageUnavailable, fiber.StatusServiceUnavailable},

	{usecase.ErrProfileIncomplete, fiber.StatusBadRequest},
	{usecase.ErrUnsupportedFile, fiber.StatusBadRequest},
	{application.ErrInvalidStatus, fiber.StatusBadRequest},
	{company.ErrReasonRequired, fiber.StatusBadRequest},
	{company.ErrInvalidStatus, fiber.StatusBadRequest},
	{profile.ErrUnknownDocumentKind, fiber.StatusBadRequest},
	{job.ErrInvalidType, fiber.StatusBadRequest},
	{job.ErrInvalidLevel, fiber.StatusBadRequest},
	{job.ErrInvalidSalaryRange, fiber.StatusBadRequest},
	{job.ErrTitleRequired, fiber.StatusBadRequest},
	{interview.ErrInvalidMeetingType, fiber.StatusBadRequest},
	{interview.ErrInvalidResponse, fiber.StatusBadRequest},
	{interview.ErrMeetingURLRequired, fiber.StatusBadRequest},
	{interview.ErrInvalidMeetingURL, fiber.StatusBadRequest},
	{interview.ErrLocationRequired, fiber.StatusBadRequest},
	{interview.ErrInvalidDuration, fiber.StatusBadRequest},
	{interview.ErrScheduleInPast, fiber.StatusBadRequest},
	{ucuser.ErrWrongPassword, fiber.StatusBadRequest},
	{dto.ErrInvalidDate, fiber.StatusBadRequest},
	{dto.ErrInvalidID, fiber.StatusBadRequest},
	{usecase.ErrInvalidInput, fiber.StatusBadRequest},
	{ucauth.ErrInvalidInput, fiber.StatusBadRequest},
	{ucuser.ErrInvalidInput, fiber.StatusBadRequest},
}

// mapError turns a usecase error into an AppError. Anything unrecognised is
// a 500 whose cause is logged but never shown.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *middleware.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if details := validation.Details(err); details != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", details, err)
	}
	for _, r := range errorRules {
		if errors.Is(err, r.target) {
			msg := sentence(r.target.Error())
			if isVerbose(r.target) {
				msg = sentence(err.Error())
			}
			return middleware.NewAppError(r.status, msg, nil, err)
		}
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

// verboseErrors carry the offending field in their wrapped text, so the full
// message is shown instead of the sentinel's.
var verboseErrors = []error{
	dto.ErrInvalidDate,
	dto.ErrInvalidID,
	usecase.ErrInvalidInput,
	ucauth.ErrInvalidInput,
	ucuser.ErrInvalidInput,
}

func isVerbose(target error) bool {
	for _, v := range verboseErrors {
		if v == target {
			return true
		}
	}
	return false
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
