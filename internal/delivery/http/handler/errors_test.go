package handler

import (
	"testing"

	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/company"
	"jobhub/internal/domain/interview"
	"jobhub/internal/pkg/validation"
	"jobhub/internal/repository"
	"jobhub/internal/usecase"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appErr(t *testing.T, err error) *middleware.AppError {
	t.Helper()
	var out *middleware.AppError
	require.True(t, errors.As(err, &out), "want *AppError, got %T", err)
	return out
}

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not participant", usecase.ErrNotParticipant, fiber.StatusForbidden},
		{"busy lock", usecase.ErrBusy, fiber.StatusConflict},
		{"stale write", usecase.ErrConflict, fiber.StatusConflict},
		{"not actionable", errors.Wrapf(company.ErrNotActionable, "status %s", company.StatusVerified), fiber.StatusConflict},
		{"reason marked invalid", errors.Mark(company.ErrReasonRequired, usecase.ErrInvalidInput), fiber.StatusBadRequest},
		{"participant missing", interview.ErrParticipantNotFound, fiber.StatusNotFound},
		{"interview closed", interview.ErrInterviewClosed, fiber.StatusConflict},
		{"repository miss", repository.ErrInterviewNotFound, fiber.StatusNotFound},
		{"storage", usecase.ErrStorageUnavailable, fiber.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, appErr(t, mapError(tc.err)).StatusCode)
		})
	}
}

func TestMapErrorKeepsFieldInInvalidInput(t *testing.T) {
	got := appErr(t, mapError(errors.Wrap(usecase.ErrInvalidInput, "title")))

	assert.Equal(t, fiber.StatusBadRequest, got.StatusCode)
	assert.Equal(t, "Title: invalid input", got.Message)
}

func TestMapErrorValidationDetails(t *testing.T) {
	err := validation.Struct(dto.RejectCompanyRequest{Reason: "   "})
	require.Error(t, err)

	got := appErr(t, mapError(err))

	assert.Equal(t, fiber.StatusBadRequest, got.StatusCode)
	assert.Equal(t, "notblank", got.Details["reason"])
}

func TestMapErrorPassesAppErrorThrough(t *testing.T) {
	in := middleware.NewAppError(fiber.StatusTeapot, "short and stout", nil, nil)

	assert.Same(t, in, mapError(in))
	assert.Nil(t, mapError(nil))
}
