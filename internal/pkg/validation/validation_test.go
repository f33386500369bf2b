package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rejectRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

type scheduleRequest struct {
	Title          string   `json:"title" validate:"required"`
	Duration       int      `json:"duration" validate:"min=15,max=480"`
	ApplicationIDs []string `json:"applicationIds" validate:"min=1,unique,dive,uuid"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(scheduleRequest{Duration: 5, ApplicationIDs: []string{"x"}})
	require.Error(t, err)

	d := Details(err)
	assert.Equal(t, "required", d["title"])
	assert.Equal(t, "min=15", d["duration"])
	assert.Equal(t, "uuid", d["applicationIds[0]"])
}

func TestStruct_NotBlank(t *testing.T) {
	err := Struct(rejectRequest{Reason: "   "})
	require.Error(t, err)
	assert.Equal(t, "notblank", Details(err)["reason"])

	assert.NoError(t, Struct(rejectRequest{Reason: "NPWP tidak valid"}))
}

func TestDetails_NonValidationError(t *testing.T) {
	assert.Nil(t, Details(assert.AnError))
}
