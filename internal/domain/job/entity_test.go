package job

import (
	"testing"

	"jobhub/internal/domain/company"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestValidate(t *testing.T) {
	base := Job{Title: "Backend Engineer", Type: TypeFullTime, Level: LevelMid}
	assert.NoError(t, base.Validate())

	j := base
	j.Title = " "
	assert.ErrorIs(t, j.Validate(), ErrTitleRequired)

	j = base
	j.Type = "GIG"
	assert.ErrorIs(t, j.Validate(), ErrInvalidType)

	j = base
	j.SalaryMin, j.SalaryMax = ptr(10_000_000), ptr(8_000_000)
	assert.ErrorIs(t, j.Validate(), ErrInvalidSalaryRange)

	j.SalaryMax = ptr(12_000_000)
	assert.NoError(t, j.Validate())
}

func TestIsOpen(t *testing.T) {
	assert.True(t, Job{IsActive: true, CompanyStatus: company.StatusVerified}.IsOpen())
	assert.False(t, Job{IsActive: false, CompanyStatus: company.StatusVerified}.IsOpen())
	assert.False(t, Job{IsActive: true, CompanyStatus: company.StatusPendingResubmission}.IsOpen())
}
