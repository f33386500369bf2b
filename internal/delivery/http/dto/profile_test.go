package dto

import (
	"testing"
	"time"

	"jobhub/internal/domain/profile"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRequestToInput(t *testing.T) {
	gpa := 3.6
	req := ProfileRequest{
		FirstName:   "Sari",
		DateOfBirth: "1999-04-12",
		Gender:      "female",
		Educations: []EducationItem{
			{Level: "s1", Institution: "Universitas Indonesia", StartYear: 2017, GPA: &gpa},
		},
		Experiences: []ExperienceItem{
			{CompanyName: "PT Maju", Position: "Staff", StartDate: "2021-02-01"},
		},
		Certifications: []CertificationItem{
			{Name: "AWS Cloud Practitioner", IssuedAt: "2023-06-30"},
		},
	}

	in, err := req.ToInput()
	require.NoError(t, err)

	require.NotNil(t, in.DateOfBirth)
	assert.Equal(t, time.Date(1999, 4, 12, 0, 0, 0, 0, time.UTC), *in.DateOfBirth)
	require.Len(t, in.Educations, 1)
	assert.Equal(t, profile.EducationLevel("S1"), in.Educations[0].Level)
	require.Len(t, in.Experiences, 1)
	assert.Equal(t, 2021, in.Experiences[0].StartDate.Year())
	assert.Nil(t, in.Experiences[0].EndDate)
	require.Len(t, in.Certifications, 1)
	assert.Nil(t, in.Certifications[0].ExpiresAt)
}

func TestProfileRequestRejectsBadDate(t *testing.T) {
	_, err := ProfileRequest{DateOfBirth: "12/04/1999"}.ToInput()

	assert.True(t, errors.Is(err, ErrInvalidDate))
	assert.Contains(t, err.Error(), "dateOfBirth")
}

func TestProfileResponseFormatsDates(t *testing.T) {
	dob := time.Date(1999, 4, 12, 0, 0, 0, 0, time.UTC)
	out := NewProfileResponse(profile.Jobseeker{
		DateOfBirth: &dob,
		Experiences: []profile.WorkExperience{{CompanyName: "PT Maju", StartDate: dob}},
	})

	assert.Equal(t, "1999-04-12", out.DateOfBirth)
	assert.Equal(t, "1999-04-12", out.Experiences[0].StartDate)
	assert.Empty(t, out.Experiences[0].EndDate)
	assert.NotNil(t, out.Skills)
	assert.NotNil(t, out.Certifications)
}
