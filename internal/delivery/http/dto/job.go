package dto

import (
	"time"

	"jobhub/internal/domain/job"
	"jobhub/internal/usecase"

	"github.com/google/uuid"
)

type JobRequest struct {
	Title        string `json:"title" validate:"required,notblank,max=200"`
	Description  string `json:"description" validate:"required,notblank"`
	Requirements string `json:"requirements"`
	Location     string `json:"location" validate:"max=200"`
	SalaryMin    *int64 `json:"salaryMin,omitempty" validate:"omitempty,min=0"`
	SalaryMax    *int64 `json:"salaryMax,omitempty" validate:"omitempty,min=0"`
	Type         string `json:"type" validate:"required"`
	Level        string `json:"level" validate:"required"`
}

func (r JobRequest) ToInput() usecase.JobInput {
	return usecase.JobInput{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		SalaryMin:    r.SalaryMin,
		SalaryMax:    r.SalaryMax,
		Type:         r.Type,
		Level:        r.Level,
	}
}

type JobResponse struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"companyId"`
	CompanyName  string    `json:"companyName"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	SalaryMin    *int64    `json:"salaryMin,omitempty"`
	SalaryMax    *int64    `json:"salaryMax,omitempty"`
	Type         job.Type  `json:"type"`
	Level        job.Level `json:"level"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:           j.ID,
		CompanyID:    j.CompanyID,
		CompanyName:  j.CompanyName,
		Title:        j.Title,
		Description:  j.Description,
		Requirements: j.Requirements,
		Location:     j.Location,
		SalaryMin:    j.SalaryMin,
		SalaryMax:    j.SalaryMax,
		Type:         j.Type,
		Level:        j.Level,
		IsActive:     j.IsActive,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func NewJobList(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}
