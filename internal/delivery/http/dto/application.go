package dto

import (
	"time"

	"jobhub/internal/domain/application"
	"jobhub/internal/notification"
	"jobhub/internal/repository"
	"jobhub/internal/usecase"

	"github.com/google/uuid"
)

type ApplyRequest struct {
	JobID       string `json:"jobId" validate:"required,uuid"`
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type StatusUpdateRequest struct {
	Status    string `json:"status" validate:"required"`
	Message   string `json:"message" validate:"max=2000"`
	NextSteps string `json:"nextSteps" validate:"max=2000"`
}

func (r StatusUpdateRequest) ToInput() usecase.StatusUpdateInput {
	return usecase.StatusUpdateInput{Status: r.Status, Message: r.Message, NextSteps: r.NextSteps}
}

type ApplicantResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	Completeness int       `json:"profileCompleteness"`
}

type ApplicationResponse struct {
	ID            uuid.UUID          `json:"id"`
	JobID         uuid.UUID          `json:"jobId"`
	JobTitle      string             `json:"jobTitle"`
	CompanyID     uuid.UUID          `json:"companyId"`
	CompanyName   string             `json:"companyName"`
	Status        application.Status `json:"status"`
	CoverLetter   string             `json:"coverLetter"`
	RecruiterNote string             `json:"recruiterNote,omitempty"`
	AppliedAt     time.Time          `json:"appliedAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	DecidedAt     *time.Time         `json:"decidedAt,omitempty"`
	WithdrawnAt   *time.Time         `json:"withdrawnAt,omitempty"`
	Applicant     ApplicantResponse  `json:"applicant"`
}

func NewApplicationResponse(v repository.ApplicationView) ApplicationResponse {
	return ApplicationResponse{
		ID:            v.ID,
		JobID:         v.JobID,
		JobTitle:      v.JobTitle,
		CompanyID:     v.CompanyID,
		CompanyName:   v.CompanyName,
		Status:        v.Status,
		CoverLetter:   v.CoverLetter,
		RecruiterNote: v.RecruiterNote,
		AppliedAt:     v.AppliedAt,
		UpdatedAt:     v.UpdatedAt,
		DecidedAt:     v.DecidedAt,
		WithdrawnAt:   v.WithdrawnAt,
		Applicant: ApplicantResponse{
			ID:           v.JobseekerID,
			Email:        v.JobseekerEmail,
			Name:         v.JobseekerName(),
			Phone:        v.JobseekerPhone,
			City:         v.JobseekerCity,
			Completeness: v.ProfileCompleteness,
		},
	}
}

func NewApplicationList(items []repository.ApplicationView) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, v := range items {
		out = append(out, NewApplicationResponse(v))
	}
	return out
}

type HistoryResponse struct {
	FromStatus application.Status `json:"fromStatus,omitempty"`
	ToStatus   application.Status `json:"toStatus"`
	ActorID    *uuid.UUID         `json:"actorId,omitempty"`
	Note       string             `json:"note,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type ApplicationDetailResponse struct {
	ApplicationResponse
	History []HistoryResponse `json:"history"`
}

func NewApplicationDetailResponse(d usecase.ApplicationDetail) ApplicationDetailResponse {
	out := ApplicationDetailResponse{
		ApplicationResponse: NewApplicationResponse(d.Application),
		History:             make([]HistoryResponse, 0, len(d.History)),
	}
	for _, h := range d.History {
		out.History = append(out.History, HistoryResponse{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ActorID:    h.ActorID,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return out
}

type StatusUpdateResponse struct {
	Application  ApplicationResponse  `json:"application"`
	Notification *notification.Result `json:"notification,omitempty"`
}

func NewStatusUpdateResponse(r usecase.StatusUpdateResult) StatusUpdateResponse {
	return StatusUpdateResponse{
		Application:  NewApplicationResponse(r.Application),
		Notification: r.Notification,
	}
}
