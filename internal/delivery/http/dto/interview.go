package dto

import (
	"time"

	"jobhub/internal/domain/application"
	"jobhub/internal/domain/interview"
	"jobhub/internal/usecase"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id")

type ScheduleInterviewRequest struct {
	Title           string    `json:"title" validate:"required,notblank,max=200"`
	Description     string    `json:"description" validate:"max=5000"`
	JobID           string    `json:"jobId" validate:"required,uuid"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	DurationMinutes int       `json:"duration" validate:"required,min=1"`
	MeetingType     string    `json:"meetingType" validate:"required"`
	MeetingURL      string    `json:"meetingUrl"`
	Location        string    `json:"location"`
	ApplicationIDs  []string  `json:"applicationIds" validate:"required,min=1,dive,uuid"`
}

func (r ScheduleInterviewRequest) ToInput() (usecase.ScheduleInput, error) {
	jobID, err := uuid.Parse(r.JobID)
	if err != nil {
		return usecase.ScheduleInput{}, errors.Wrap(ErrInvalidID, "jobId")
	}
	ids := make([]uuid.UUID, 0, len(r.ApplicationIDs))
	for _, raw := range r.ApplicationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return usecase.ScheduleInput{}, errors.Wrap(ErrInvalidID, "applicationIds")
		}
		ids = append(ids, id)
	}
	return usecase.ScheduleInput{
		Title:           r.Title,
		Description:     r.Description,
		JobID:           jobID,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		MeetingType:     r.MeetingType,
		MeetingURL:      r.MeetingURL,
		Location:        r.Location,
		ApplicationIDs:  ids,
	}, nil
}

type RescheduleInterviewRequest struct {
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"duration" validate:"omitempty,min=1"`
	MeetingType     string    `json:"meetingType"`
	MeetingURL      string    `json:"meetingUrl"`
	Location        string    `json:"location"`
	Description     *string   `json:"description,omitempty"`
}

func (r RescheduleInterviewRequest) ToInput() usecase.RescheduleInput {
	return usecase.RescheduleInput{
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		MeetingType:     r.MeetingType,
		MeetingURL:      r.MeetingURL,
		Location:        r.Location,
		Description:     r.Description,
	}
}

type RespondInterviewRequest struct {
	Response string `json:"response" validate:"required,oneof=ACCEPT DECLINE accept decline"`
}

type RequestRescheduleRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=1000"`
}

type CompleteInterviewRequest struct {
	ParticipantID string `json:"participantId" validate:"omitempty,uuid"`
}

// Participant returns nil when the whole interview is being completed.
func (r CompleteInterviewRequest) Participant() (*uuid.UUID, error) {
	if r.ParticipantID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(r.ParticipantID)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidID, "participantId")
	}
	return &id, nil
}

type MeetingResponse struct {
	Type     interview.MeetingType `json:"type"`
	URL      string                `json:"url,omitempty"`
	Location string                `json:"location,omitempty"`
}

type ParticipantResponse struct {
	ID                uuid.UUID                   `json:"id"`
	ApplicationID     uuid.UUID                   `json:"applicationId"`
	Status            interview.ParticipantStatus `json:"status"`
	RespondedAt       *time.Time                  `json:"respondedAt,omitempty"`
	RescheduleReason  string                      `json:"rescheduleReason,omitempty"`
	ApplicationStatus application.Status          `json:"applicationStatus,omitempty"`
	JobseekerID       uuid.UUID                   `json:"jobseekerId"`
	JobseekerName     string                      `json:"jobseekerName"`
	JobseekerEmail    string                      `json:"jobseekerEmail"`
}

func NewParticipantResponse(p interview.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:                p.ID,
		ApplicationID:     p.ApplicationID,
		Status:            p.Status,
		RespondedAt:       p.RespondedAt,
		RescheduleReason:  p.RescheduleReason,
		ApplicationStatus: p.ApplicationStatus,
		JobseekerID:       p.JobseekerID,
		JobseekerName:     p.JobseekerName,
		JobseekerEmail:    p.JobseekerEmail,
	}
}

type InterviewResponse struct {
	ID              uuid.UUID             `json:"id"`
	RecruiterID     uuid.UUID             `json:"recruiterId"`
	JobID           uuid.UUID             `json:"jobId"`
	JobTitle        string                `json:"jobTitle"`
	CompanyName     string                `json:"companyName"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	ScheduledAt     time.Time             `json:"scheduledAt"`
	DurationMinutes int                   `json:"duration"`
	Meeting         MeetingResponse       `json:"meeting"`
	Status          interview.Status      `json:"status"`
	CompletedAt     *time.Time            `json:"completedAt,omitempty"`
	CancelledAt     *time.Time            `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Participants    []ParticipantResponse `json:"participants"`
}

func NewInterviewResponse(iv interview.Interview) InterviewResponse {
	out := InterviewResponse{
		ID:              iv.ID,
		RecruiterID:     iv.RecruiterID,
		JobID:           iv.JobID,
		JobTitle:        iv.JobTitle,
		CompanyName:     iv.CompanyName,
		Title:           iv.Title,
		Description:     iv.Description,
		ScheduledAt:     iv.ScheduledAt,
		DurationMinutes: iv.DurationMinutes,
		Meeting: MeetingResponse{
			Type:     iv.Meeting.Type,
			URL:      iv.Meeting.URL,
			Location: iv.Meeting.Location,
		},
		Status:       iv.Status,
		CompletedAt:  iv.CompletedAt,
		CancelledAt:  iv.CancelledAt,
		CreatedAt:    iv.CreatedAt,
		UpdatedAt:    iv.UpdatedAt,
		Participants: make([]ParticipantResponse, 0, len(iv.Participants)),
	}
	for _, p := range iv.Participants {
		out.Participants = append(out.Participants, NewParticipantResponse(p))
	}
	return out
}

func NewInterviewList(items []interview.Interview) []InterviewResponse {
	out := make([]InterviewResponse, 0, len(items))
	for _, iv := range items {
		out = append(out, NewInterviewResponse(iv))
	}
	return out
}

type JoinResponse struct {
	InterviewID      uuid.UUID             `json:"interviewId"`
	State            interview.AccessState `json:"state"`
	CanJoin          bool                  `json:"canJoin"`
	OpensAt          time.Time             `json:"opensAt"`
	ClosesAt         time.Time             `json:"closesAt"`
	SecondsUntilOpen int64                 `json:"secondsUntilOpen"`
	Meeting          *MeetingResponse      `json:"meeting,omitempty"`
}

func NewJoinResponse(j usecase.JoinInfo) JoinResponse {
	out := JoinResponse{
		InterviewID:      j.InterviewID,
		State:            j.Access.State,
		CanJoin:          j.Access.CanJoin(),
		OpensAt:          j.Access.OpensAt,
		ClosesAt:         j.Access.ClosesAt,
		SecondsUntilOpen: j.Access.SecondsUntilOpen,
	}
	if j.Meeting != nil {
		out.Meeting = &MeetingResponse{Type: j.Meeting.Type, URL: j.Meeting.URL, Location: j.Meeting.Location}
	}
	return out
}
