package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"jobhub/internal/domain/application"
	"jobhub/internal/domain/user"
	"jobhub/internal/export"
	"jobhub/internal/notification"
	"jobhub/internal/pkg/logger"
	"jobhub/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventApplicationReceived = "application_received"

type StatusUpdateInput struct {
	Status    string
	Message   string
	NextSteps string
}

type StatusUpdateResult struct {
	Application  repository.ApplicationView
	Notification *notification.Result
}

type ApplicationDetail struct {
	Application repository.ApplicationView
	History     []application.HistoryEntry
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, jobseekerID, jobID uuid.UUID, coverLetter string) (repository.ApplicationView, error)
	Withdraw(ctx context.Context, jobseekerID, applicationID uuid.UUID) (repository.ApplicationView, error)
	ListMine(ctx context.Context, jobseekerID uuid.UUID) ([]repository.ApplicationView, error)
	ListForJob(ctx context.Context, recruiterID, jobID uuid.UUID, status string) ([]repository.ApplicationView, error)
	Get(ctx context.Context, actor Actor, applicationID uuid.UUID) (ApplicationDetail, error)
	UpdateStatus(ctx context.Context, recruiterID, applicationID uuid.UUID, in StatusUpdateInput) (StatusUpdateResult, error)
	ExportApplicants(ctx context.Context, recruiterID, jobID uuid.UUID, w io.Writer) error
}

type Applications struct {
	apps     repository.ApplicationRepository
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	notifier Notifier
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewApplicationUsecase(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	notifier Notifier,
	events EventPublisher,
	l *zap.Logger,
) *Applications {
	return &Applications{
		apps:     apps,
		jobs:     jobs,
		profiles: profiles,
		notifier: notifier,
		events:   events,
		logger:   logger.OrNop(l),
		now:      time.Now,
	}
}

// Apply requires a completed profile, an open job and no active application
// for the same job.
func (u *Applications) Apply(ctx context.Context, jobseekerID, jobID uuid.UUID, coverLetter string) (repository.ApplicationView, error) {
	p, err := u.profiles.GetProfile(ctx, jobseekerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return repository.ApplicationView{}, ErrProfileIncomplete
		}
		return repository.ApplicationView{}, internalErr(err)
	}
	if !p.Completed {
		return repository.ApplicationView{}, ErrProfileIncomplete
	}

	j, err := u.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return repository.ApplicationView{}, ErrJobNotFound
		}
		return repository.ApplicationView{}, internalErr(err)
	}
	if !j.IsOpen() {
		return repository.ApplicationView{}, ErrJobNotOpen
	}

	active, err := u.apps.HasActiveApplication(ctx, jobseekerID, jobID)
	if err != nil {
		return repository.ApplicationView{}, internalErr(err)
	}
	if active {
		return repository.ApplicationView{}, ErrDuplicate
	}

	now := u.now().UTC()
	a := application.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		JobseekerID: jobseekerID,
		Status:      application.StatusPending,
		CoverLetter: strings.TrimSpace(coverLetter),
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.apps.CreateApplication(ctx, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateApplication):
			return repository.ApplicationView{}, ErrDuplicate
		case errors.Is(err, repository.ErrJobNotFound):
			return repository.ApplicationView{}, ErrJobNotFound
		}
		return repository.ApplicationView{}, internalErr(err)
	}

	view := repository.ApplicationView{
		Application:         a,
		JobTitle:            j.Title,
		CompanyID:           j.CompanyID,
		CompanyName:         j.CompanyName,
		RecruiterID:         j.RecruiterID,
		JobseekerFirstName:  p.FirstName,
		JobseekerLastName:   p.LastName,
		JobseekerPhone:      p.Phone,
		JobseekerCity:       p.City,
		ProfileCompleteness: p.Completeness,
	}
	u.publish(ctx, j.RecruiterID, EventApplicationReceived, map[string]any{
		"applicationId": a.ID,
		"jobId":         jobID,
		"jobTitle":      j.Title,
	})
	return view, nil
}

func (u *Applications) Withdraw(ctx context.Context, jobseekerID, applicationID uuid.UUID) (repository.ApplicationView, error) {
	view, err := u.load(ctx, applicationID)
	if err != nil {
		return repository.ApplicationView{}, err
	}
	if view.JobseekerID != jobseekerID {
		return repository.ApplicationView{}, ErrForbidden
	}

	ch, err := application.NewStatusChange(view.ID, view.Status, application.StatusWithdrawn, &jobseekerID, "", u.now())
	if err != nil {
		return repository.ApplicationView{}, err
	}
	if err := u.change(ctx, ch); err != nil {
		return repository.ApplicationView{}, err
	}

	view = applyChange(view, ch)
	u.publish(ctx, view.RecruiterID, EventApplicationStatusChanged, statusEvent(view, ch))
	return view, nil
}

func (u *Applications) ListMine(ctx context.Context, jobseekerID uuid.UUID) ([]repository.ApplicationView, error) {
	out, err := u.apps.ListApplicationsByJobseeker(ctx, jobseekerID)
	if err != nil {
		return nil, internalErr(err)
	}
	return out, nil
}

// ListForJob lists a recruiter's applicants, optionally filtered by status.
func (u *Applications) ListForJob(ctx context.Context, recruiterID, jobID uuid.UUID, status string) ([]repository.ApplicationView, error) {
	if err := u.ownJob(ctx, recruiterID, jobID); err != nil {
		return nil, err
	}

	var want application.Status
	if strings.TrimSpace(status) != "" {
		s, err := application.ParseStatus(status)
		if err != nil {
			return nil, errors.Mark(err, ErrInvalidInput)
		}
		want = s
	}

	all, err := u.apps.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, internalErr(err)
	}
	if want == "" {
		return all, nil
	}
	out := make([]repository.ApplicationView, 0, len(all))
	for _, a := range all {
		if a.Status == want {
			out = append(out, a)
		}
	}
	return out, nil
}

func (u *Applications) Get(ctx context.Context, actor Actor, applicationID uuid.UUID) (ApplicationDetail, error) {
	view, err := u.load(ctx, applicationID)
	if err != nil {
		return ApplicationDetail{}, err
	}
	if actor.Role != user.RoleAdmin && view.JobseekerID != actor.UserID && view.RecruiterID != actor.UserID {
		return ApplicationDetail{}, ErrForbidden
	}
	history, err := u.apps.ListHistory(ctx, applicationID)
	if err != nil {
		return ApplicationDetail{}, internalErr(err)
	}
	return ApplicationDetail{Application: view, History: history}, nil
}

// UpdateStatus applies a recruiter decision. Decision emails go out after the
// change is stored; their outcome is reported but never fails the call.
func (u *Applications) UpdateStatus(ctx context.Context, recruiterID, applicationID uuid.UUID, in StatusUpdateInput) (StatusUpdateResult, error) {
	to, err := application.ParseStatus(in.Status)
	if err != nil {
		return StatusUpdateResult{}, errors.Mark(err, ErrInvalidInput)
	}
	if !application.RecruiterSettable(to) {
		return StatusUpdateResult{}, errors.Wrapf(application.ErrInvalidTransition, "%s is set by the interview workflow or the jobseeker", to)
	}

	view, err := u.load(ctx, applicationID)
	if err != nil {
		return StatusUpdateResult{}, err
	}
	if view.RecruiterID != recruiterID {
		return StatusUpdateResult{}, ErrForbidden
	}

	ch, err := application.NewStatusChange(view.ID, view.Status, to, &recruiterID, strings.TrimSpace(in.Message), u.now())
	if err != nil {
		return StatusUpdateResult{}, err
	}
	if err := u.change(ctx, ch); err != nil {
		return StatusUpdateResult{}, err
	}

	view = applyChange(view, ch)
	res := StatusUpdateResult{Application: view}

	u.publish(ctx, view.JobseekerID, EventApplicationStatusChanged, statusEvent(view, ch))

	if to.IsDecision() && u.notifier != nil {
		r := u.notifier.SendApplicationDecision(ctx, notification.DecisionInput{
			To:            view.JobseekerEmail,
			JobseekerName: view.JobseekerName(),
			JobTitle:      view.JobTitle,
			CompanyName:   view.CompanyName,
			Decision:      to,
			Message:       in.Message,
			NextSteps:     in.NextSteps,
		})
		res.Notification = &r
	}
	return res, nil
}

func (u *Applications) ExportApplicants(ctx context.Context, recruiterID, jobID uuid.UUID, w io.Writer) error {
	j, err := u.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrJobNotFound
		}
		return internalErr(err)
	}
	if j.RecruiterID != recruiterID {
		return ErrForbidden
	}

	views, err := u.apps.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return internalErr(err)
	}

	rows := make([]export.Applicant, 0, len(views))
	for _, v := range views {
		rows = append(rows, export.Applicant{
			Name:          v.JobseekerName(),
			Email:         v.JobseekerEmail,
			Phone:         v.JobseekerPhone,
			City:          v.JobseekerCity,
			Status:        string(v.Status),
			Completeness:  v.ProfileCompleteness,
			AppliedAt:     v.AppliedAt,
			RecruiterNote: v.RecruiterNote,
		})
	}

	if err := export.WriteApplicants(w, export.ApplicantSheet{
		JobTitle:    j.Title,
		CompanyName: j.CompanyName,
		GeneratedAt: u.now(),
		Location:    notification.WIB,
		Applicants:  rows,
	}); err != nil {
		return internalErr(err)
	}
	return nil
}

func (u *Applications) load(ctx context.Context, id uuid.UUID) (repository.ApplicationView, error) {
	view, err := u.apps.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return repository.ApplicationView{}, ErrApplicationMissing
		}
		return repository.ApplicationView{}, internalErr(err)
	}
	return view, nil
}

func (u *Applications) ownJob(ctx context.Context, recruiterID, jobID uuid.UUID) error {
	j, err := u.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrJobNotFound
		}
		return internalErr(err)
	}
	if j.RecruiterID != recruiterID {
		return ErrForbidden
	}
	return nil
}

func (u *Applications) change(ctx context.Context, ch application.StatusChange) error {
	if err := u.apps.ChangeStatus(ctx, ch); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return ErrConflict
		}
		return internalErr(err)
	}
	return nil
}

func (u *Applications) publish(ctx context.Context, userID uuid.UUID, eventType string, data any) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, userID, eventType, data); err != nil {
		u.logger.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}

func applyChange(view repository.ApplicationView, ch application.StatusChange) repository.ApplicationView {
	at := ch.At
	view.Status = ch.To
	view.UpdatedAt = at
	switch {
	case ch.To.IsDecision():
		view.DecidedAt = &at
		if ch.Note != "" {
			view.RecruiterNote = ch.Note
		}
	case ch.To == application.StatusWithdrawn:
		view.WithdrawnAt = &at
	}
	return view
}

func statusEvent(view repository.ApplicationView, ch application.StatusChange) map[string]any {
	return map[string]any{
		"applicationId": view.ID,
		"jobId":         view.JobID,
		"jobTitle":      view.JobTitle,
		"from":          ch.From,
		"to":            ch.To,
	}
}
