package usecase

import (
	"context"
	"strings"
	"time"

	"jobhub/internal/domain/application"
	"jobhub/internal/domain/interview"
	"jobhub/internal/domain/user"
	"jobhub/internal/notification"
	"jobhub/internal/pkg/logger"
	"jobhub/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMailWorkers = 4

type ScheduleInput struct {
	Title           string
	Description     string
	JobID           uuid.UUID
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingType     string
	MeetingURL      string
	Location        string
	ApplicationIDs  []uuid.UUID
}

// RescheduleInput changes the schedule. Zero values keep the current setting.
type RescheduleInput struct {
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingType     string
	MeetingURL      string
	Location        string
	Description     *string
}

type JoinInfo struct {
	InterviewID uuid.UUID
	Access      interview.Access
	Meeting     *interview.Meeting
}

type InterviewUsecase interface {
	Schedule(ctx context.Context, recruiterID uuid.UUID, in ScheduleInput) (interview.Interview, error)
	Respond(ctx context.Context, jobseekerID, interviewID uuid.UUID, response string) (interview.Participant, error)
	RequestReschedule(ctx context.Context, jobseekerID, interviewID uuid.UUID, reason string) (interview.Participant, error)
	Join(ctx context.Context, actor Actor, interviewID uuid.UUID) (JoinInfo, error)
	Complete(ctx context.Context, recruiterID, interviewID uuid.UUID, participantID *uuid.UUID) (interview.Interview, error)
	MarkNoShow(ctx context.Context, recruiterID, interviewID, participantID uuid.UUID) (interview.Interview, error)
	Reschedule(ctx context.Context, recruiterID, interviewID uuid.UUID, in RescheduleInput) (interview.Interview, error)
	Cancel(ctx context.Context, recruiterID, interviewID uuid.UUID) (interview.Interview, error)
	List(ctx context.Context, actor Actor) ([]interview.Interview, error)
	Get(ctx context.Context, actor Actor, interviewID uuid.UUID) (interview.Interview, error)
}

type Interviews struct {
	interviews repository.InterviewRepository
	apps       repository.ApplicationRepository
	jobs       repository.JobRepository
	notifier   Notifier
	mailPool   *notification.Pool
	events     EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewInterviewUsecase(
	interviews repository.InterviewRepository,
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	notifier Notifier,
	events EventPublisher,
	l *zap.Logger,
) *Interviews {
	return &Interviews{
		interviews: interviews,
		apps:       apps,
		jobs:       jobs,
		notifier:   notifier,
		mailPool:   notification.NewPool(defaultMailWorkers, 0),
		events:     events,
		logger:     logger.OrNop(l),
		now:        time.Now,
	}
}

// WithMailPool replaces the pool that fans interview emails out to participants.
func (u *Interviews) WithMailPool(p *notification.Pool) *Interviews {
	if p != nil {
		u.mailPool = p
	}
	return u
}

// mailAll sends one email per input through the mail pool and waits for the
// batch. Delivery stays best effort.
func (u *Interviews) mailAll(ctx context.Context, send func(context.Context, notification.InterviewInput) notification.Result, inputs []notification.InterviewInput) {
	if len(inputs) == 0 {
		return
	}
	tasks := make([]notification.Task, 0, len(inputs))
	for _, in := range inputs {
		tasks = append(tasks, func(ctx context.Context) error {
			if r := send(ctx, in); !r.Sent {
				return errors.Newf("%s: %s", in.To, r.Error)
			}
			return nil
		})
	}
	if err := u.mailPool.Run(ctx, tasks...); err != nil {
		u.logger.Warn("interview emails partially failed", zap.Int("recipients", len(inputs)), zap.Error(err))
	}
}

func (u *Interviews) Schedule(ctx context.Context, recruiterID uuid.UUID, in ScheduleInput) (interview.Interview, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return interview.Interview{}, errors.Wrap(ErrInvalidInput, "title")
	}
	if len(in.ApplicationIDs) == 0 {
		return interview.Interview{}, errors.Wrap(ErrInvalidInput, "applicationIds must not be empty")
	}
	seen := make(map[uuid.UUID]struct{}, len(in.ApplicationIDs))
	for _, id := range in.ApplicationIDs {
		if _, dup := seen[id]; dup {
			return interview.Interview{}, errors.Wrapf(ErrInvalidInput, "application %s listed twice", id)
		}
		seen[id] = struct{}{}
	}

	meetingType, err := interview.ParseMeetingType(in.MeetingType)
	if err != nil {
		return interview.Interview{}, err
	}
	now := u.now()
	schedule := interview.Schedule{
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Meeting:         interview.Meeting{Type: meetingType, URL: in.MeetingURL, Location: in.Location}.Normalize(),
		Description:     strings.TrimSpace(in.Description),
	}
	if err := schedule.Validate(now); err != nil {
		return interview.Interview{}, err
	}

	j, err := u.jobs.GetJobByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return interview.Interview{}, ErrJobNotFound
		}
		return interview.Interview{}, internalErr(err)
	}
	if j.RecruiterID != recruiterID {
		return interview.Interview{}, ErrForbidden
	}

	at := now.UTC()
	iv := interview.Interview{
		ID:              uuid.New(),
		RecruiterID:     recruiterID,
		JobID:           j.ID,
		JobTitle:        j.Title,
		CompanyName:     j.CompanyName,
		Title:           title,
		Description:     schedule.Description,
		ScheduledAt:     schedule.ScheduledAt.UTC(),
		DurationMinutes: schedule.DurationMinutes,
		Meeting:         schedule.Meeting,
		Status:          interview.StatusScheduled,
		CreatedAt:       at,
		UpdatedAt:       at,
	}

	changes := make([]application.StatusChange, 0, len(in.ApplicationIDs))
	for _, appID := range in.ApplicationIDs {
		view, err := u.apps.GetApplication(ctx, appID)
		if err != nil {
			if errors.Is(err, repository.ErrApplicationNotFound) {
				return interview.Interview{}, errors.Wrapf(ErrApplicationMissing, "%s", appID)
			}
			return interview.Interview{}, internalErr(err)
		}
		if view.JobID != j.ID {
			return interview.Interview{}, errors.Wrapf(ErrInvalidInput, "application %s belongs to another job", appID)
		}
		ch, err := application.NewStatusChange(appID, view.Status, application.StatusInterviewScheduled, &recruiterID, "", at)
		if err != nil {
			return interview.Interview{}, err
		}
		changes = append(changes, ch)
		iv.Participants = append(iv.Participants, interview.Participant{
			ID:                uuid.New(),
			InterviewID:       iv.ID,
			ApplicationID:     appID,
			Status:            interview.ParticipantPending,
			ApplicationStatus: application.StatusInterviewScheduled,
			JobseekerID:       view.JobseekerID,
			JobseekerName:     view.JobseekerName(),
			JobseekerEmail:    view.JobseekerEmail,
		})
	}

	if err := u.interviews.CreateInterview(ctx, iv, changes); err != nil {
		return interview.Interview{}, u.storeErr(err)
	}

	mails := make([]notification.InterviewInput, 0, len(iv.Participants))
	for _, p := range iv.Participants {
		mails = append(mails, interviewMail(iv, p, ""))
		u.publish(ctx, p.JobseekerID, EventInterviewInvited, interviewEvent(iv))
	}
	if u.notifier != nil {
		u.mailAll(ctx, u.notifier.SendInterviewInvitation, mails)
	}
	return iv, nil
}

func (u *Interviews) Respond(ctx context.Context, jobseekerID, interviewID uuid.UUID, response string) (interview.Participant, error) {
	r, err := interview.ParseResponse(response)
	if err != nil {
		return interview.Participant{}, err
	}
	iv, p, err := u.participantOf(ctx, jobseekerID, interviewID)
	if err != nil {
		return interview.Participant{}, err
	}

	ch, err := p.Respond(r, u.now())
	if err != nil {
		return interview.Participant{}, err
	}
	if err := u.interviews.UpdateParticipant(ctx, ch); err != nil {
		return interview.Participant{}, u.storeErr(err)
	}

	p = applyParticipantChange(p, ch)
	u.publish(ctx, iv.RecruiterID, EventInterviewResponded, participantEvent(iv, p))
	return p, nil
}

func (u *Interviews) RequestReschedule(ctx context.Context, jobseekerID, interviewID uuid.UUID, reason string) (interview.Participant, error) {
	iv, p, err := u.participantOf(ctx, jobseekerID, interviewID)
	if err != nil {
		return interview.Participant{}, err
	}

	ch, err := p.RequestReschedule(reason, u.now())
	if err != nil {
		return interview.Participant{}, err
	}
	if err := u.interviews.UpdateParticipant(ctx, ch); err != nil {
		return interview.Participant{}, u.storeErr(err)
	}

	p = applyParticipantChange(p, ch)
	u.publish(ctx, iv.RecruiterID, EventInterviewResponded, participantEvent(iv, p))
	return p, nil
}

// Join reports the access window. The meeting link or location is only
// revealed while the window is open.
func (u *Interviews) Join(ctx context.Context, actor Actor, interviewID uuid.UUID) (JoinInfo, error) {
	iv, err := u.load(ctx, interviewID)
	if err != nil {
		return JoinInfo{}, err
	}

	switch actor.Role {
	case user.RoleRecruiter:
		if iv.RecruiterID != actor.UserID {
			return JoinInfo{}, ErrForbidden
		}
	case user.RoleJobseeker:
		p, ok := iv.ParticipantForJobseeker(actor.UserID)
		if !ok {
			return JoinInfo{}, ErrNotParticipant
		}
		if p.Status == interview.ParticipantDeclined {
			return JoinInfo{}, errors.Wrap(ErrJoinDenied, "invitation was declined")
		}
	default:
		return JoinInfo{}, ErrForbidden
	}
	if iv.Status == interview.StatusCancelled {
		return JoinInfo{}, errors.Wrap(ErrJoinDenied, "interview was cancelled")
	}

	access := iv.AccessAt(u.now())
	info := JoinInfo{InterviewID: iv.ID, Access: access}
	switch access.State {
	case interview.AccessPast:
		return info, errors.Wrap(ErrJoinDenied, "interview has ended")
	case interview.AccessOpen:
		m := iv.Meeting
		info.Meeting = &m
	}
	return info, nil
}

func (u *Interviews) Complete(ctx context.Context, recruiterID, interviewID uuid.UUID, participantID *uuid.UUID) (interview.Interview, error) {
	iv, err := u.owned(ctx, recruiterID, interviewID)
	if err != nil {
		return interview.Interview{}, err
	}

	plan, err := iv.PlanCompletion(participantID, recruiterID, u.now())
	if err != nil {
		return interview.Interview{}, err
	}
	if err := u.interviews.ApplyCompletion(ctx, plan); err != nil {
		return interview.Interview{}, u.storeErr(err)
	}

	done := make(map[uuid.UUID]struct{}, len(plan.Participants))
	for _, ch := range plan.Participants {
		done[ch.ParticipantID] = struct{}{}
	}
	for _, p := range iv.Participants {
		if _, ok := done[p.ID]; ok {
			u.publish(ctx, p.JobseekerID, EventInterviewCompleted, interviewEvent(iv))
		}
	}
	return u.load(ctx, interviewID)
}

func (u *Interviews) MarkNoShow(ctx context.Context, recruiterID, interviewID, participantID uuid.UUID) (interview.Interview, error) {
	iv, err := u.owned(ctx, recruiterID, interviewID)
	if err != nil {
		return interview.Interview{}, err
	}
	ch, err := iv.MarkNoShow(participantID, u.now())
	if err != nil {
		return interview.Interview{}, err
	}
	if err := u.interviews.UpdateParticipant(ctx, ch); err != nil {
		return interview.Interview{}, u.storeErr(err)
	}
	return u.load(ctx, interviewID)
}

func (u *Interviews) Reschedule(ctx context.Context, recruiterID, interviewID uuid.UUID, in RescheduleInput) (interview.Interview, error) {
	iv, err := u.owned(ctx, recruiterID, interviewID)
	if err != nil {
		return interview.Interview{}, err
	}

	s := interview.Schedule{
		ScheduledAt:     iv.ScheduledAt,
		DurationMinutes: iv.DurationMinutes,
		Meeting:         iv.Meeting,
		Description:     iv.Description,
	}
	if !in.ScheduledAt.IsZero() {
		s.ScheduledAt = in.ScheduledAt
	}
	if in.DurationMinutes != 0 {
		s.DurationMinutes = in.DurationMinutes
	}
	if strings.TrimSpace(in.MeetingType) != "" {
		mt, err := interview.ParseMeetingType(in.MeetingType)
		if err != nil {
			return interview.Interview{}, err
		}
		s.Meeting.Type = mt
	}
	if strings.TrimSpace(in.MeetingURL) != "" {
		s.Meeting.URL = in.MeetingURL
	}
	if strings.TrimSpace(in.Location) != "" {
		s.Meeting.Location = in.Location
	}
	if in.Description != nil {
		s.Description = *in.Description
	}

	next, changes, err := iv.Reschedule(s, u.now())
	if err != nil {
		return interview.Interview{}, err
	}
	if err := u.interviews.ApplyReschedule(ctx, next, changes); err != nil {
		return interview.Interview{}, u.storeErr(err)
	}

	mails := make([]notification.InterviewInput, 0, len(next.Participants))
	for _, p := range next.Participants {
		if p.Status == interview.ParticipantDeclined || p.ApplicationStatus.IsTerminal() {
			continue
		}
		mails = append(mails, interviewMail(next, p, ""))
		u.publish(ctx, p.JobseekerID, EventInterviewRescheduled, interviewEvent(next))
	}
	if u.notifier != nil {
		u.mailAll(ctx, u.notifier.SendInterviewRescheduled, mails)
	}
	return next, nil
}

// Cancel closes the interview and rejects every linked application that has
// not ended yet, in one transaction.
func (u *Interviews) Cancel(ctx context.Context, recruiterID, interviewID uuid.UUID) (interview.Interview, error) {
	iv, err := u.owned(ctx, recruiterID, interviewID)
	if err != nil {
		return interview.Interview{}, err
	}

	plan, err := iv.PlanCancellation(recruiterID, u.now())
	if err != nil {
		return interview.Interview{}, err
	}
	if err := u.interviews.ApplyCancellation(ctx, plan); err != nil {
		return interview.Interview{}, u.storeErr(err)
	}

	rejected := make(map[uuid.UUID]struct{}, len(plan.Applications))
	for _, ch := range plan.Applications {
		rejected[ch.ApplicationID] = struct{}{}
	}

	at := plan.At
	iv.Status = interview.StatusCancelled
	iv.CancelledAt = &at
	iv.UpdatedAt = at
	mails := make([]notification.InterviewInput, 0, len(rejected))
	for i, p := range iv.Participants {
		if _, ok := rejected[p.ApplicationID]; !ok {
			continue
		}
		iv.Participants[i].ApplicationStatus = application.StatusRejected
		mails = append(mails, interviewMail(iv, p, application.CancellationNote))
		u.publish(ctx, p.JobseekerID, EventInterviewCancelled, interviewEvent(iv))
	}
	if u.notifier != nil {
		u.mailAll(ctx, u.notifier.SendInterviewCancelled, mails)
	}
	return iv, nil
}

func (u *Interviews) List(ctx context.Context, actor Actor) ([]interview.Interview, error) {
	var (
		out []interview.Interview
		err error
	)
	switch actor.Role {
	case user.RoleRecruiter:
		out, err = u.interviews.ListInterviewsByRecruiter(ctx, actor.UserID)
	case user.RoleJobseeker:
		out, err = u.interviews.ListInterviewsByJobseeker(ctx, actor.UserID)
		for i := range out {
			out[i] = onlyOwnParticipant(out[i], actor.UserID)
		}
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, internalErr(err)
	}
	return out, nil
}

// Get returns the interview with its participants. Jobseekers only see their
// own participant entry.
func (u *Interviews) Get(ctx context.Context, actor Actor, interviewID uuid.UUID) (interview.Interview, error) {
	iv, err := u.load(ctx, interviewID)
	if err != nil {
		return interview.Interview{}, err
	}
	switch actor.Role {
	case user.RoleRecruiter:
		if iv.RecruiterID != actor.UserID {
			return interview.Interview{}, ErrForbidden
		}
		return iv, nil
	case user.RoleJobseeker:
		if _, ok := iv.ParticipantForJobseeker(actor.UserID); !ok {
			return interview.Interview{}, ErrNotParticipant
		}
		return onlyOwnParticipant(iv, actor.UserID), nil
	default:
		return interview.Interview{}, ErrForbidden
	}
}

func (u *Interviews) load(ctx context.Context, id uuid.UUID) (interview.Interview, error) {
	iv, err := u.interviews.GetInterview(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInterviewNotFound) {
			return interview.Interview{}, ErrInterviewMissing
		}
		return interview.Interview{}, internalErr(err)
	}
	return iv, nil
}

func (u *Interviews) owned(ctx context.Context, recruiterID, id uuid.UUID) (interview.Interview, error) {
	iv, err := u.load(ctx, id)
	if err != nil {
		return interview.Interview{}, err
	}
	if iv.RecruiterID != recruiterID {
		return interview.Interview{}, ErrForbidden
	}
	return iv, nil
}

func (u *Interviews) participantOf(ctx context.Context, jobseekerID, id uuid.UUID) (interview.Interview, interview.Participant, error) {
	iv, err := u.load(ctx, id)
	if err != nil {
		return interview.Interview{}, interview.Participant{}, err
	}
	if iv.Status.IsClosed() {
		return interview.Interview{}, interview.Participant{}, interview.ErrInterviewClosed
	}
	p, ok := iv.ParticipantForJobseeker(jobseekerID)
	if !ok {
		return interview.Interview{}, interview.Participant{}, ErrNotParticipant
	}
	return iv, p, nil
}

func (u *Interviews) storeErr(err error) error {
	if errors.Is(err, repository.ErrStaleState) {
		return ErrConflict
	}
	return internalErr(err)
}

func (u *Interviews) publish(ctx context.Context, userID uuid.UUID, eventType string, data any) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, userID, eventType, data); err != nil {
		u.logger.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}

func applyParticipantChange(p interview.Participant, ch interview.ParticipantChange) interview.Participant {
	p.Status = ch.To
	p.RespondedAt = ch.RespondedAt
	p.RescheduleReason = ch.RescheduleReason
	return p
}

func onlyOwnParticipant(iv interview.Interview, jobseekerID uuid.UUID) interview.Interview {
	own := make([]interview.Participant, 0, 1)
	for _, p := range iv.Participants {
		if p.JobseekerID == jobseekerID {
			own = append(own, p)
		}
	}
	iv.Participants = own
	return iv
}

func interviewMail(iv interview.Interview, p interview.Participant, reason string) notification.InterviewInput {
	return notification.InterviewInput{
		To:              p.JobseekerEmail,
		JobseekerName:   p.JobseekerName,
		JobTitle:        iv.JobTitle,
		CompanyName:     iv.CompanyName,
		Title:           iv.Title,
		ScheduledAt:     iv.ScheduledAt,
		DurationMinutes: iv.DurationMinutes,
		MeetingType:     string(iv.Meeting.Type),
		MeetingURL:      iv.Meeting.URL,
		Location:        iv.Meeting.Location,
		Reason:          reason,
	}
}

func interviewEvent(iv interview.Interview) map[string]any {
	return map[string]any{
		"interviewId": iv.ID,
		"jobId":       iv.JobID,
		"title":       iv.Title,
		"status":      iv.Status,
		"scheduledAt": iv.ScheduledAt,
	}
}

func participantEvent(iv interview.Interview, p interview.Participant) map[string]any {
	return map[string]any{
		"interviewId":   iv.ID,
		"participantId": p.ID,
		"applicationId": p.ApplicationID,
		"status":        p.Status,
		"reason":        p.RescheduleReason,
	}
}
