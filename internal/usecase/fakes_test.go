package usecase

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"jobhub/internal/domain/application"
	"jobhub/internal/domain/company"
	"jobhub/internal/domain/interview"
	"jobhub/internal/domain/job"
	"jobhub/internal/domain/profile"
	"jobhub/internal/notification"
	"jobhub/internal/repository"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeJobs struct {
	items      map[uuid.UUID]job.Job
	listCalls  int
	lastFilter repository.JobFilter
}

func newFakeJobs(jobs ...job.Job) *fakeJobs {
	f := &fakeJobs{items: map[uuid.UUID]job.Job{}}
	for _, j := range jobs {
		f.items[j.ID] = j
	}
	return f
}

func (f *fakeJobs) CreateJob(_ context.Context, j job.Job) error {
	f.items[j.ID] = j
	return nil
}

func (f *fakeJobs) UpdateJob(_ context.Context, j job.Job) error {
	if _, ok := f.items[j.ID]; !ok {
		return repository.ErrJobNotFound
	}
	f.items[j.ID] = j
	return nil
}

func (f *fakeJobs) SetJobActive(_ context.Context, id uuid.UUID, active bool) error {
	j, ok := f.items[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	j.IsActive = active
	f.items[id] = j
	return nil
}

func (f *fakeJobs) GetJobByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := f.items[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (f *fakeJobs) ListJobsByCompany(_ context.Context, companyID uuid.UUID) ([]job.Job, error) {
	out := []job.Job{}
	for _, j := range f.items {
		if j.CompanyID == companyID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) ListOpenJobs(_ context.Context, flt repository.JobFilter) ([]job.Job, int, error) {
	f.listCalls++
	f.lastFilter = flt
	out := []job.Job{}
	for _, j := range f.items {
		if j.IsOpen() && (flt.Type == "" || j.Type == flt.Type) {
			out = append(out, j)
		}
	}
	return out, len(out), nil
}

type fakeCompanies struct {
	items map[uuid.UUID]company.Company
}

func newFakeCompanies(cs ...company.Company) *fakeCompanies {
	f := &fakeCompanies{items: map[uuid.UUID]company.Company{}}
	for _, c := range cs {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeCompanies) CreateCompany(_ context.Context, c company.Company) error {
	f.items[c.ID] = c
	return nil
}

func (f *fakeCompanies) UpdateCompanyProfile(_ context.Context, c company.Company, from company.Status) error {
	cur, ok := f.items[c.ID]
	if !ok || cur.Status != from {
		return repository.ErrStaleState
	}
	f.items[c.ID] = c
	return nil
}

func (f *fakeCompanies) GetCompanyByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	c, ok := f.items[id]
	if !ok {
		return company.Company{}, repository.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanies) GetCompanyByRecruiter(_ context.Context, recruiterID uuid.UUID) (company.Company, error) {
	for _, c := range f.items {
		if c.RecruiterID == recruiterID {
			return c, nil
		}
	}
	return company.Company{}, repository.ErrCompanyNotFound
}

func (f *fakeCompanies) ListCompanies(_ context.Context, statuses []company.Status, _, _ int) ([]company.Company, error) {
	out := []company.Company{}
	for _, c := range f.items {
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCompanies) UpdateVerification(ctx context.Context, c company.Company, from company.Status) error {
	return f.UpdateCompanyProfile(ctx, c, from)
}

type fakeProfiles struct {
	items map[uuid.UUID]profile.Jobseeker
	saves int
}

func newFakeProfiles(ps ...profile.Jobseeker) *fakeProfiles {
	f := &fakeProfiles{items: map[uuid.UUID]profile.Jobseeker{}}
	for _, p := range ps {
		f.items[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID uuid.UUID) (profile.Jobseeker, error) {
	p, ok := f.items[userID]
	if !ok {
		return profile.Jobseeker{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) SaveProfile(_ context.Context, j profile.Jobseeker) error {
	f.saves++
	f.items[j.UserID] = j
	return nil
}

func (f *fakeProfiles) UpdateDocument(_ context.Context, j profile.Jobseeker, _ profile.DocumentKind) error {
	if _, ok := f.items[j.UserID]; !ok {
		return repository.ErrProfileNotFound
	}
	f.items[j.UserID] = j
	return nil
}

type fakeApps struct {
	items   map[uuid.UUID]repository.ApplicationView
	history map[uuid.UUID][]application.HistoryEntry
}

func newFakeApps(views ...repository.ApplicationView) *fakeApps {
	f := &fakeApps{
		items:   map[uuid.UUID]repository.ApplicationView{},
		history: map[uuid.UUID][]application.HistoryEntry{},
	}
	for _, v := range views {
		f.items[v.ID] = v
	}
	return f
}

func (f *fakeApps) CreateApplication(_ context.Context, a application.Application) error {
	f.items[a.ID] = repository.ApplicationView{Application: a}
	return nil
}

func (f *fakeApps) HasActiveApplication(_ context.Context, jobseekerID, jobID uuid.UUID) (bool, error) {
	for _, v := range f.items {
		if v.JobseekerID == jobseekerID && v.JobID == jobID && v.Status != application.StatusWithdrawn && v.Status != application.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApps) GetApplication(_ context.Context, id uuid.UUID) (repository.ApplicationView, error) {
	v, ok := f.items[id]
	if !ok {
		return repository.ApplicationView{}, repository.ErrApplicationNotFound
	}
	return v, nil
}

func (f *fakeApps) ListApplicationsByJobseeker(_ context.Context, jobseekerID uuid.UUID) ([]repository.ApplicationView, error) {
	out := []repository.ApplicationView{}
	for _, v := range f.items {
		if v.JobseekerID == jobseekerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeApps) ListApplicationsByJob(_ context.Context, jobID uuid.UUID) ([]repository.ApplicationView, error) {
	out := []repository.ApplicationView{}
	for _, v := range f.items {
		if v.JobID == jobID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeApps) ChangeStatus(_ context.Context, ch application.StatusChange) error {
	v, ok := f.items[ch.ApplicationID]
	if !ok || v.Status != ch.From {
		return repository.ErrStaleState
	}
	f.items[ch.ApplicationID] = applyChange(v, ch)
	f.history[ch.ApplicationID] = append(f.history[ch.ApplicationID], application.HistoryEntry{
		ID:            uuid.New(),
		ApplicationID: ch.ApplicationID,
		FromStatus:    ch.From,
		ToStatus:      ch.To,
		ActorID:       ch.ActorID,
		Note:          ch.Note,
		CreatedAt:     ch.At,
	})
	return nil
}

func (f *fakeApps) ListHistory(_ context.Context, id uuid.UUID) ([]application.HistoryEntry, error) {
	return f.history[id], nil
}

// fakeInterviews applies application changes through apps so both stores
// stay consistent, as the real transaction does.
type fakeInterviews struct {
	items map[uuid.UUID]interview.Interview
	apps  *fakeApps
}

func newFakeInterviews(apps *fakeApps) *fakeInterviews {
	return &fakeInterviews{items: map[uuid.UUID]interview.Interview{}, apps: apps}
}

func (f *fakeInterviews) CreateInterview(ctx context.Context, iv interview.Interview, changes []application.StatusChange) error {
	for _, ch := range changes {
		if err := f.apps.ChangeStatus(ctx, ch); err != nil {
			return err
		}
	}
	iv.Participants = append([]interview.Participant(nil), iv.Participants...)
	f.items[iv.ID] = iv
	return nil
}

func (f *fakeInterviews) GetInterview(_ context.Context, id uuid.UUID) (interview.Interview, error) {
	iv, ok := f.items[id]
	if !ok {
		return interview.Interview{}, repository.ErrInterviewNotFound
	}
	out := iv
	out.Participants = make([]interview.Participant, len(iv.Participants))
	for i, p := range iv.Participants {
		if v, ok := f.apps.items[p.ApplicationID]; ok {
			p.ApplicationStatus = v.Status
		}
		out.Participants[i] = p
	}
	return out, nil
}

func (f *fakeInterviews) ListInterviewsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]interview.Interview, error) {
	out := []interview.Interview{}
	for id, iv := range f.items {
		if iv.RecruiterID == recruiterID {
			full, _ := f.GetInterview(ctx, id)
			out = append(out, full)
		}
	}
	return out, nil
}

func (f *fakeInterviews) ListInterviewsByJobseeker(ctx context.Context, jobseekerID uuid.UUID) ([]interview.Interview, error) {
	out := []interview.Interview{}
	for id, iv := range f.items {
		if _, ok := iv.ParticipantForJobseeker(jobseekerID); ok {
			full, _ := f.GetInterview(ctx, id)
			out = append(out, full)
		}
	}
	return out, nil
}

func (f *fakeInterviews) UpdateParticipant(_ context.Context, ch interview.ParticipantChange) error {
	for id, iv := range f.items {
		for i, p := range iv.Participants {
			if p.ID != ch.ParticipantID {
				continue
			}
			if p.Status != ch.From {
				return repository.ErrStaleState
			}
			iv.Participants[i] = applyParticipantChange(p, ch)
			f.items[id] = iv
			return nil
		}
	}
	return repository.ErrStaleState
}

func (f *fakeInterviews) ApplyCompletion(ctx context.Context, plan interview.CompletionPlan) error {
	for _, ch := range plan.Participants {
		if err := f.UpdateParticipant(ctx, ch); err != nil {
			return err
		}
	}
	for _, ch := range plan.Applications {
		if err := f.apps.ChangeStatus(ctx, ch); err != nil {
			return err
		}
	}
	if plan.CompleteInterview {
		iv := f.items[plan.InterviewID]
		at := plan.At
		iv.Status = interview.StatusCompleted
		iv.CompletedAt = &at
		f.items[plan.InterviewID] = iv
	}
	return nil
}

func (f *fakeInterviews) ApplyCancellation(ctx context.Context, plan interview.CancellationPlan) error {
	for _, ch := range plan.Applications {
		if err := f.apps.ChangeStatus(ctx, ch); err != nil {
			return err
		}
	}
	iv := f.items[plan.InterviewID]
	at := plan.At
	iv.Status = interview.StatusCancelled
	iv.CancelledAt = &at
	f.items[plan.InterviewID] = iv
	return nil
}

func (f *fakeInterviews) ApplyReschedule(_ context.Context, iv interview.Interview, _ []interview.ParticipantChange) error {
	iv.Participants = append([]interview.Participant(nil), iv.Participants...)
	f.items[iv.ID] = iv
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string

	// lockHeld makes SetIfNotExists report an existing key.
	lockHeld bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(raw), out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = string(b)
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockHeld {
		return false, nil
	}
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

type sentMail struct {
	kind string
	to   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *recordingNotifier) result(kind, to string) notification.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: kind, to: to})
	if n.fail {
		return notification.Result{Sent: false, Error: "smtp down"}
	}
	return notification.Result{Sent: true}
}

func (n *recordingNotifier) SendApplicationDecision(_ context.Context, in notification.DecisionInput) notification.Result {
	return n.result("decision:"+string(in.Decision), in.To)
}

func (n *recordingNotifier) SendInterviewInvitation(_ context.Context, in notification.InterviewInput) notification.Result {
	return n.result("invitation", in.To)
}

func (n *recordingNotifier) SendInterviewRescheduled(_ context.Context, in notification.InterviewInput) notification.Result {
	return n.result("rescheduled", in.To)
}

func (n *recordingNotifier) SendInterviewCancelled(_ context.Context, in notification.InterviewInput) notification.Result {
	return n.result("cancelled", in.To)
}

type publishedEvent struct {
	userID uuid.UUID
	kind   string
}

type recordingEvents struct {
	events []publishedEvent
}

func (r *recordingEvents) Publish(_ context.Context, userID uuid.UUID, eventType string, _ any) error {
	r.events = append(r.events, publishedEvent{userID: userID, kind: eventType})
	return nil
}

func (r *recordingEvents) count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	url := "https://cdn.example.com/" + key
	s.objects[url] = b
	return url, nil
}

func (s *fakeStorage) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	delete(s.objects, url)
	return nil
}
