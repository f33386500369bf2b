package usecase

import (
	"context"
	"strings"
	"time"

	"jobhub/internal/domain/job"
	"jobhub/internal/pkg/logger"
	"jobhub/internal/repository"
	"jobhub/internal/search"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultJobPageSize = 20
	maxJobPageSize     = 50
	jobSearchLockTTL   = 30 * time.Second
	jobSearchLockWait  = 300 * time.Millisecond
)

type JobInput struct {
	Title        string
	Description  string
	Requirements string
	Location     string
	SalaryMin    *int64
	SalaryMax    *int64
	Type         string
	Level        string
}

type JobListParams struct {
	Query    string
	Location string
	Type     string
	Limit    int
	Offset   int
}

type JobPage struct {
	Items []job.Job `json:"items"`
	Total int       `json:"total"`
}

type JobUsecase interface {
	CreateJob(ctx context.Context, recruiterID uuid.UUID, in JobInput) (job.Job, error)
	UpdateJob(ctx context.Context, recruiterID, jobID uuid.UUID, in JobInput) (job.Job, error)
	DeactivateJob(ctx context.Context, recruiterID, jobID uuid.UUID) (job.Job, error)
	ListMyJobs(ctx context.Context, recruiterID uuid.UUID) ([]job.Job, error)
	ListOpenJobs(ctx context.Context, params JobListParams) (JobPage, error)
	GetOpenJob(ctx context.Context, jobID uuid.UUID) (job.Job, error)
}

type Jobs struct {
	jobs      repository.JobRepository
	companies repository.CompanyRepository
	cache     Cache
	logger    *zap.Logger
	now       func() time.Time
}

func NewJobUsecase(jobs repository.JobRepository, companies repository.CompanyRepository, cache Cache, l *zap.Logger) *Jobs {
	return &Jobs{jobs: jobs, companies: companies, cache: cache, logger: logger.OrNop(l), now: time.Now}
}

func (u *Jobs) CreateJob(ctx context.Context, recruiterID uuid.UUID, in JobInput) (job.Job, error) {
	c, err := u.companies.GetCompanyByRecruiter(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return job.Job{}, ErrCompanyRequired
		}
		return job.Job{}, internalErr(err)
	}

	now := u.now().UTC()
	j := job.Job{
		ID:            uuid.New(),
		CompanyID:     c.ID,
		IsActive:      true,
		CreatedAt:     now,
		CompanyName:   c.Name,
		CompanyStatus: c.Status,
		RecruiterID:   recruiterID,
	}
	if err := applyJobInput(&j, in); err != nil {
		return job.Job{}, err
	}
	j.UpdatedAt = now

	if err := u.jobs.CreateJob(ctx, j); err != nil {
		return job.Job{}, internalErr(err)
	}
	u.invalidate(ctx)
	return j, nil
}

func (u *Jobs) UpdateJob(ctx context.Context, recruiterID, jobID uuid.UUID, in JobInput) (job.Job, error) {
	j, err := u.ownedJob(ctx, recruiterID, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if err := applyJobInput(&j, in); err != nil {
		return job.Job{}, err
	}
	j.UpdatedAt = u.now().UTC()

	if err := u.jobs.UpdateJob(ctx, j); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, internalErr(err)
	}
	u.invalidate(ctx)
	return j, nil
}

func (u *Jobs) DeactivateJob(ctx context.Context, recruiterID, jobID uuid.UUID) (job.Job, error) {
	j, err := u.ownedJob(ctx, recruiterID, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if !j.IsActive {
		return j, nil
	}
	if err := u.jobs.SetJobActive(ctx, jobID, false); err != nil {
		return job.Job{}, internalErr(err)
	}
	j.IsActive = false
	j.UpdatedAt = u.now().UTC()
	u.invalidate(ctx)
	return j, nil
}

func (u *Jobs) ListMyJobs(ctx context.Context, recruiterID uuid.UUID) ([]job.Job, error) {
	c, err := u.companies.GetCompanyByRecruiter(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return []job.Job{}, nil
		}
		return nil, internalErr(err)
	}
	out, err := u.jobs.ListJobsByCompany(ctx, c.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	return out, nil
}

// ListOpenJobs returns active jobs of verified companies. Results are cached;
// the first caller of a missing key holds a short lock while others wait once
// for it before querying themselves.
func (u *Jobs) ListOpenJobs(ctx context.Context, params JobListParams) (JobPage, error) {
	if params.Limit == 0 {
		params.Limit = defaultJobPageSize
	}
	if params.Limit < 0 || params.Limit > maxJobPageSize || params.Offset < 0 {
		return JobPage{}, ErrInvalidInput
	}

	var jobType job.Type
	if strings.TrimSpace(params.Type) != "" {
		t, err := job.ParseType(params.Type)
		if err != nil {
			return JobPage{}, errors.Mark(err, ErrInvalidInput)
		}
		jobType = t
		params.Type = string(t)
	}

	cacheKey := JobsSearchCacheKey(params)
	lockKey := JobsSearchLockKey(cacheKey)
	lockAcquired := false

	if u.cache != nil {
		if page, ok := u.cached(ctx, cacheKey); ok {
			return page, nil
		}

		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", jobSearchLockTTL)
		switch {
		case err == nil && ok:
			lockAcquired = true
		case err == nil && !ok:
			jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			timer := time.NewTimer(jobSearchLockWait + jitter)
			select {
			case <-ctx.Done():
				timer.Stop()
				return JobPage{}, ctx.Err()
			case <-timer.C:
			}
			if page, ok := u.cached(ctx, cacheKey); ok {
				return page, nil
			}
			u.logger.Debug("job search lock wait fallback", zap.String("key", lockKey))
		}
	}

	items, total, err := u.jobs.ListOpenJobs(ctx, repository.JobFilter{
		Patterns: search.Parse(params.Query).Patterns(),
		Location: strings.TrimSpace(params.Location),
		Type:     jobType,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		return JobPage{}, internalErr(err)
	}
	page := JobPage{Items: items, Total: total}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, page, 0); err != nil {
			u.logger.Debug("job search cache set failed", zap.Error(err))
		}
		if lockAcquired {
			_ = u.cache.Delete(ctx, lockKey)
		}
	}
	return page, nil
}

func (u *Jobs) GetOpenJob(ctx context.Context, jobID uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, internalErr(err)
	}
	if !j.IsOpen() {
		return job.Job{}, ErrJobNotFound
	}
	return j, nil
}

func (u *Jobs) cached(ctx context.Context, key string) (JobPage, bool) {
	var page JobPage
	hit, err := u.cache.GetJSON(ctx, key, &page)
	if err != nil || !hit {
		return JobPage{}, false
	}
	u.logger.Debug("job search cache hit", zap.String("key", key))
	return page, true
}

func (u *Jobs) ownedJob(ctx context.Context, recruiterID, jobID uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, internalErr(err)
	}
	if j.RecruiterID != recruiterID {
		return job.Job{}, ErrForbidden
	}
	return j, nil
}

func (u *Jobs) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, JobsSearchCachePattern); err != nil {
		u.logger.Warn("invalidate job listings failed", zap.Error(err))
	}
}

func applyJobInput(j *job.Job, in JobInput) error {
	typ, err := job.ParseType(in.Type)
	if err != nil {
		return errors.Mark(err, ErrInvalidInput)
	}
	level, err := job.ParseLevel(in.Level)
	if err != nil {
		return errors.Mark(err, ErrInvalidInput)
	}

	next := *j
	next.Title = strings.TrimSpace(in.Title)
	next.Description = strings.TrimSpace(in.Description)
	next.Requirements = strings.TrimSpace(in.Requirements)
	next.Location = strings.TrimSpace(in.Location)
	next.SalaryMin = in.SalaryMin
	next.SalaryMax = in.SalaryMax
	next.Type = typ
	next.Level = level
	if err := next.Validate(); err != nil {
		return errors.Mark(err, ErrInvalidInput)
	}
	*j = next
	return nil
}
