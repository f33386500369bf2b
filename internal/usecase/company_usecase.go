package usecase

import (
	"context"
	"strings"
	"time"

	"jobhub/internal/domain/company"
	"jobhub/internal/pkg/logger"
	"jobhub/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const verificationLockTTL = 10 * time.Second

type CompanyInput struct {
	Name        string
	Description string
	Industry    string
	Website     string
	Address     string
	City        string
	LogoURL     string
}

type CompanyUsecase interface {
	GetMyCompany(ctx context.Context, recruiterID uuid.UUID) (company.Company, error)
	SaveMyCompany(ctx context.Context, recruiterID uuid.UUID, in CompanyInput) (company.Company, error)
	ListCompanies(ctx context.Context, statuses []company.Status, limit, offset int) ([]company.Company, error)
	Verify(ctx context.Context, adminID, companyID uuid.UUID, notes string) (company.Company, error)
	Reject(ctx context.Context, adminID, companyID uuid.UUID, reason string) (company.Company, error)
}

type Company struct {
	companies repository.CompanyRepository
	cache     Cache
	logger    *zap.Logger
	now       func() time.Time
}

func NewCompanyUsecase(companies repository.CompanyRepository, cache Cache, l *zap.Logger) *Company {
	return &Company{companies: companies, cache: cache, logger: logger.OrNop(l), now: time.Now}
}

func (u *Company) GetMyCompany(ctx context.Context, recruiterID uuid.UUID) (company.Company, error) {
	c, err := u.companies.GetCompanyByRecruiter(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return company.Company{}, ErrCompanyNotFound
		}
		return company.Company{}, internalErr(err)
	}
	return c, nil
}

// SaveMyCompany creates the recruiter's company or updates its profile. Editing
// a rejected company sends it back to the admin queue.
func (u *Company) SaveMyCompany(ctx context.Context, recruiterID uuid.UUID, in CompanyInput) (company.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return company.Company{}, errors.Wrap(ErrInvalidInput, "name")
	}
	now := u.now().UTC()

	existing, err := u.companies.GetCompanyByRecruiter(ctx, recruiterID)
	if err != nil && !errors.Is(err, repository.ErrCompanyNotFound) {
		return company.Company{}, internalErr(err)
	}

	if err != nil {
		c := company.Company{
			ID:          uuid.New(),
			RecruiterID: recruiterID,
			Status:      company.StatusPendingVerification,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		applyCompanyInput(&c, name, in)
		if err := u.companies.CreateCompany(ctx, c); err != nil {
			if errors.Is(err, repository.ErrCompanyExists) {
				return company.Company{}, ErrConflict
			}
			return company.Company{}, internalErr(err)
		}
		return c, nil
	}

	from := existing.Status
	c := existing.Resubmit(now)
	applyCompanyInput(&c, name, in)
	c.UpdatedAt = now
	if err := u.companies.UpdateCompanyProfile(ctx, c, from); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return company.Company{}, ErrConflict
		}
		return company.Company{}, internalErr(err)
	}
	if c.Status == company.StatusVerified {
		u.invalidateJobListings(ctx)
	}
	return c, nil
}

func applyCompanyInput(c *company.Company, name string, in CompanyInput) {
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.Industry = strings.TrimSpace(in.Industry)
	c.Website = strings.TrimSpace(in.Website)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.LogoURL = strings.TrimSpace(in.LogoURL)
}

// ListCompanies defaults to the admin queue: both pending statuses.
func (u *Company) ListCompanies(ctx context.Context, statuses []company.Status, limit, offset int) ([]company.Company, error) {
	if len(statuses) == 0 {
		statuses = []company.Status{company.StatusPendingVerification, company.StatusPendingResubmission}
	}
	out, err := u.companies.ListCompanies(ctx, statuses, limit, offset)
	if err != nil {
		return nil, internalErr(err)
	}
	return out, nil
}

func (u *Company) Verify(ctx context.Context, adminID, companyID uuid.UUID, notes string) (company.Company, error) {
	return u.decide(ctx, adminID, companyID, func(c company.Company, now time.Time) (company.Company, error) {
		return c.Verify(notes, now)
	})
}

func (u *Company) Reject(ctx context.Context, adminID, companyID uuid.UUID, reason string) (company.Company, error) {
	if strings.TrimSpace(reason) == "" {
		return company.Company{}, errors.Mark(company.ErrReasonRequired, ErrInvalidInput)
	}
	return u.decide(ctx, adminID, companyID, func(c company.Company, now time.Time) (company.Company, error) {
		return c.Reject(reason, now)
	})
}

func (u *Company) decide(ctx context.Context, adminID, companyID uuid.UUID, apply func(company.Company, time.Time) (company.Company, error)) (company.Company, error) {
	release, err := u.lock(ctx, companyID, adminID)
	if err != nil {
		return company.Company{}, err
	}
	defer release()

	c, err := u.companies.GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return company.Company{}, ErrCompanyNotFound
		}
		return company.Company{}, internalErr(err)
	}

	from := c.Status
	next, err := apply(c, u.now())
	if err != nil {
		return company.Company{}, err
	}

	if err := u.companies.UpdateVerification(ctx, next, from); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return company.Company{}, ErrConflict
		}
		return company.Company{}, internalErr(err)
	}

	u.logger.Info("company verification decided",
		zap.String("company_id", companyID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(next.Status)),
	)
	u.invalidateJobListings(ctx)
	return next, nil
}

func (u *Company) lock(ctx context.Context, companyID, adminID uuid.UUID) (func(), error) {
	if u.cache == nil {
		return func() {}, nil
	}
	key := "company:verify:lock:" + companyID.String()
	ok, err := u.cache.SetIfNotExists(ctx, key, adminID.String(), verificationLockTTL)
	if err != nil {
		u.logger.Warn("verification lock unavailable", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() { _ = u.cache.Delete(context.WithoutCancel(ctx), key) }, nil
}

func (u *Company) invalidateJobListings(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, JobsSearchCachePattern); err != nil {
		u.logger.Warn("invalidate job listings failed", zap.Error(err))
	}
}
