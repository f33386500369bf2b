package v1

import (
	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/infrastructure/ratelimit"

	"github.com/gofiber/fiber/v3"
)

// Handlers bundles everything mounted under /api/v1.
type Handlers struct {
	Auth        *handler.AuthHandler
	Skill       *handler.SkillHandler
	Profile     *handler.ProfileHandler
	Company     *handler.CompanyHandler
	Job         *handler.JobHandler
	Application *handler.ApplicationHandler
	Interview   *handler.InterviewHandler

	// RequireAuth validates the access token and loads the caller into locals.
	RequireAuth fiber.Handler

	ApplyLimiter   ratelimit.Limiter
	RespondLimiter ratelimit.Limiter
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.RequireAuth == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Skill != nil {
		h.Skill.RegisterRoutes(r)
	}

	RegisterPublicJobs(r, h.Job)

	protected := r.Group("", h.RequireAuth)
	RegisterAccount(protected, h.Auth)
	RegisterProfile(protected, h.Profile)
	RegisterCompanies(protected, h.Company)
	RegisterRecruiterJobs(protected, h.Job, h.Application)
	RegisterApplications(protected, h.Application, h.ApplyLimiter)
	RegisterInterviews(protected, h.Interview, h.RespondLimiter)
}
