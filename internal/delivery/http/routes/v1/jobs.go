package v1

import (
	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/user"
	"jobhub/internal/infrastructure/ratelimit"

	"github.com/gofiber/fiber/v3"
)

func RegisterPublicJobs(r fiber.Router, h *handler.JobHandler) {
	if r == nil || h == nil {
		return
	}

	r.Get("/jobs", h.ListOpen)
	r.Get("/jobs/:id", h.GetOpen)
}

func RegisterRecruiterJobs(r fiber.Router, jobs *handler.JobHandler, apps *handler.ApplicationHandler) {
	if r == nil {
		return
	}

	grp := r.Group("/recruiter/jobs", middleware.RequireRole(user.RoleRecruiter))
	if jobs != nil {
		grp.Get("/", jobs.ListMine)
		grp.Post("/", jobs.Create)
		grp.Put("/:id", jobs.Update)
		grp.Patch("/:id/deactivate", jobs.Deactivate)
	}
	if apps != nil {
		grp.Get("/:id/applications", apps.ListForJob)
		grp.Get("/:id/applications/export", apps.Export)
	}
}

func RegisterApplications(r fiber.Router, h *handler.ApplicationHandler, limiter ratelimit.Limiter) {
	if r == nil || h == nil {
		return
	}

	jobseeker := middleware.RequireRole(user.RoleJobseeker)
	recruiter := middleware.RequireRole(user.RoleRecruiter)

	grp := r.Group("/applications")
	grp.Post("/", jobseeker, middleware.RateLimit(limiter, "apply"), h.Apply)
	grp.Get("/", jobseeker, h.ListMine)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id/withdraw", jobseeker, h.Withdraw)
	grp.Patch("/:id/status", recruiter, h.UpdateStatus)
}
