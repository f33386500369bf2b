package v1

import (
	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/user"
	"jobhub/internal/infrastructure/ratelimit"

	"github.com/gofiber/fiber/v3"
)

func RegisterInterviews(r fiber.Router, h *handler.InterviewHandler, limiter ratelimit.Limiter) {
	if r == nil || h == nil {
		return
	}

	jobseeker := middleware.RequireRole(user.RoleJobseeker)
	recruiter := middleware.RequireRole(user.RoleRecruiter)
	either := middleware.RequireRole(user.RoleJobseeker, user.RoleRecruiter)

	grp := r.Group("/interviews")
	grp.Post("/schedule", recruiter, h.Schedule)
	grp.Get("/", either, h.List)
	grp.Get("/:id", either, h.Get)
	grp.Get("/:id/join", either, h.Join)

	grp.Patch("/:id/respond", jobseeker, middleware.RateLimit(limiter, "respond"), h.Respond)
	grp.Patch("/:id/request-reschedule", jobseeker, middleware.RateLimit(limiter, "respond"), h.RequestReschedule)

	grp.Patch("/:id/reschedule", recruiter, h.Reschedule)
	grp.Patch("/:id/complete", recruiter, h.Complete)
	grp.Patch("/:id/participants/:participantId/no-show", recruiter, h.MarkNoShow)
	grp.Delete("/:id", recruiter, h.Cancel)
}
