package v1

import (
	"jobhub/internal/delivery/http/handler"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

func RegisterAccount(r fiber.Router, h *handler.AuthHandler) {
	if r == nil || h == nil {
		return
	}

	r.Get("/auth/me", h.Me)
	r.Patch("/auth/password", h.ChangePassword)
}

func RegisterProfile(r fiber.Router, h *handler.ProfileHandler) {
	if r == nil || h == nil {
		return
	}

	grp := r.Group("/profile/jobseeker", middleware.RequireRole(user.RoleJobseeker))
	grp.Get("/", h.Get)
	grp.Post("/", h.Save)
	grp.Post("/documents/:kind", h.UploadDocument)
	grp.Delete("/documents/:kind", h.DeleteDocument)
}

func RegisterCompanies(r fiber.Router, h *handler.CompanyHandler) {
	if r == nil || h == nil {
		return
	}

	recruiter := r.Group("/recruiter/company", middleware.RequireRole(user.RoleRecruiter))
	recruiter.Get("/", h.GetMine)
	recruiter.Put("/", h.SaveMine)

	admin := r.Group("/admin/companies", middleware.RequireRole(user.RoleAdmin))
	admin.Get("/", h.List)
	admin.Patch("/:id/verify", h.Verify)
	admin.Patch("/:id/reject", h.Reject)
}
