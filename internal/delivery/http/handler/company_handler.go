package handler

import (
	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/domain/company"
	"jobhub/internal/pkg/response"
	"jobhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CompanyHandler struct {
	uc usecase.CompanyUsecase
}

func NewCompanyHandler(uc usecase.CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func (h *CompanyHandler) GetMine(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	co, err := h.uc.GetMyCompany(c.Context(), recruiterID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewCompanyResponse(co))
}

func (h *CompanyHandler) SaveMine(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	co, err := h.uc.SaveMyCompany(c.Context(), recruiterID, req.ToInput())
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewCompanyResponse(co))
}

// List serves the admin queue. ?status= takes a comma separated list and
// defaults to both pending states.
func (h *CompanyHandler) List(c fiber.Ctx) error {
	var statuses []company.Status
	for _, raw := range csvQuery(c.Query("status")) {
		st, err := company.ParseStatus(raw)
		if err != nil {
			return mapError(err)
		}
		statuses = append(statuses, st)
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListCompanies(c.Context(), statuses, limit, offset)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewCompanyList(items))
}

func (h *CompanyHandler) Verify(c fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.VerifyCompanyRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	co, err := h.uc.Verify(c.Context(), adminID, id, req.Notes)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewCompanyResponse(co))
}

func (h *CompanyHandler) Reject(c fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RejectCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	co, err := h.uc.Reject(c.Context(), adminID, id, req.Reason)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewCompanyResponse(co))
}
