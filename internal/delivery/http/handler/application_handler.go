package handler

import (
	"bytes"
	"fmt"

	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/pkg/response"
	"jobhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	jobseekerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid jobId", nil, err)
	}

	app, err := h.uc.Apply(c.Context(), jobseekerID, jobID, req.CoverLetter)
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) Withdraw(c fiber.Ctx) error {
	jobseekerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	app, err := h.uc.Withdraw(c.Context(), jobseekerID, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	jobseekerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), jobseekerID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewApplicationList(items))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.uc.Get(c.Context(), a, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewApplicationDetailResponse(detail))
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.StatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.uc.UpdateStatus(c.Context(), recruiterID, id, req.ToInput())
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewStatusUpdateResponse(res))
}

func (h *ApplicationHandler) ListForJob(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListForJob(c.Context(), recruiterID, jobID, c.Query("status"))
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewApplicationList(items))
}

func (h *ApplicationHandler) Export(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.uc.ExportApplicants(c.Context(), recruiterID, jobID, &buf); err != nil {
		return mapError(err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="applicants-%s.xlsx"`, jobID))
	return c.Send(buf.Bytes())
}
