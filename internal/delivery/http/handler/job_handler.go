package handler

import (
	"strings"

	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/pkg/response"
	"jobhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) ListOpen(c fiber.Ctx) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	page, err := h.uc.ListOpenJobs(c.Context(), usecase.JobListParams{
		Query:    strings.TrimSpace(c.Query("q")),
		Location: strings.TrimSpace(c.Query("location")),
		Type:     strings.TrimSpace(c.Query("type")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return mapError(err)
	}

	return response.OK(c, response.Page{
		Items:  dto.NewJobList(page.Items),
		Total:  page.Total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *JobHandler) GetOpen(c fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	j, err := h.uc.GetOpenJob(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewJobResponse(j))
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.JobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	j, err := h.uc.CreateJob(c.Context(), recruiterID, req.ToInput())
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, dto.NewJobResponse(j))
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.JobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	j, err := h.uc.UpdateJob(c.Context(), recruiterID, id, req.ToInput())
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewJobResponse(j))
}

func (h *JobHandler) Deactivate(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	j, err := h.uc.DeactivateJob(c.Context(), recruiterID, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewJobResponse(j))
}

func (h *JobHandler) ListMine(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMyJobs(c.Context(), recruiterID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewJobList(items))
}
