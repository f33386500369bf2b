package handler

import (
	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/pkg/response"
	"jobhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type InterviewHandler struct {
	uc usecase.InterviewUsecase
}

func NewInterviewHandler(uc usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) Schedule(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.ScheduleInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return mapError(err)
	}

	iv, err := h.uc.Schedule(c.Context(), recruiterID, in)
	if err != nil {
		return mapError(err)
	}
	return response.Created(c, dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) List(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), a)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInterviewList(items))
}

func (h *InterviewHandler) Get(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	iv, err := h.uc.Get(c.Context(), a, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) Join(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	info, err := h.uc.Join(c.Context(), a, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewJoinResponse(info))
}

func (h *InterviewHandler) Respond(c fiber.Ctx) error {
	jobseekerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RespondInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Respond(c.Context(), jobseekerID, id, req.Response)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewParticipantResponse(p))
}

func (h *InterviewHandler) RequestReschedule(c fiber.Ctx) error {
	jobseekerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RequestRescheduleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.uc.RequestReschedule(c.Context(), jobseekerID, id, req.Reason)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewParticipantResponse(p))
}

func (h *InterviewHandler) Reschedule(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RescheduleInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	iv, err := h.uc.Reschedule(c.Context(), recruiterID, id, req.ToInput())
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInterviewResponse(iv))
}

// Complete finishes the whole interview, or one participant when the body
// names participantId.
func (h *InterviewHandler) Complete(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CompleteInterviewRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	pid, err := req.Participant()
	if err != nil {
		return mapError(err)
	}

	iv, err := h.uc.Complete(c.Context(), recruiterID, id, pid)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) MarkNoShow(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	pid, err := paramUUID(c, "participantId")
	if err != nil {
		return err
	}

	iv, err := h.uc.MarkNoShow(c.Context(), recruiterID, id, pid)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) Cancel(c fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	iv, err := h.uc.Cancel(c.Context(), recruiterID, id)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewInterviewResponse(iv))
}
