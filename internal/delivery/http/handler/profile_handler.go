package handler

import (
	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/domain/profile"
	"jobhub/internal/pkg/response"
	"jobhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const uploadField = "file"

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	j, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewProfileResponse(j))
}

func (h *ProfileHandler) Save(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return mapError(err)
	}

	j, err := h.uc.SaveProfile(c.Context(), userID, in)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewProfileResponse(j))
}

func (h *ProfileHandler) UploadDocument(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	kind, err := profile.ParseDocumentKind(c.Params("kind"))
	if err != nil {
		return mapError(err)
	}

	fh, err := c.FormFile(uploadField)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Multipart field \"file\" is required", nil, err)
	}
	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable upload", nil, err)
	}
	defer f.Close()

	j, err := h.uc.UploadDocument(c.Context(), userID, kind, usecase.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewProfileResponse(j))
}

func (h *ProfileHandler) DeleteDocument(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	kind, err := profile.ParseDocumentKind(c.Params("kind"))
	if err != nil {
		return mapError(err)
	}

	j, err := h.uc.DeleteDocument(c.Context(), userID, kind)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewProfileResponse(j))
}
