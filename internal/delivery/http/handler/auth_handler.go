package handler

import (
	"jobhub/internal/delivery/http/dto"
	"jobhub/internal/delivery/http/middleware"
	"jobhub/internal/pkg/response"
	"jobhub/internal/usecase"
	ucauth "jobhub/internal/usecase/auth"
	ucuser "jobhub/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc       usecase.AuthUsecase
	accounts usecase.AccountUsecase
}

func NewAuthHandler(uc usecase.AuthUsecase, accounts usecase.AccountUsecase) *AuthHandler {
	return &AuthHandler{uc: uc, accounts: accounts}
}

// RegisterRoutes mounts the public endpoints. Me and ChangePassword need the
// auth middleware and are mounted by the caller.
func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	usr, tokens, err := h.uc.Register(c.Context(), ucauth.RegisterInput{Email: req.Email, Password: req.Password, Role: req.Role})
	if err != nil {
		return mapError(err)
	}

	return response.Created(c, dto.AuthResponse{User: dto.NewUserResponse(usr), TokenResponse: dto.NewTokenResponse(tokens)})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	usr, tokens, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapError(err)
	}

	return response.OK(c, dto.AuthResponse{User: dto.NewUserResponse(usr), TokenResponse: dto.NewTokenResponse(tokens)})
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	tokens, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewTokenResponse(tokens))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	usr, err := h.accounts.GetMe(c.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return response.OK(c, dto.NewUserResponse(usr))
}

func (h *AuthHandler) ChangePassword(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ucuser.ChangePasswordInput{CurrentPassword: req.CurrentPassword, NewPassword: req.NewPassword}
	if err := h.accounts.ChangePassword(c.Context(), userID, in); err != nil {
		return mapError(err)
	}
	return response.OK(c, nil)
}
