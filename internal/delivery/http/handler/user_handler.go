package handler

import (
	"errors"

	"linkup/internal/delivery/http/dto"
	"linkup/internal/delivery/http/middleware"
	"linkup/internal/domain/user"
	"linkup/internal/pkg/response"
	"linkup/internal/usecase"
	useruc "linkup/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

const (
	msgUserNotFound        = "User not found"
	msgInvalidPayload      = "Invalid request payload"
	msgTooManyUpdates      = "Too many profile updates"
	msgFetchConnections    = "Server error, unable to fetch connections"
	msgFetchProfile        = "Server error, unable to fetch profile"
	msgUpdateProfile       = "Server error, unable to update profile"
	msgUnauthorized        = "Unauthorized"
	opSuggestedConnections = "getSuggestedConnections"
	opPublicProfile        = "getPublicProfile"
	opUpdateProfile        = "updateProfile"
	opGetMe                = "getMe"
)

type UserHandler struct {
	uc   usecase.UserUsecase
	auth fiber.Handler
}

func NewUserHandler(uc usecase.UserUsecase, auth fiber.Handler) *UserHandler {
	return &UserHandler{uc: uc, auth: auth}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile/:username", h.GetPublicProfile)

	r.Get("/suggested-connections", h.auth, h.GetSuggestedConnections)
	r.Get("/me", h.auth, h.GetMe)
	r.Put("/profile", h.auth, h.UpdateProfile)
	r.Patch("/profile", h.auth, h.UpdateProfile)
}

func (h *UserHandler) GetSuggestedConnections(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, nil).WithOp(opSuggestedConnections)
	}

	items, err := h.uc.SuggestConnections(c.Context(), userID)
	if err != nil {
		return failure(opSuggestedConnections, msgFetchConnections, err)
	}
	return response.OK(c, dto.NewSuggestionsResponse(items))
}

func (h *UserHandler) GetPublicProfile(c fiber.Ctx) error {
	prof, err := h.uc.GetPublicProfile(c.Context(), c.Params("username"))
	if err != nil {
		return failure(opPublicProfile, msgFetchProfile, err)
	}
	return response.OK(c, dto.NewProfileResponse(prof))
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, nil).WithOp(opGetMe)
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return failure(opGetMe, msgFetchProfile, err)
	}
	return response.OK(c, dto.NewProfileResponse(prof))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, nil).WithOp(opUpdateProfile)
	}

	var req dto.UpdateProfileRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err).WithOp(opUpdateProfile)
		}
	}

	prof, err := h.uc.UpdateProfile(c.Context(), userID, req.Input())
	if err != nil {
		return failure(opUpdateProfile, msgUpdateProfile, err)
	}
	return response.OK(c, dto.NewProfileResponse(prof))
}

// failure maps a usecase error to its HTTP status. Anything unrecognised is a
// server error reported with the handler's fixed message.
func failure(op, serverMsg string, err error) *middleware.AppError {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgUserNotFound, nil, err).WithOp(op)
	case errors.Is(err, useruc.ErrRateLimited):
		return middleware.NewAppError(fiber.StatusTooManyRequests, msgTooManyUpdates, nil, err).WithOp(op)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, serverMsg, nil, err).WithOp(op)
	}
}
