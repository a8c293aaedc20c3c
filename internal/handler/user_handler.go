package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/response"
	"curator/internal/service"
)

// UserHandler handles the profile endpoints of the authenticated user.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateProfileRequest holds the profile fields to change. Omitted fields
// are left untouched.
type UpdateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Photo    *string `json:"photo" validate:"omitempty,max=255"`
}

// UpdatePasswordRequest changes the caller's password.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Update godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 202 {object} response.Envelope{data=UserResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /users/update [patch]
func (h *UserHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), p.UserID(), service.ProfileUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Photo:    req.Photo,
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusAccepted, "User updated!", newUserResponse(user))
}

// UpdatePassword godoc
// @Summary Change own password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "Old and new password"
// @Success 202 {object} response.Envelope
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /users/update-password [patch]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req UpdatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.Request().Context(), p.UserID(), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return response.JSON(c, http.StatusAccepted, "Password updated!", nil)
}
