package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/pagination"
	"curator/internal/response"
	"curator/internal/service"
)

const (
	defaultUserPageSize     = 10
	defaultCategoryPageSize = 20
)

// AdminUserHandler handles user management endpoints reserved to admins.
type AdminUserHandler struct {
	users service.UserService
}

// NewAdminUserHandler creates an admin user handler.
func NewAdminUserHandler(users service.UserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// ResetPasswordRequest sets a user's password without the old one.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Pagination pagination.Pagination `json:"pagination"`
	Data       []UserResponse        `json:"data"`
}

// Search godoc
// @Summary Search users
// @Description key matches username, email or full name. role and is_active are optional filters.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param key query string false "Search key"
// @Param role query string false "Role name"
// @Param is_active query bool false "Active flag"
// @Param page query int false "Page, 1-based" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} response.Envelope{data=UserPage}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminUserHandler) Search(c echo.Context) error {
	q := service.UserQuery{Page: 1, Limit: defaultUserPageSize}
	var active bool
	err := echo.QueryParamsBinder(c).
		String("key", &q.Key).
		String("role", &q.Role).
		Bool("is_active", &active).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if c.QueryParam("is_active") != "" {
		q.IsActive = &active
	}

	page, err := h.users.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Users retrieved!", UserPage{
		Pagination: page.Pagination,
		Data:       newUserResponses(page.Data),
	})
}

// ToggleStatus godoc
// @Summary Activate or deactivate a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope{data=UserResponse}
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/status/{id} [patch]
func (h *AdminUserHandler) ToggleStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "User status changed!", newUserResponse(user))
}

// ResetPassword godoc
// @Summary Force a new password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body ResetPasswordRequest true "New password"
// @Success 202 {object} response.Envelope
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /admin/users/password/{id} [patch]
func (h *AdminUserHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.users.ResetPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return err
	}
	return response.JSON(c, http.StatusAccepted, "Password updated!", nil)
}
