package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/response"
	"curator/internal/service"
)

// RoleHandler lists roles.
type RoleHandler struct {
	roles service.RoleService
}

// NewRoleHandler creates a role handler.
func NewRoleHandler(roles service.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List godoc
// @Summary List role names
// @Tags roles
// @Produce json
// @Success 200 {object} response.Envelope{data=[]string}
// @Router /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	names, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Roles available", names)
}
