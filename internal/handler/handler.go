package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"curator/internal/auth"
	apperrors "curator/internal/errors"
)

var errInvalidID = apperrors.Validation("INVALID_ID", "Invalid id.")

// bind decodes the request into req and runs the registered validator.
// Validation failures are returned untouched so the central error handler
// can render field details.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func principal(c echo.Context) (*auth.Principal, error) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return nil, apperrors.ErrMissingToken
	}
	return p, nil
}
