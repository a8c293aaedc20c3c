package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/response"
	"curator/internal/service"
)

// AuthHandler handles signup, login and token endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Photo    string `json:"photo" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// LoginRequest represents a user login request. Identifier is a username or
// an email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AccessTokenResponse carries a freshly minted access token.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Signup godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} response.Envelope{data=UserResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Photo:    req.Photo,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, "Signup successful! Welcome aboard!", newUserResponse(user))
}

// Login godoc
// @Summary Login with username or email
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} response.Envelope{data=service.TokenPair}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} response.ValidationResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Access granted!", pair)
}

// Auth godoc
// @Summary Current user
// @Description Returns the live profile behind an access token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=UserResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/auth [get]
func (h *AuthHandler) Auth(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Authenticated!", newUserResponse(p.User))
}

// Validate godoc
// @Summary Validate an access token
// @Description Checks the token only; storage is not consulted.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=auth.Claims}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Token validate!", p.Claims)
}

// Refresh godoc
// @Summary Mint a new access token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=AccessTokenResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/refresh [get]
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	token, err := h.authService.Refresh(c.Request().Context(), p.User)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Token validate!", AccessTokenResponse{AccessToken: token})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), p.Claims); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Logged out!", nil)
}
