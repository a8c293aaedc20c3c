package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"curator/internal/auth"
	"curator/internal/config"
	apperrors "curator/internal/errors"
	"curator/internal/handler"
	"curator/internal/logger"
	"curator/internal/metrics"
	"curator/internal/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	AdminUsers *handler.AdminUserHandler
	Articles   *handler.ArticleHandler
	Categories *handler.CategoryHandler
	Roles      *handler.RoleHandler
	Agent      *handler.AgentHandler
}

// Deps holds the collaborators Register needs besides the handlers.
type Deps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Gate    *auth.Gate
	Metrics *metrics.Metrics
	DB      Pinger
}

// Register wires middleware and routes.
func Register(e *echo.Echo, deps Deps, h Handlers) {
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(deps.Metrics.Middleware())
	e.Use(logger.RequestLogger(deps.Logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: deps.Config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", health(deps.DB))
	e.GET("/metrics", deps.Metrics.Handler())
	if deps.Config.DocsEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	gate := deps.Gate
	access := gate.Middleware(auth.TokenAccess)
	refresh := gate.Middleware(auth.TokenRefresh)

	api := e.Group("/api/v1")

	users := api.Group("/users")
	users.POST("/signup", h.Auth.Signup)
	users.POST("/login", h.Auth.Login)
	users.GET("/auth", h.Auth.Auth, access)
	users.GET("/validate", h.Auth.Validate, gate.TokenMiddleware(auth.TokenAccess))
	users.GET("/refresh", h.Auth.Refresh, refresh)
	users.POST("/logout", h.Auth.Logout, gate.TokenMiddleware(auth.TokenRefresh))
	users.PATCH("/update", h.Users.Update, access)
	users.PATCH("/update-password", h.Users.UpdatePassword, access)

	admin := api.Group("/admin/users", gate.Middleware(auth.TokenAccess, auth.PermManageUsers))
	admin.GET("", h.AdminUsers.Search)
	admin.PATCH("/status/:id", h.AdminUsers.ToggleStatus)
	admin.PATCH("/password/:id", h.AdminUsers.ResetPassword)

	articles := api.Group("/articles")
	writeArticles := gate.Middleware(auth.TokenAccess, auth.PermWriteArticles)
	articles.GET("", h.Articles.Search)
	articles.GET("/:id", h.Articles.Get)
	articles.POST("", h.Articles.Create, writeArticles)
	articles.PATCH("/:id", h.Articles.Update, writeArticles)
	articles.DELETE("/:id", h.Articles.Delete, writeArticles)

	manageCategories := gate.Middleware(auth.TokenAccess, auth.PermManageCategories)
	for _, prefix := range []string{"/categories", "/categoris"} {
		categories := api.Group(prefix)
		categories.GET("", h.Categories.Search)
		categories.GET("/:id", h.Categories.Get)
		categories.POST("", h.Categories.Create, manageCategories)
		categories.PATCH("/:id", h.Categories.Update, manageCategories)
		categories.DELETE("/:id", h.Categories.Delete, manageCategories)
	}

	api.GET("/roles", h.Roles.List)
	api.GET("/ai-agent/:article_id", h.Agent.Analyze, gate.Middleware(auth.TokenAccess, auth.PermUseAIAgent))
}

func health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", slog.Any("error", err))
			return c.JSON(http.StatusServiceUnavailable, response.Envelope{Success: false, Message: "database unavailable"})
		}
		return response.JSON(c, http.StatusOK, "ok", nil)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every error returned by a handler or middleware as
// an envelope. Validation failures become 422 with per-field details.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		verrs  validator.ValidationErrors
		appErr *apperrors.Error
		he     *echo.HTTPError
	)
	var writeErr error
	switch {
	case errors.As(err, &verrs):
		writeErr = response.Validation(c, http.StatusUnprocessableEntity, fieldErrors(verrs))
	case errors.As(err, &appErr):
		if appErr.Kind == apperrors.KindInternal {
			slog.ErrorContext(c.Request().Context(), "request failed", slog.Any("error", appErr.Unwrap()))
		}
		writeErr = response.Error(c, appErr)
	case errors.As(err, &he):
		writeErr = c.JSON(he.Code, apperrors.ErrorResponse{
			Success: false,
			Message: httpErrorMessage(he),
			Code:    strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")),
		})
	default:
		slog.ErrorContext(c.Request().Context(), "unhandled error", slog.Any("error", err))
		writeErr = response.Error(c, err)
	}
	if writeErr != nil {
		slog.ErrorContext(c.Request().Context(), "write error response", slog.Any("error", writeErr))
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}

func fieldErrors(verrs validator.ValidationErrors) []response.FieldError {
	details := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, response.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fe.Field() + " must be at least " + fe.Param() + " characters long"
		}
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fe.Field() + " must be at most " + fe.Param() + " characters long"
		}
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
