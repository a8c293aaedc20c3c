package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the transport that reports it.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindValidation
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a kind is reported with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type returned by services. Message is safe to show to
// clients; Err holds the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New creates an error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates an error of the given kind carrying cause.
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: cause}
}

// WithCause returns a copy of e that wraps cause. The copy still matches e
// under errors.Is.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// Internal wraps an unexpected failure. The cause never reaches the client.
func Internal(cause error) *Error {
	return Wrap(KindInternal, "INTERNAL_ERROR", "Internal server error", cause)
}

// Validation reports a request that failed a business rule check.
func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = New(KindNotFound, "USER_NOT_FOUND", "User not found!")
	// ErrEmailTaken is returned when signing up or updating with a registered email.
	ErrEmailTaken = New(KindConflict, "EMAIL_TAKEN", "Email already registered!")
	// ErrUsernameTaken is returned when signing up with a registered username.
	ErrUsernameTaken = New(KindConflict, "USERNAME_TAKEN", "Username already taken!")
	// ErrUserExists is returned when a concurrent signup wins the unique index race.
	ErrUserExists = New(KindConflict, "USER_EXISTS", "User already exists!")
	// ErrRoleNotFound is returned when the requested role does not exist.
	ErrRoleNotFound = New(KindNotFound, "ROLE_NOT_FOUND", "Role not found!")
	// ErrAdminExists is returned when a second admin tries to sign up.
	ErrAdminExists = New(KindConflict, "ADMIN_EXISTS", "Admin already exists!")
	// ErrInactiveLogin is returned when a deactivated user tries to log in.
	ErrInactiveLogin = New(KindUnauthorized, "USER_INACTIVE", "You are not a active user!")
	// ErrWrongPassword is returned when a password does not verify.
	ErrWrongPassword = New(KindUnauthorized, "WRONG_PASSWORD", "Wrong password!")

	// ErrMissingToken is returned when a protected route has no bearer token.
	ErrMissingToken = New(KindUnauthorized, "TOKEN_MISSING", "Missing or malformed bearer token.")
	// ErrTokenExpired is returned when a token is well signed but past its expiry.
	ErrTokenExpired = New(KindUnauthorized, "TOKEN_EXPIRED", "Token expired!")
	// ErrTokenInvalid is returned when a token cannot be verified.
	ErrTokenInvalid = New(KindUnauthorized, "TOKEN_INVALID", "Invalid token.")
	// ErrTokenKind is returned when an access token is used where a refresh token is expected, or vice versa.
	ErrTokenKind = New(KindUnauthorized, "TOKEN_TYPE_INVALID", "Invalid token type.")
	// ErrTokenRevoked is returned for refresh tokens that were logged out.
	ErrTokenRevoked = New(KindUnauthorized, "TOKEN_REVOKED", "Token has been revoked.")
	// ErrUserDisabled is returned when an authenticated user has been deactivated.
	ErrUserDisabled = New(KindForbidden, "USER_INACTIVE", "You are not a active user!")
	// ErrPermissionDenied is returned when the caller's role lacks a permission.
	ErrPermissionDenied = New(KindForbidden, "PERMISSION_DENIED", "You don't have permission to access this resource!")

	// ErrCategoryNotFound is returned when a category id or name does not exist.
	ErrCategoryNotFound = New(KindNotFound, "CATEGORY_NOT_FOUND", "Category not found!")
	// ErrCategoryExists is returned when a category name is already used.
	ErrCategoryExists = New(KindConflict, "CATEGORY_EXISTS", "Category already exists!")
	// ErrCategoryInUse is returned when deleting a category that still owns articles.
	ErrCategoryInUse = New(KindConflict, "CATEGORY_IN_USE", "Category still has articles!")

	// ErrArticleNotFound is returned when an article id does not exist.
	ErrArticleNotFound = New(KindNotFound, "ARTICLE_NOT_FOUND", "Article not found!")
	// ErrNotArticleAuthor is returned when someone other than the author mutates an article.
	ErrNotArticleAuthor = New(KindForbidden, "NOT_AUTHOR", "You are not the author of this article!")

	// ErrSummaryDisabled is returned when no AI provider is configured.
	ErrSummaryDisabled = New(KindUnavailable, "AI_DISABLED", "AI agent is not configured.")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Data    any    `json:"data"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not an
// *Error is reported as a generic internal error.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
	return NewHTTPError(e.Kind.HTTPStatus(), e.Message, e.Code)
}
