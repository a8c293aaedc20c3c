package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"conflict", ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"unauthorized", ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"forbidden", ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
		{"validation", Validation("BAD_PAGE", "page must be positive"), http.StatusUnprocessableEntity, "BAD_PAGE"},
		{"unavailable", ErrSummaryDisabled, http.StatusServiceUnavailable, "AI_DISABLED"},
		{"wrapped domain error", fmt.Errorf("signup: %w", ErrAdminExists), http.StatusConflict, "ADMIN_EXISTS"},
		{"internal hides cause", Internal(errors.New("dial tcp: refused")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.NotContains(t, httpErr.Message, "dial tcp")
		})
	}
}

func TestErrorIs(t *testing.T) {
	wrapped := Wrap(KindUnauthorized, "TOKEN_EXPIRED", "expired", errors.New("exp"))

	assert.True(t, errors.Is(wrapped, ErrTokenExpired))
	assert.False(t, errors.Is(wrapped, ErrTokenInvalid))
	assert.False(t, errors.Is(ErrInactiveLogin, ErrUserDisabled), "same code, different kind")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("x: %w", ErrNotArticleAuthor)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, "forbidden", KindForbidden.String())
}
