package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "curator/internal/errors"
	"curator/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:       7,
		Username: "jdoe",
		Email:    "jdoe@example.com",
		FullName: "John Doe",
		Photo:    "jdoe.png",
		IsActive: true,
		Role:     model.Role{ID: 2, Name: model.RoleUser},
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	raw, err := svc.Create(AccessClaims(testUser()), TokenAccess)
	require.NoError(t, err)

	claims, err := svc.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "jdoe@example.com", claims.Email)
	assert.Equal(t, "John Doe", claims.FullName)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, TokenAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_RefreshCarriesOnlyID(t *testing.T) {
	svc := NewJWTService("test-secret", WithTTL(0, 2*time.Hour))

	raw, err := svc.Create(RefreshClaims(7), TokenRefresh)
	require.NoError(t, err)

	claims, err := svc.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, claims.Kind)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_Expired(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-time.Hour) }
	svc := NewJWTService("test-secret", WithClock(past))

	raw, err := svc.Create(AccessClaims(testUser()), TokenAccess)
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_Invalid(t *testing.T) {
	svc := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	good, err := svc.Create(AccessClaims(testUser()), TokenAccess)
	require.NoError(t, err)
	forged, err := other.Create(AccessClaims(testUser()), TokenAccess)
	require.NoError(t, err)

	expiredForged, err := NewJWTService("other-secret", WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	})).Create(AccessClaims(testUser()), TokenAccess)
	require.NoError(t, err)

	hs512, err := NewJWTService("test-secret", WithSigningMethod(jwt.SigningMethodHS512)).
		Create(AccessClaims(testUser()), TokenAccess)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", forged},
		{"expired and wrong secret", expiredForged},
		{"tampered payload", tamper(good)},
		{"different algorithm", hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
			assert.NotErrorIs(t, err, apperrors.ErrTokenExpired)
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	m, err := ParseAlgorithm("HS384")
	require.NoError(t, err)
	assert.Equal(t, "HS384", m.Alg())

	_, err = ParseAlgorithm("RS256")
	assert.Error(t, err)
	_, err = ParseAlgorithm("none")
	assert.Error(t, err)
}

func tamper(token string) string {
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[len(payload)-2] == 'A' {
		payload[len(payload)-2] = 'B'
	} else {
		payload[len(payload)-2] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
