package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "curator/internal/errors"
	"curator/internal/model"
)

const (
	// AccessTokenExpiry is the default duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the default duration for which refresh tokens are valid.
	RefreshTokenExpiry = 24 * time.Hour
)

// TokenKind tells access tokens and refresh tokens apart.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims represents JWT claims. Access tokens carry a snapshot of the
// profile taken at issuance; refresh tokens only carry the user id.
type Claims struct {
	UserID   uint      `json:"id"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	FullName string    `json:"full_name,omitempty"`
	Photo    string    `json:"photo,omitempty"`
	Role     string    `json:"role,omitempty"`
	Kind     TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// AccessClaims snapshots the profile fields of user.
func AccessClaims(user *model.User) *Claims {
	return &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Photo:    user.Photo,
		Role:     user.Role.Name,
	}
}

// RefreshClaims returns the minimal claims of a refresh token.
func RefreshClaims(userID uint) *Claims {
	return &Claims{UserID: userID}
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// JWTOption customizes a JWTService.
type JWTOption func(*JWTService)

// WithSigningMethod sets the HMAC algorithm. Defaults to HS256.
func WithSigningMethod(m jwt.SigningMethod) JWTOption {
	return func(s *JWTService) { s.method = m }
}

// WithTTL sets the lifetimes of access and refresh tokens.
func WithTTL(access, refresh time.Duration) JWTOption {
	return func(s *JWTService) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

// WithClock overrides the issuance clock.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secret:     []byte(secret),
		method:     jwt.SigningMethodHS256,
		accessTTL:  AccessTokenExpiry,
		refreshTTL: RefreshTokenExpiry,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseAlgorithm resolves an HMAC algorithm name such as HS256.
func ParseAlgorithm(name string) (jwt.SigningMethod, error) {
	m := jwt.GetSigningMethod(name)
	if _, ok := m.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", name)
	}
	return m, nil
}

// TTL returns the lifetime of tokens of the given kind.
func (s *JWTService) TTL(kind TokenKind) time.Duration {
	if kind == TokenRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Create stamps claims with kind, a fresh token id, issue time and expiry,
// then signs them.
func (s *JWTService) Create(claims *Claims, kind TokenKind) (string, error) {
	now := s.now()
	claims.Kind = kind
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        generateTokenID(),
		Subject:   fmt.Sprint(claims.UserID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(kind))),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Validate verifies the signature, algorithm and expiry of tokenString.
// An expired token yields ErrTokenExpired; any other failure, including a bad
// signature on an expired token, yields ErrTokenInvalid.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{s.method.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, apperrors.ErrTokenExpired.WithCause(err)
		}
		return nil, apperrors.ErrTokenInvalid.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.Kind != TokenAccess && claims.Kind != TokenRefresh {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// generateTokenID generates a unique token ID.
func generateTokenID() string {
	return uuid.New().String()
}
