package auth

import (
	"context"
	"errors"
	"log/slog"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "curator/internal/errors"
	"curator/internal/model"
	"curator/internal/repository"
)

const principalContextKey = "principal"

// UserLookup loads the live user behind a token.
type UserLookup interface {
	GetFullUser(ctx context.Context, id uint) (*model.User, error)
}

// Principal is the authenticated caller of a request. User is nil when only
// the token was checked.
type Principal struct {
	User   *model.User
	Claims *Claims
}

// UserID returns the id of the caller.
func (p *Principal) UserID() uint {
	if p.User != nil {
		return p.User.ID
	}
	return p.Claims.UserID
}

// Gate authenticates bearer tokens against live users and enforces
// permissions.
type Gate struct {
	jwt    *JWTService
	users  UserLookup
	tokens TokenStoreInterface
}

// NewGate creates a gate. tokens may be nil, in which case refresh tokens are
// never considered revoked.
func NewGate(jwtService *JWTService, users UserLookup, tokens TokenStoreInterface) *Gate {
	return &Gate{jwt: jwtService, users: users, tokens: tokens}
}

// Authenticate validates raw as a token of the expected kind, loads the live
// user and checks that the user is active and holds every permission in
// perms.
func (g *Gate) Authenticate(ctx context.Context, raw string, kind TokenKind, perms ...Permission) (*Principal, error) {
	claims, err := g.verify(ctx, raw, kind)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetFullUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		slog.ErrorContext(ctx, "load user for token", slog.Uint64("user_id", uint64(claims.UserID)), slog.Any("error", err))
		return nil, apperrors.Internal(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserDisabled
	}
	if !Grants(user.Role.Name, perms...) {
		return nil, apperrors.ErrPermissionDenied
	}
	return &Principal{User: user, Claims: claims}, nil
}

// verify runs the token-only part of Authenticate.
func (g *Gate) verify(ctx context.Context, raw string, kind TokenKind) (*Claims, error) {
	if raw == "" {
		return nil, apperrors.ErrMissingToken
	}
	claims, err := g.jwt.Validate(raw)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, apperrors.ErrTokenKind
	}
	if kind == TokenRefresh && g.tokens != nil {
		revoked, err := g.tokens.IsRefreshTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if revoked {
			return nil, apperrors.ErrTokenRevoked
		}
	}
	return claims, nil
}

// Middleware protects a route with Authenticate. The principal is available
// to handlers through PrincipalFrom.
func (g *Gate) Middleware(kind TokenKind, perms ...Permission) echo.MiddlewareFunc {
	return g.middleware(func(c echo.Context, raw string) (interface{}, error) {
		return g.Authenticate(c.Request().Context(), raw, kind, perms...)
	})
}

// TokenMiddleware only verifies the token, without touching storage.
func (g *Gate) TokenMiddleware(kind TokenKind) echo.MiddlewareFunc {
	return g.middleware(func(c echo.Context, raw string) (interface{}, error) {
		claims, err := g.verify(c.Request().Context(), raw, kind)
		if err != nil {
			return nil, err
		}
		return &Principal{Claims: claims}, nil
	})
}

func (g *Gate) middleware(parse func(c echo.Context, raw string) (interface{}, error)) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:     principalContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: parse,
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *apperrors.Error
			if errors.As(err, &appErr) {
				return appErr
			}
			return apperrors.ErrMissingToken.WithCause(err)
		},
	})
}

// SetPrincipal stores p on the request context the way the gate middleware
// does.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalContextKey, p)
}

// PrincipalFrom returns the principal stored by the gate middleware.
func PrincipalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(principalContextKey).(*Principal)
	return p, ok && p != nil
}
