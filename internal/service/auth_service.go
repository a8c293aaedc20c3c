package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"curator/internal/auth"
	apperrors "curator/internal/errors"
	"curator/internal/model"
	"curator/internal/repository"
)

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Username string
	Email    string
	FullName string
	Photo    string
	Password string
	Role     string
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, identifier, password string) (*TokenPair, error)
	Refresh(ctx context.Context, user *model.User) (accessToken string, err error)
	Logout(ctx context.Context, refreshClaims *auth.Claims) error
}

type authService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		users:      users,
		roles:      roles,
		hasher:     hasher,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Signup creates an active account with a hashed password. Only one admin
// may exist.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	if err := s.ensureFree(ctx, repository.Users.Email.Eq(in.Email), apperrors.ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, repository.Users.Username.Eq(in.Username), apperrors.ErrUsernameTaken); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, in.Role)
	if err != nil {
		return nil, notFoundAs(ctx, "resolve role", err, apperrors.ErrRoleNotFound)
	}
	if role.Name == model.RoleAdmin {
		admins, err := s.users.Count(ctx, repository.Users.RoleID.Eq(role.ID))
		if err != nil {
			return nil, unexpected(ctx, "count admins", err)
		}
		if admins > 0 {
			return nil, apperrors.ErrAdminExists
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, unexpected(ctx, "hash password", err)
	}

	user, err := s.users.Create(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Photo:        in.Photo,
		PasswordHash: hash,
		IsActive:     true,
		RoleID:       role.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrUserExists
		}
		return nil, unexpected(ctx, "create user", err)
	}

	slog.InfoContext(ctx, "user signed up", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", role.Name))
	return user, nil
}

func (s *authService) ensureFree(ctx context.Context, cond repository.Condition, conflict *apperrors.Error) error {
	_, err := s.users.GetOneBy(ctx, cond)
	if err == nil {
		return conflict
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return unexpected(ctx, "check user uniqueness", err)
}

// Login authenticates a user by username or email and issues a token pair.
func (s *authService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, notFoundAs(ctx, "find user", err, apperrors.ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveLogin
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		slog.InfoContext(ctx, "login rejected", slog.Uint64("user_id", uint64(user.ID)))
		return nil, apperrors.ErrWrongPassword
	}

	accessToken, err := s.jwtService.Create(auth.AccessClaims(user), auth.TokenAccess)
	if err != nil {
		return nil, unexpected(ctx, "generate access token", err)
	}
	refreshToken, err := s.jwtService.Create(auth.RefreshClaims(user.ID), auth.TokenRefresh)
	if err != nil {
		return nil, unexpected(ctx, "generate refresh token", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token from the live user behind a refresh token.
func (s *authService) Refresh(ctx context.Context, user *model.User) (string, error) {
	accessToken, err := s.jwtService.Create(auth.AccessClaims(user), auth.TokenAccess)
	if err != nil {
		return "", unexpected(ctx, "generate access token", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token until it expires.
func (s *authService) Logout(ctx context.Context, refreshClaims *auth.Claims) error {
	if refreshClaims == nil || refreshClaims.ID == "" || refreshClaims.ExpiresAt == nil {
		return apperrors.ErrTokenInvalid
	}
	ttl := time.Until(refreshClaims.ExpiresAt.Time)
	if err := s.tokenStore.RevokeRefreshToken(ctx, refreshClaims.ID, ttl); err != nil {
		return unexpected(ctx, "revoke refresh token", err)
	}
	return nil
}
