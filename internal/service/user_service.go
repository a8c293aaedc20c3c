package service

import (
	"context"
	"errors"
	"log/slog"

	"curator/internal/auth"
	apperrors "curator/internal/errors"
	"curator/internal/model"
	"curator/internal/pagination"
	"curator/internal/repository"
)

// ProfileUpdate holds the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Email    *string
	FullName *string
	Photo    *string
}

// UserQuery holds the filters of the admin user listing.
type UserQuery struct {
	Key      string
	Role     string
	IsActive *bool
	Page     int
	Limit    int
}

// UserService exposes profile and account management operations.
type UserService interface {
	UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, userID uint, newPassword string) error
	Search(ctx context.Context, q UserQuery) (*pagination.Page[model.User], error)
	ToggleStatus(ctx context.Context, userID uint) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher) UserService {
	return &userService{repo: repo, hasher: hasher}
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*model.User, error) {
	var assigns []repository.Assignment
	if in.Email != nil {
		other, err := s.repo.GetOneBy(ctx, repository.Users.Email.Eq(*in.Email))
		switch {
		case err == nil && other.ID != userID:
			return nil, apperrors.ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, unexpected(ctx, "check email", err)
		}
		assigns = append(assigns, repository.Users.Email.Set(*in.Email))
	}
	if in.FullName != nil {
		assigns = append(assigns, repository.Users.FullName.Set(*in.FullName))
	}
	if in.Photo != nil {
		assigns = append(assigns, repository.Users.Photo.Set(*in.Photo))
	}

	user, err := s.repo.UpdateByID(ctx, userID, assigns...)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, notFoundAs(ctx, "update profile", err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// ChangePassword replaces the password of the caller after checking the
// current one.
func (s *userService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	return s.setPassword(ctx, userID, &oldPassword, newPassword)
}

// ResetPassword replaces a user's password without checking the old one.
func (s *userService) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	return s.setPassword(ctx, userID, nil, newPassword)
}

func (s *userService) setPassword(ctx context.Context, userID uint, oldPassword *string, newPassword string) error {
	user, err := s.repo.GetFullUser(ctx, userID)
	if err != nil {
		return notFoundAs(ctx, "load user", err, apperrors.ErrUserNotFound)
	}
	if oldPassword != nil && !s.hasher.Verify(*oldPassword, user.PasswordHash) {
		return apperrors.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return unexpected(ctx, "hash password", err)
	}
	if _, err := s.repo.UpdateByID(ctx, userID, repository.Users.PasswordHash.Set(hash)); err != nil {
		return notFoundAs(ctx, "store password", err, apperrors.ErrUserNotFound)
	}

	slog.InfoContext(ctx, "password updated", slog.Uint64("user_id", uint64(userID)), slog.Bool("forced", oldPassword == nil))
	return nil
}

func (s *userService) Search(ctx context.Context, q UserQuery) (*pagination.Page[model.User], error) {
	offset, err := pagination.Offset(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	users, total, err := s.repo.Search(ctx, repository.UserSearch{
		Key:      q.Key,
		Role:     q.Role,
		IsActive: q.IsActive,
		Limit:    q.Limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, unexpected(ctx, "search users", err)
	}
	p, err := pagination.Calculate(total, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	return &pagination.Page[model.User]{Pagination: p, Data: users}, nil
}

// ToggleStatus flips the active flag of a user.
func (s *userService) ToggleStatus(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.GetFullUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(ctx, "load user", err, apperrors.ErrUserNotFound)
	}
	updated, err := s.repo.UpdateByID(ctx, userID, repository.Users.IsActive.Set(!user.IsActive))
	if err != nil {
		return nil, notFoundAs(ctx, "toggle status", err, apperrors.ErrUserNotFound)
	}
	slog.InfoContext(ctx, "user status changed", slog.Uint64("user_id", uint64(userID)), slog.Bool("active", updated.IsActive))
	return updated, nil
}
