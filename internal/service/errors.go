package service

import (
	"context"
	"errors"
	"log/slog"

	apperrors "curator/internal/errors"
	"curator/internal/repository"
)

// unexpected logs err and hides it behind a generic internal error.
func unexpected(ctx context.Context, op string, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	slog.ErrorContext(ctx, op+" failed", slog.Any("error", err))
	return apperrors.Internal(err)
}

// notFoundAs maps repository.ErrNotFound to target and any other failure to
// an internal error.
func notFoundAs(ctx context.Context, op string, err error, target *apperrors.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return unexpected(ctx, op, err)
}
