package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

const fallbackSlug = "article"

// SlugTaken reports whether slug already belongs to another row.
type SlugTaken func(ctx context.Context, slug string) (bool, error)

// UniqueSlug slugifies title and, while the result is taken, appends -1, -2
// and so on. It returns the first free candidate.
func UniqueSlug(ctx context.Context, title string, taken SlugTaken) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for i := 1; ; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
