// Package seed loads the bundled roles, categories and articles into the
// database. Every seeder may be run repeatedly.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"curator/internal/model"
	"curator/internal/repository"
	"curator/internal/service"
)

//go:embed data/*.json
var data embed.FS

// ErrNoAuthor is returned when articles are seeded before any user exists.
var ErrNoAuthor = errors.New("seed articles: no user to act as author, sign up first")

// CategoryData is one entry of data/categories.json.
type CategoryData struct {
	Name string `json:"name"`
}

// ArticleData is one entry of data/articles.json.
type ArticleData struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Seeder writes the bundled data through the repositories.
type Seeder struct {
	roles      repository.RoleRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	articles   repository.ArticleRepository
	articleSvc service.ArticleService
}

// New creates a seeder.
func New(
	roles repository.RoleRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	articles repository.ArticleRepository,
) *Seeder {
	return &Seeder{
		roles:      roles,
		users:      users,
		categories: categories,
		articles:   articles,
		articleSvc: service.NewArticleService(articles, categories),
	}
}

// Roles creates the admin and user roles.
func (s *Seeder) Roles(ctx context.Context) (int, error) {
	created, err := s.roles.Ensure(ctx, model.RoleAdmin, model.RoleUser)
	if err != nil {
		return 0, fmt.Errorf("seed roles: %w", err)
	}
	slog.InfoContext(ctx, "roles seeded", slog.Int("created", created))
	return created, nil
}

// Categories creates the bundled categories that do not exist yet.
func (s *Seeder) Categories(ctx context.Context) (int, error) {
	var items []CategoryData
	if err := load("data/categories.json", &items); err != nil {
		return 0, err
	}

	missing := make([]model.Category, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			slog.WarnContext(ctx, "skipping category without a name")
			continue
		}
		n, err := s.categories.Count(ctx, repository.Categories.Name.Eq(item.Name))
		if err != nil {
			return 0, fmt.Errorf("seed categories: check %q: %w", item.Name, err)
		}
		if n == 0 {
			missing = append(missing, model.Category{Name: item.Name})
		}
	}
	if err := s.categories.CreateAll(ctx, missing); err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	slog.InfoContext(ctx, "categories seeded", slog.Int("created", len(missing)))
	return len(missing), nil
}

// Articles creates the bundled articles whose title is not taken yet. They
// are written as published and authored by the admin, or by the oldest user
// when no admin exists. Their categories must have been seeded.
func (s *Seeder) Articles(ctx context.Context) (int, error) {
	var items []ArticleData
	if err := load("data/articles.json", &items); err != nil {
		return 0, err
	}
	author, err := s.author(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, item := range items {
		n, err := s.articles.Count(ctx, repository.Articles.Title.Eq(item.Title))
		if err != nil {
			return created, fmt.Errorf("seed articles: check %q: %w", item.Title, err)
		}
		if n > 0 {
			continue
		}
		category, err := s.categories.GetOneBy(ctx, repository.Categories.Name.Eq(item.Category))
		if err != nil {
			return created, fmt.Errorf("seed articles: category %q for %q: %w", item.Category, item.Title, err)
		}
		article, err := s.articleSvc.Create(ctx, author.ID, service.ArticleInput{
			Title:      item.Title,
			Content:    item.Content,
			Status:     model.ArticleStatusPublished,
			CategoryID: category.ID,
			Tags:       item.Tags,
		})
		if err != nil {
			return created, fmt.Errorf("seed articles: create %q: %w", item.Title, err)
		}
		slog.DebugContext(ctx, "article created", slog.String("slug", article.Slug))
		created++
	}
	slog.InfoContext(ctx, "articles seeded", slog.Int("created", created), slog.Uint64("author_id", uint64(author.ID)))
	return created, nil
}

func (s *Seeder) author(ctx context.Context) (*model.User, error) {
	role, err := s.roles.GetByName(ctx, model.RoleAdmin)
	switch {
	case err == nil:
		admin, err := s.users.GetOneBy(ctx, repository.Users.RoleID.Eq(role.ID))
		if err == nil {
			return admin, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("seed articles: find admin: %w", err)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("seed articles: find admin role: %w", err)
	}

	user, err := s.users.GetOneBy(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoAuthor
	}
	if err != nil {
		return nil, fmt.Errorf("seed articles: find author: %w", err)
	}
	return user, nil
}

func load(name string, v any) error {
	raw, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
