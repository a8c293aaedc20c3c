package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"curator/internal/cache"
	apperrors "curator/internal/errors"
	"curator/internal/model"
	"curator/internal/pagination"
	"curator/internal/repository"
)

const categoryCacheTTL = 10 * time.Minute

// CategoryService manages article categories.
type CategoryService interface {
	Search(ctx context.Context, name string, page, limit int) (*pagination.Page[model.Category], error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, name string) (*model.Category, error)
	Update(ctx context.Context, id uint, name string) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	articles repository.ArticleRepository
	cache    *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(repo repository.CategoryRepository, articles repository.ArticleRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, articles: articles, cache: cache}
}

func (s *categoryService) cacheKey(id uint) string {
	return fmt.Sprintf("category:%d", id)
}

func (s *categoryService) Search(ctx context.Context, name string, page, limit int) (*pagination.Page[model.Category], error) {
	offset, err := pagination.Offset(page, limit)
	if err != nil {
		return nil, err
	}
	items, total, err := s.repo.Search(ctx, name, limit, offset)
	if err != nil {
		return nil, unexpected(ctx, "search categories", err)
	}
	p, err := pagination.Calculate(total, page, limit)
	if err != nil {
		return nil, err
	}
	return &pagination.Page[model.Category]{Pagination: p, Data: items}, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	var cached model.Category
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(ctx, "get category", err, apperrors.ErrCategoryNotFound)
	}
	s.cache.SetJSON(ctx, s.cacheKey(id), category, categoryCacheTTL)
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	category := &model.Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, unexpected(ctx, "create category", err)
	}
	slog.InfoContext(ctx, "category created", slog.Uint64("category_id", uint64(category.ID)), slog.String("name", name))
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, name string) (*model.Category, error) {
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	category, err := s.repo.UpdateByID(ctx, id, repository.Categories.Name.Set(name))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, notFoundAs(ctx, "update category", err, apperrors.ErrCategoryNotFound)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return category, nil
}

// Delete removes a category that no article uses anymore.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	inUse, err := s.articles.Count(ctx, repository.Articles.CategoryID.Eq(id))
	if err != nil {
		return unexpected(ctx, "count category articles", err)
	}
	if inUse > 0 {
		return apperrors.ErrCategoryInUse
	}

	deleted, err := s.repo.DeleteBy(ctx, repository.Categories.ID.Eq(id))
	if err != nil {
		return unexpected(ctx, "delete category", err)
	}
	if !deleted {
		return apperrors.ErrCategoryNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *categoryService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.repo.GetOneBy(ctx, repository.Categories.Name.Eq(name))
	if err == nil && existing.ID != selfID {
		return apperrors.ErrCategoryExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return unexpected(ctx, "check category name", err)
	}
	return nil
}
