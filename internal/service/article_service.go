package service

import (
	"context"
	"errors"
	"log/slog"

	apperrors "curator/internal/errors"
	"curator/internal/model"
	"curator/internal/repository"
)

// ArticleInput carries the fields of a new article.
type ArticleInput struct {
	Title      string
	Content    string
	Status     model.ArticleStatus
	ThumbImage string
	CoverImage string
	CategoryID uint
	Tags       []string
}

// ArticlePatch holds the article fields to change. Nil fields are left
// untouched; a nil Tags keeps the current tags.
type ArticlePatch struct {
	Title      *string
	Content    *string
	Status     *model.ArticleStatus
	ThumbImage *string
	CoverImage *string
	CategoryID *uint
	Tags       []string
}

// ArticleQuery holds the filters of the public article search. An empty
// Status matches articles in every state.
type ArticleQuery struct {
	Keys     string
	Category string
	Tag      string
	Status   model.ArticleStatus
	Limit    int
	Offset   int
}

// ArticleList is one page of search results with the total match count.
type ArticleList struct {
	Total    int64
	Articles []model.Article
}

// ErrInvalidStatus is returned for an unknown article status.
var ErrInvalidStatus = apperrors.Validation("INVALID_STATUS", "status must be one of published, draft, archived")

// ArticleService manages articles. Only the author of an article may change
// or delete it.
type ArticleService interface {
	Search(ctx context.Context, q ArticleQuery) (*ArticleList, error)
	Get(ctx context.Context, id uint) (*model.Article, error)
	Create(ctx context.Context, authorID uint, in ArticleInput) (*model.Article, error)
	Update(ctx context.Context, callerID, id uint, patch ArticlePatch) (*model.Article, error)
	Delete(ctx context.Context, callerID, id uint) error
}

type articleService struct {
	repo       repository.ArticleRepository
	categories repository.CategoryRepository
}

// NewArticleService builds an ArticleService.
func NewArticleService(repo repository.ArticleRepository, categories repository.CategoryRepository) ArticleService {
	return &articleService{repo: repo, categories: categories}
}

func (s *articleService) Search(ctx context.Context, q ArticleQuery) (*ArticleList, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, apperrors.Validation("INVALID_PAGE", "limit must be positive and offset not negative")
	}
	search := repository.ArticleSearch{
		Keys:     q.Keys,
		Category: q.Category,
		Tag:      q.Tag,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Status != "" {
		if !q.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		search.Status = &q.Status
	}
	articles, total, err := s.repo.Search(ctx, search)
	if err != nil {
		return nil, unexpected(ctx, "search articles", err)
	}
	return &ArticleList{Total: total, Articles: articles}, nil
}

func (s *articleService) Get(ctx context.Context, id uint) (*model.Article, error) {
	article, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, notFoundAs(ctx, "get article", err, apperrors.ErrArticleNotFound)
	}
	return article, nil
}

func (s *articleService) Create(ctx context.Context, authorID uint, in ArticleInput) (*model.Article, error) {
	if in.Status == "" {
		in.Status = model.ArticleStatusPublished
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := UniqueSlug(ctx, in.Title, s.slugTaken(0))
	if err != nil {
		return nil, unexpected(ctx, "generate slug", err)
	}

	article, err := s.repo.Create(ctx, &model.Article{
		Title:      in.Title,
		Slug:       slug,
		Content:    in.Content,
		Status:     in.Status,
		ThumbImage: in.ThumbImage,
		CoverImage: in.CoverImage,
		AuthorID:   authorID,
		CategoryID: in.CategoryID,
	}, in.Tags)
	if err != nil {
		return nil, unexpected(ctx, "create article", err)
	}
	slog.InfoContext(ctx, "article created", slog.Uint64("article_id", uint64(article.ID)), slog.String("slug", slug))
	return article, nil
}

func (s *articleService) Update(ctx context.Context, callerID, id uint, patch ArticlePatch) (*model.Article, error) {
	article, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	var assigns []repository.Assignment
	if patch.Title != nil && *patch.Title != article.Title {
		slug, err := UniqueSlug(ctx, *patch.Title, s.slugTaken(article.ID))
		if err != nil {
			return nil, unexpected(ctx, "generate slug", err)
		}
		assigns = append(assigns,
			repository.Articles.Title.Set(*patch.Title),
			repository.Articles.Slug.Set(slug),
		)
	}
	if patch.Content != nil {
		assigns = append(assigns, repository.Articles.Content.Set(*patch.Content))
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		assigns = append(assigns, repository.Articles.Status.Set(*patch.Status))
	}
	if patch.ThumbImage != nil {
		assigns = append(assigns, repository.Articles.ThumbImage.Set(*patch.ThumbImage))
	}
	if patch.CoverImage != nil {
		assigns = append(assigns, repository.Articles.CoverImage.Set(*patch.CoverImage))
	}
	if patch.CategoryID != nil {
		if err := s.ensureCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		assigns = append(assigns, repository.Articles.CategoryID.Set(*patch.CategoryID))
	}

	updated, err := s.repo.Update(ctx, id, assigns, patch.Tags)
	if err != nil {
		return nil, notFoundAs(ctx, "update article", err, apperrors.ErrArticleNotFound)
	}
	return updated, nil
}

func (s *articleService) Delete(ctx context.Context, callerID, id uint) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return unexpected(ctx, "delete article", err)
	}
	if !deleted {
		return apperrors.ErrArticleNotFound
	}
	slog.InfoContext(ctx, "article deleted", slog.Uint64("article_id", uint64(id)))
	return nil
}

// owned loads the article and checks that callerID wrote it. Admins get no
// exception.
func (s *articleService) owned(ctx context.Context, callerID, id uint) (*model.Article, error) {
	article, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, notFoundAs(ctx, "get article", err, apperrors.ErrArticleNotFound)
	}
	if article.AuthorID != callerID {
		return nil, apperrors.ErrNotArticleAuthor
	}
	return article, nil
}

func (s *articleService) ensureCategory(ctx context.Context, id uint) error {
	n, err := s.categories.Count(ctx, repository.Categories.ID.Eq(id))
	if err != nil {
		return unexpected(ctx, "check category", err)
	}
	if n == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// slugTaken reports a slug as taken when it belongs to an article other than
// selfID.
func (s *articleService) slugTaken(selfID uint) SlugTaken {
	return func(ctx context.Context, slug string) (bool, error) {
		article, err := s.repo.GetOneBy(ctx, repository.Articles.Slug.Eq(slug))
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return article.ID != selfID, nil
	}
}
