package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"curator/internal/model"
)

// ArticleSearch holds the optional filters of the public article search.
type ArticleSearch struct {
	Keys     string
	Category string
	Tag      string
	Status   *model.ArticleStatus
	Limit    int
	Offset   int
}

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	GetFull(ctx context.Context, id uint) (*model.Article, error)
	GetOneBy(ctx context.Context, conds ...Condition) (*model.Article, error)
	Count(ctx context.Context, conds ...Condition) (int64, error)
	Create(ctx context.Context, article *model.Article, tags []string) (*model.Article, error)
	Update(ctx context.Context, id uint, assigns []Assignment, tags []string) (*model.Article, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, s ArticleSearch) ([]model.Article, int64, error)
	ResolveTags(ctx context.Context, names []string) ([]model.Tag, error)
	ReplaceTags(ctx context.Context, article *model.Article, names []string) error
}

type articleRepository struct {
	*Repository[model.Article]
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{
		Repository: New[model.Article](db,
			WithPreload("Author", "Category", "Tags"),
			WithCascade("Tags"),
		),
		db: db,
	}
}

func (r *articleRepository) withTx(tx *gorm.DB) *articleRepository {
	return &articleRepository{Repository: r.Repository.WithTx(tx), db: tx}
}

// GetFull returns the article with author, category and tags loaded.
func (r *articleRepository) GetFull(ctx context.Context, id uint) (*model.Article, error) {
	return r.GetByID(ctx, id)
}

// Create inserts article with the named tags, creating missing tags, and
// returns the stored article with its relations loaded.
func (r *articleRepository) Create(ctx context.Context, article *model.Article, tags []string) (*model.Article, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.withTx(tx)
		resolved, err := txRepo.ResolveTags(ctx, tags)
		if err != nil {
			return err
		}
		article.Tags = resolved
		return txRepo.Repository.Create(ctx, article)
	})
	if err != nil {
		return nil, wrapErr("create article", err)
	}
	return r.GetFull(ctx, article.ID)
}

// Update applies assigns to the article. When tags is non-nil the tag list
// is replaced by it.
func (r *articleRepository) Update(ctx context.Context, id uint, assigns []Assignment, tags []string) (*model.Article, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.withTx(tx)
		article, err := txRepo.UpdateByID(ctx, id, assigns...)
		if err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		return txRepo.ReplaceTags(ctx, article, tags)
	})
	if err != nil {
		return nil, wrapErr("update article", err)
	}
	return r.GetFull(ctx, id)
}

// Delete removes the article and its tag links.
func (r *articleRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.DeleteBy(ctx, Articles.ID.Eq(id))
}

// ResolveTags returns the tags named in names, creating those that do not
// exist. Blank and repeated names are ignored.
func (r *articleRepository) ResolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	if len(unique) == 0 {
		return []model.Tag{}, nil
	}

	db := r.db.WithContext(ctx)
	missing := make([]model.Tag, 0, len(unique))
	for _, n := range unique {
		missing = append(missing, model.Tag{Name: n})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing).Error; err != nil {
		return nil, wrapErr("create tags", err)
	}

	var tags []model.Tag
	if err := db.Where("name IN ?", unique).Order("id").Find(&tags).Error; err != nil {
		return nil, wrapErr("load tags", err)
	}
	return tags, nil
}

// ReplaceTags makes names the complete tag list of article. An empty list
// removes every tag.
func (r *articleRepository) ReplaceTags(ctx context.Context, article *model.Article, names []string) error {
	resolved, err := r.ResolveTags(ctx, names)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(article).Association("Tags").Replace(resolved); err != nil {
		return wrapErr("replace tags", err)
	}
	article.Tags = resolved
	return nil
}

// Search counts the articles matching s, then returns one page of them,
// newest first. Keys matches the title case-insensitively; Category and Tag
// match names exactly.
func (r *articleRepository) Search(ctx context.Context, s ArticleSearch) ([]model.Article, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if s.Keys != "" {
			db = db.Where("LOWER(articles.title) LIKE ? "+likeEscape, containsPattern(s.Keys))
		}
		if s.Category != "" {
			db = db.Where("articles.category_id IN (?)",
				r.db.Model(&model.Category{}).Select("id").Where("name = ?", s.Category))
		}
		if s.Tag != "" {
			db = db.Where("articles.id IN (?)",
				r.db.Table("article_tags").
					Select("article_tags.article_id").
					Joins("JOIN tags ON tags.id = article_tags.tag_id").
					Where("tags.name = ?", s.Tag))
		}
		return applyConditions(db, []Condition{Articles.Status.EqPtr(s.Status)})
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Article{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count articles", err)
	}

	var articles []model.Article
	db := r.db.WithContext(ctx).Model(&model.Article{}).
		Preload("Author").Preload("Category").Preload("Tags").
		Scopes(scope).
		Order("articles.created_at DESC").Order("articles.id DESC")
	if err := applyPage(db, s.Limit, s.Offset).Find(&articles).Error; err != nil {
		return nil, 0, wrapErr("search articles", err)
	}
	return articles, total, nil
}
