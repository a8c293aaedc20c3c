package repository

import (
	"context"

	"gorm.io/gorm"

	"curator/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	GetOneBy(ctx context.Context, conds ...Condition) (*model.Category, error)
	Count(ctx context.Context, conds ...Condition) (int64, error)
	Create(ctx context.Context, category *model.Category) error
	CreateAll(ctx context.Context, categories []model.Category) error
	UpdateByID(ctx context.Context, id uint, assigns ...Assignment) (*model.Category, error)
	DeleteBy(ctx context.Context, conds ...Condition) (bool, error)
	Search(ctx context.Context, name string, limit, offset int) ([]model.Category, int64, error)
}

type categoryRepository struct {
	*Repository[model.Category]
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{Repository: New[model.Category](db), db: db}
}

// Search counts the categories whose name contains name, ignoring case, then
// returns one page of them.
func (r *categoryRepository) Search(ctx context.Context, name string, limit, offset int) ([]model.Category, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if name == "" {
			return db
		}
		return db.Where("LOWER(name) LIKE ? "+likeEscape, containsPattern(name))
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count categories", err)
	}

	var categories []model.Category
	err := applyPage(r.db.WithContext(ctx).Scopes(scope).Order("id"), limit, offset).
		Find(&categories).Error
	if err != nil {
		return nil, 0, wrapErr("search categories", err)
	}
	return categories, total, nil
}
