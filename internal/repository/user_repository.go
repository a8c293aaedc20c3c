package repository

import (
	"context"

	"gorm.io/gorm"

	"curator/internal/model"
)

// UserSearch holds the optional filters of the admin user listing.
type UserSearch struct {
	Key      string
	Role     string
	IsActive *bool
	Limit    int
	Offset   int
}

// UserRepository defines persistence operations.
type UserRepository interface {
	GetFullUser(ctx context.Context, id uint) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	GetOneBy(ctx context.Context, conds ...Condition) (*model.User, error)
	Count(ctx context.Context, conds ...Condition) (int64, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
	UpdateByID(ctx context.Context, id uint, assigns ...Assignment) (*model.User, error)
	Search(ctx context.Context, s UserSearch) ([]model.User, int64, error)
}

type userRepository struct {
	*Repository[model.User]
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		Repository: New[model.User](db, WithPreload("Role")),
		db:         db,
	}
}

// GetFullUser returns the user with its role loaded.
func (r *userRepository) GetFullUser(ctx context.Context, id uint) (*model.User, error) {
	return r.GetByID(ctx, id)
}

// GetByUsernameOrEmail matches identifier exactly against username or email.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Role").
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, wrapErr("get by username or email", err)
	}
	return &user, nil
}

// Create inserts user and returns it re-read with its role.
func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.Repository.Create(ctx, user); err != nil {
		return nil, err
	}
	return r.GetFullUser(ctx, user.ID)
}

// Search lists users for the admin panel. Key matches username, email and
// full name case-insensitively; Role matches the role name exactly.
func (r *userRepository) Search(ctx context.Context, s UserSearch) ([]model.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if s.Key != "" {
			like := containsPattern(s.Key)
			db = db.Where(
				"LOWER(users.username) LIKE ? "+likeEscape+
					" OR LOWER(users.email) LIKE ? "+likeEscape+
					" OR LOWER(users.full_name) LIKE ? "+likeEscape,
				like, like, like,
			)
		}
		if s.Role != "" {
			db = db.Where("users.role_id IN (?)", r.db.Model(&model.Role{}).Select("id").Where("name = ?", s.Role))
		}
		return applyConditions(db, []Condition{Users.IsActive.EqPtr(s.IsActive)})
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count users", err)
	}

	var users []model.User
	err := applyPage(r.db.WithContext(ctx).Model(&model.User{}).Preload("Role").Scopes(scope).Order("users.id"), s.Limit, s.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, wrapErr("search users", err)
	}
	return users, total, nil
}
