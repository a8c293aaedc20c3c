package repository

import (
	"context"

	"gorm.io/gorm"

	"curator/internal/model"
)

// RoleRepository defines role persistence operations.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	Ensure(ctx context.Context, names ...string) (created int, err error)
}

type roleRepository struct {
	*Repository[model.Role]
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{Repository: New[model.Role](db)}
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	return r.GetOneBy(ctx, Roles.Name.Eq(name))
}

func (r *roleRepository) List(ctx context.Context) ([]model.Role, error) {
	return r.GetAll(ctx, ListOptions{All: true, Order: []Order{Roles.ID.Asc()}})
}

// Ensure creates the roles in names that do not exist yet.
func (r *roleRepository) Ensure(ctx context.Context, names ...string) (int, error) {
	created := 0
	err := r.WithTransaction(ctx, func(ctx context.Context, tx *Repository[model.Role]) error {
		for _, name := range names {
			n, err := tx.Count(ctx, Roles.Name.Eq(name))
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(ctx, &model.Role{Name: name}); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
