package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/model"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	admin, userRole := seedRoles(t, gdb)
	repo := NewUserRepository(gdb)

	created, err := repo.Create(ctx, &model.User{
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		FullName:     "John Doe",
		PasswordHash: "hash",
		IsActive:     true,
		RoleID:       userRole.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.RoleUser, created.Role.Name, "role is loaded on create")

	byName, err := repo.GetByUsernameOrEmail(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, model.RoleUser, byName.Role.Name)

	byEmail, err := repo.GetByUsernameOrEmail(ctx, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByUsernameOrEmail(ctx, "JDOE")
	assert.ErrorIs(t, err, ErrNotFound, "lookup is case-sensitive")

	adminCount, err := repo.Count(ctx, Users.RoleID.Eq(admin.ID))
	require.NoError(t, err)
	assert.Zero(t, adminCount)

	updated, err := repo.UpdateByID(ctx, created.ID, Users.IsActive.Set(false), Users.Photo.Set("me.png"))
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "me.png", updated.Photo)
	assert.Equal(t, model.RoleUser, updated.Role.Name)

	_, err = repo.Create(ctx, &model.User{Username: "other", Email: "jdoe@example.com", PasswordHash: "h", RoleID: userRole.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.GetFullUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Search(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	admin, userRole := seedRoles(t, gdb)
	repo := NewUserRepository(gdb)

	_, err := repo.Create(ctx, &model.User{Username: "boss", Email: "boss@example.com", FullName: "The Boss", PasswordHash: "h", IsActive: true, RoleID: admin.ID})
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		_, err := repo.Create(ctx, &model.User{
			Username:     fmt.Sprintf("writer%d", i),
			Email:        fmt.Sprintf("writer%d@example.com", i),
			FullName:     fmt.Sprintf("Writer %d", i),
			PasswordHash: "h",
			IsActive:     i%2 == 1,
			RoleID:       userRole.ID,
		})
		require.NoError(t, err)
	}

	inactive := false
	tests := []struct {
		name      string
		search    UserSearch
		wantTotal int64
		wantLen   int
	}{
		{"everyone", UserSearch{Limit: 10}, 5, 5},
		{"key ignores case", UserSearch{Key: "WRITER", Limit: 10}, 4, 4},
		{"key matches full name", UserSearch{Key: "the boss", Limit: 10}, 1, 1},
		{"role", UserSearch{Role: model.RoleAdmin, Limit: 10}, 1, 1},
		{"inactive only", UserSearch{IsActive: &inactive, Limit: 10}, 2, 2},
		{"paged", UserSearch{Role: model.RoleUser, Limit: 3, Offset: 3}, 4, 1},
		{"percent is literal", UserSearch{Key: "%", Limit: 10}, 0, 0},
		{"underscore is literal", UserSearch{Key: "writer_", Limit: 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.Search(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, users, tt.wantLen)
			for _, u := range users {
				assert.NotEmpty(t, u.Role.Name)
			}
		})
	}
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRoleRepository(newTestDB(t))

	created, err := repo.Ensure(ctx, model.RoleAdmin, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = repo.Ensure(ctx, model.RoleAdmin, model.RoleUser)
	require.NoError(t, err)
	assert.Zero(t, created)

	role, err := repo.GetByName(ctx, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role.Name)

	_, err = repo.GetByName(ctx, "editor")
	assert.ErrorIs(t, err, ErrNotFound)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, model.RoleAdmin, roles[0].Name)
}
