package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"curator/internal/model"
)

func TestGrants(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		perms []Permission
		want  bool
	}{
		{"no permission required", model.RoleUser, nil, true},
		{"user writes articles", model.RoleUser, []Permission{PermWriteArticles}, true},
		{"user cannot manage categories", model.RoleUser, []Permission{PermManageCategories}, false},
		{"admin manages users and categories", model.RoleAdmin, []Permission{PermManageUsers, PermManageCategories}, true},
		{"mixed set fails as a whole", model.RoleUser, []Permission{PermWriteArticles, PermManageUsers}, false},
		{"unknown role", "editor", []Permission{PermWriteArticles}, false},
		{"unknown role without requirements", "editor", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grants(tt.role, tt.perms...))
		})
	}
}

func TestPermissionString(t *testing.T) {
	assert.Equal(t, "manage_users", PermManageUsers.String())
	assert.Equal(t, "unknown", Permission(0).String())
}
