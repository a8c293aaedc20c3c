package service

import (
	"context"
	"time"

	"curator/internal/cache"
	"curator/internal/repository"
)

const (
	roleListCacheKey = "roles:names"
	roleCacheTTL     = time.Hour
)

// RoleService exposes the seeded roles.
type RoleService interface {
	List(ctx context.Context) ([]string, error)
}

type roleService struct {
	repo  repository.RoleRepository
	cache *cache.Client
}

// NewRoleService builds a RoleService. Role names are cached since roles only
// change through seeding.
func NewRoleService(repo repository.RoleRepository, cache *cache.Client) RoleService {
	return &roleService{repo: repo, cache: cache}
}

func (s *roleService) List(ctx context.Context) ([]string, error) {
	var names []string
	if s.cache.GetJSON(ctx, roleListCacheKey, &names) {
		return names, nil
	}

	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, unexpected(ctx, "list roles", err)
	}
	names = make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	s.cache.SetJSON(ctx, roleListCacheKey, names, roleCacheTTL)
	return names, nil
}
