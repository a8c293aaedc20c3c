package auth

import "curator/internal/model"

// Permission is a capability a route can require.
type Permission int

const (
	PermWriteArticles Permission = iota + 1
	PermUseAIAgent
	PermManageCategories
	PermManageUsers
)

func (p Permission) String() string {
	switch p {
	case PermWriteArticles:
		return "write_articles"
	case PermUseAIAgent:
		return "use_ai_agent"
	case PermManageCategories:
		return "manage_categories"
	case PermManageUsers:
		return "manage_users"
	default:
		return "unknown"
	}
}

var rolePermissions = map[string][]Permission{
	model.RoleAdmin: {PermWriteArticles, PermUseAIAgent, PermManageCategories, PermManageUsers},
	model.RoleUser:  {PermWriteArticles, PermUseAIAgent},
}

// Grants reports whether role holds every one of perms. Unknown roles hold
// no permissions.
func Grants(role string, perms ...Permission) bool {
	held := rolePermissions[role]
	for _, want := range perms {
		found := false
		for _, p := range held {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
