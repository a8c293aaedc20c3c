package model

// Role names seeded at bootstrap.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role groups users that share the same permissions.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:50;not null"`
}
