package repository

import (
	"time"

	"curator/internal/model"
)

// Users lists the filterable columns of model.User.
var Users = struct {
	ID           Field[uint]
	Username     Field[string]
	Email        Field[string]
	FullName     Field[string]
	Photo        Field[string]
	PasswordHash Field[string]
	IsActive     Field[bool]
	RoleID       Field[uint]
}{
	ID:           NewField[uint]("id"),
	Username:     NewField[string]("username"),
	Email:        NewField[string]("email"),
	FullName:     NewField[string]("full_name"),
	Photo:        NewField[string]("photo"),
	PasswordHash: NewField[string]("password_hash"),
	IsActive:     NewField[bool]("is_active"),
	RoleID:       NewField[uint]("role_id"),
}

// Roles lists the filterable columns of model.Role.
var Roles = struct {
	ID   Field[uint]
	Name Field[string]
}{
	ID:   NewField[uint]("id"),
	Name: NewField[string]("name"),
}

// Categories lists the filterable columns of model.Category.
var Categories = struct {
	ID   Field[uint]
	Name Field[string]
}{
	ID:   NewField[uint]("id"),
	Name: NewField[string]("name"),
}

// Tags lists the filterable columns of model.Tag.
var Tags = struct {
	ID   Field[uint]
	Name Field[string]
}{
	ID:   NewField[uint]("id"),
	Name: NewField[string]("name"),
}

// Articles lists the filterable columns of model.Article.
var Articles = struct {
	ID         Field[uint]
	Title      Field[string]
	Slug       Field[string]
	Content    Field[string]
	Status     Field[model.ArticleStatus]
	ThumbImage Field[string]
	CoverImage Field[string]
	AuthorID   Field[uint]
	CategoryID Field[uint]
	CreatedAt  Field[time.Time]
}{
	ID:         NewField[uint]("id"),
	Title:      NewField[string]("title"),
	Slug:       NewField[string]("slug"),
	Content:    NewField[string]("content"),
	Status:     NewField[model.ArticleStatus]("status"),
	ThumbImage: NewField[string]("thumb_image"),
	CoverImage: NewField[string]("cover_image"),
	AuthorID:   NewField[uint]("author_id"),
	CategoryID: NewField[uint]("category_id"),
	CreatedAt:  NewField[time.Time]("created_at"),
}
