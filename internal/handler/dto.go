package handler

import (
	"time"

	"curator/internal/model"
)

// RoleResponse is the public view of a role.
type RoleResponse struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}

// UserResponse is the public view of a user. It never carries the password
// hash.
type UserResponse struct {
	ID       uint          `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
	Photo    string        `json:"photo"`
	IsActive bool          `json:"is_active"`
	Role     *RoleResponse `json:"role,omitempty"`
}

func newUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Photo:    u.Photo,
		IsActive: u.IsActive,
	}
	if u.Role.ID != 0 {
		resp.Role = &RoleResponse{ID: u.Role.ID, Role: u.Role.Name}
	}
	return resp
}

func newUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	return out
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newCategoryResponses(categories []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

// AuthorResponse is the public view of an article author.
type AuthorResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Photo    string `json:"photo"`
}

// ArticleResponse is the public view of an article. Tags are listed by
// name.
type ArticleResponse struct {
	ID         uint              `json:"id"`
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Content    string            `json:"content"`
	Status     string            `json:"status"`
	Tags       []string          `json:"tags"`
	ThumbImage string            `json:"thumb_image"`
	CoverImage string            `json:"cover_image"`
	AuthorID   uint              `json:"author_id"`
	CategoryID uint              `json:"category_id"`
	Author     *AuthorResponse   `json:"author,omitempty"`
	Category   *CategoryResponse `json:"category,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func newArticleResponse(a *model.Article) ArticleResponse {
	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, t.Name)
	}
	resp := ArticleResponse{
		ID:         a.ID,
		Title:      a.Title,
		Slug:       a.Slug,
		Content:    a.Content,
		Status:     string(a.Status),
		Tags:       tags,
		ThumbImage: a.ThumbImage,
		CoverImage: a.CoverImage,
		AuthorID:   a.AuthorID,
		CategoryID: a.CategoryID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.Author.ID != 0 {
		resp.Author = &AuthorResponse{
			ID:       a.Author.ID,
			Username: a.Author.Username,
			FullName: a.Author.FullName,
			Photo:    a.Author.Photo,
		}
	}
	if a.Category.ID != 0 {
		resp.Category = &CategoryResponse{ID: a.Category.ID, Name: a.Category.Name}
	}
	return resp
}

// ArticleListResponse is one page of article search results.
type ArticleListResponse struct {
	Total    int64             `json:"total"`
	Articles []ArticleResponse `json:"articles"`
}
