package model

import "time"

// ArticleStatus represents the publication state of an article.
type ArticleStatus string

const (
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleStatusPublished, ArticleStatusDraft, ArticleStatusArchived:
		return true
	}
	return false
}

// Article is a piece of content owned by its author.
type Article struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Title      string        `json:"title" gorm:"size:255;not null"`
	Slug       string        `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Content    string        `json:"content" gorm:"type:text;not null"`
	Status     ArticleStatus `json:"status" gorm:"type:varchar(20);not null;default:'published';index"`
	ThumbImage string        `json:"thumb_image" gorm:"size:255"`
	CoverImage string        `json:"cover_image" gorm:"size:255"`
	AuthorID   uint          `json:"author_id" gorm:"not null;index"`
	CategoryID uint          `json:"category_id" gorm:"not null;index"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relations
	Author   User     `json:"author" gorm:"foreignKey:AuthorID"`
	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
	Tags     []Tag    `json:"tags" gorm:"many2many:article_tags;"`
}

// Tag labels articles. Tags are created the first time an article names them.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:50;not null"`
}
