package pagination

import (
	"math"

	apperrors "curator/internal/errors"
)

// Pagination describes where a page sits within a result set. Page numbers
// are 1-based and 0 means "no such page".
type Pagination struct {
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	PrevPage    int   `json:"prev_page"`
	NextPage    int   `json:"next_page"`
}

// ErrInvalidPage is returned for a non-positive page or limit, or a page so
// far out that its offset does not fit in an int.
var ErrInvalidPage = apperrors.Validation("INVALID_PAGE", "page and limit must be positive")

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) (int, error) {
	if err := check(page, limit); err != nil {
		return 0, err
	}
	return (page - 1) * limit, nil
}

// Calculate builds the pagination block for a page of a result set holding
// total rows.
func Calculate(total int64, page, limit int) (Pagination, error) {
	if err := check(page, limit); err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	p := Pagination{
		Total:       total,
		Limit:       limit,
		CurrentPage: page,
		TotalPages:  totalPages,
	}
	if page > 1 {
		p.PrevPage = page - 1
	}
	if page < totalPages {
		p.NextPage = page + 1
	}
	return p, nil
}

func check(page, limit int) error {
	if page < 1 || limit <= 0 || page-1 > math.MaxInt/limit {
		return ErrInvalidPage
	}
	return nil
}

// Page is a slice of results together with its pagination block.
type Page[T any] struct {
	Pagination Pagination `json:"pagination"`
	Data       []T        `json:"data"`
}
