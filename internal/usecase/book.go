package usecase

import (
	"context"

	"libroteca/internal/entity"
)

// BookFilter is the normalized filter for a listing query. A nil
// slice means "no constraint on this field", which matches exactly the
// same records as filtering by the full distinct-value set.
type BookFilter struct {
	Titles  []string
	Authors []string
	Genres  []string
	Search  string
	Years   *YearRange
}

// YearRange is an inclusive publication-year interval.
type YearRange struct {
	From int
	To   int
}

type BookSort struct {
	Field string
	Desc  bool
}

// ListParams carries everything a listing request resolved to: the
// filter, the sort order and the pagination window. A Limit of 0
// means no limit.
type ListParams struct {
	Filter BookFilter
	Sort   BookSort
	Limit  int
	Offset int
}

// Page computes the 1-based page number the offset/limit pair lands on.
func (p ListParams) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// BookFacets holds the distinct value sets across the whole collection,
// used by callers to populate filter UIs.
type BookFacets struct {
	Genres           []string
	Authors          []string
	Titles           []string
	PublicationDates []int
}

// BookRepository defines the contract for persisting books.
type BookRepository interface {
	// Find returns the page of books matching p plus the total match count.
	Find(ctx context.Context, p ListParams) ([]entity.Book, int64, error)
	// Facets returns the distinct value sets over the entire collection.
	Facets(ctx context.Context) (BookFacets, error)
	GetByID(ctx context.Context, id string) (entity.Book, error)
	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id string) error
}
