// Package pagination computes page metadata for listing endpoints.
package pagination

import "errors"

// ErrPageNotFound is returned when the requested page lies outside the
// valid range for the collection.
var ErrPageNotFound = errors.New("page not found")

// Pagination describes a validated page of a collection.
type Pagination struct {
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
}

// Paginate validates the 1-indexed page against the collection size and
// returns the page metadata. totalPages is ceil(total/limit), so an empty
// collection has zero pages and every page request against it fails; that
// is intentional, not an off-by-one.
func Paginate(total int64, page, limit int) (Pagination, error) {
	if limit < 1 {
		return Pagination{}, ErrPageNotFound
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if page < 1 || page > totalPages {
		return Pagination{}, ErrPageNotFound
	}

	return Pagination{
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}
