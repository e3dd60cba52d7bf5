// Package query translates the optional filter/sort/page parameters of a
// list request into a deterministic, bounded query specification for the
// repository. All parameter validation happens here, before any store call.
package query

import (
	"fmt"

	"todo-backend/internal/domain"
)

// Defaults and bounds for list parameters.
const (
	DefaultPage      = 1
	DefaultSize      = 10
	MaxSize          = 100
	DefaultSortBy    = "created_at"
	DefaultSortOrder = "desc"
)

// sortFields is the closed set of fields a caller may sort by. The names
// double as the stored document field names.
var sortFields = map[string]bool{
	"title":      true,
	"status":     true,
	"priority":   true,
	"due_date":   true,
	"created_at": true,
	"updated_at": true,
}

// Params are the raw, optional list parameters as supplied by the caller.
// Nil pointers and empty strings mean "absent"; defaults fill them in.
type Params struct {
	Status    *string
	Priority  *string
	SortBy    string
	SortOrder string
	Page      *int
	Size      *int
}

// Spec is the resolved query specification consumed by the repository.
// Two Build calls with identical Params always yield an identical Spec.
type Spec struct {
	Status   *domain.Status
	Priority *domain.Priority

	// SortBy and Descending name the primary sort. The repository must
	// break ties within the sort key by ascending id so that repeated
	// pagination never duplicates or skips records across pages.
	SortBy     string
	Descending bool

	Page int
	Size int
	Skip int64

	Limit int64
}

// Build validates the parameters and resolves them into a Spec.
//
// Out-of-range page or size is an error, never clamped: silently clamping
// would make two different requests return the same page while reporting
// different metadata.
func Build(p Params) (Spec, error) {
	var spec Spec

	if p.Status != nil {
		status := domain.Status(*p.Status)
		if !status.IsValid() {
			return Spec{}, fmt.Errorf("%w: status %q", domain.ErrInvalidFilter, *p.Status)
		}
		spec.Status = &status
	}
	if p.Priority != nil {
		priority := domain.Priority(*p.Priority)
		if !priority.IsValid() {
			return Spec{}, fmt.Errorf("%w: priority %q", domain.ErrInvalidFilter, *p.Priority)
		}
		spec.Priority = &priority
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if !sortFields[sortBy] {
		return Spec{}, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, p.SortBy)
	}
	spec.SortBy = sortBy

	sortOrder := p.SortOrder
	if sortOrder == "" {
		sortOrder = DefaultSortOrder
	}
	switch sortOrder {
	case "asc":
		spec.Descending = false
	case "desc":
		spec.Descending = true
	default:
		return Spec{}, fmt.Errorf("%w: %q", domain.ErrInvalidSortOrder, p.SortOrder)
	}

	page := DefaultPage
	if p.Page != nil {
		page = *p.Page
	}
	if page < 1 {
		return Spec{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidPagination, page)
	}

	size := DefaultSize
	if p.Size != nil {
		size = *p.Size
	}
	if size < 1 || size > MaxSize {
		return Spec{}, fmt.Errorf("%w: size must be in [1,%d], got %d", domain.ErrInvalidPagination, MaxSize, size)
	}

	spec.Page = page
	spec.Size = size
	spec.Skip = int64(page-1) * int64(size)
	spec.Limit = int64(size)

	return spec, nil
}
