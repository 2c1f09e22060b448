// Package pagination windows ordered result sequences into pages with
// deterministic metadata.
package pagination

import (
	"context"
	"fmt"
)

const (
	// DefaultPage is used when the requested page is missing or non-positive
	DefaultPage = 1
	// DefaultLimit is used when the requested limit is missing or non-positive
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what the caller asks for
	MaxLimit = 100
)

// Sequence is a lazy, restartable view over an ordered result set. Both
// methods re-run the underlying query, so a Sequence can be counted and
// windowed independently without materializing the full collection.
// The ordering must be total (sort key plus id tie-break); paginating an
// unordered sequence is a caller bug, not a supported mode.
type Sequence[T any] interface {
	Count(ctx context.Context) (int64, error)
	Window(ctx context.Context, offset, limit int) ([]T, error)
}

// Page holds one window of items plus paging metadata
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Normalize clamps page and limit to sane values: non-positive inputs fall
// back to the defaults and limit never exceeds MaxLimit
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Paginate fetches one window of the sequence along with a total count taken
// over the same predicate. A page past the end yields zero items with correct
// metadata rather than an error.
func Paginate[T any](ctx context.Context, seq Sequence[T], page, limit int) (*Page[T], error) {
	page, limit = Normalize(page, limit)

	total, err := seq.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sequence: %w", err)
	}

	offset := (page - 1) * limit
	items, err := seq.Window(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page window: %w", err)
	}
	if items == nil {
		items = []T{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Page[T]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}, nil
}

// Convert rebuilds a page around transformed items, keeping the metadata.
// Used when a fetched window of entities is composed into views.
func Convert[T, U any](p *Page[T], items []U) *Page[U] {
	if items == nil {
		items = []U{}
	}
	return &Page[U]{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}
}

// SliceSequence adapts an in-memory slice to the Sequence interface.
// Mostly useful for composition that has already materialized its rows.
type SliceSequence[T any] struct {
	items []T
}

// FromSlice wraps an already-ordered slice as a Sequence
func FromSlice[T any](items []T) *SliceSequence[T] {
	return &SliceSequence[T]{items: items}
}

// Count returns the slice length
func (s *SliceSequence[T]) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

// Window returns the [offset, offset+limit) slice of items
func (s *SliceSequence[T]) Window(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s.items) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[offset:end], nil
}
