// Package query builds validated filter and sort specifications for list
// endpoints. It knows nothing about storage; the db layer translates a Feed
// into a concrete query.
package query

import (
	"fmt"

	"github.com/google/uuid"
)

// SortField names a column a feed may be ordered by
type SortField string

// Sortable fields. Anything else is rejected, never silently ignored.
const (
	SortByCreatedAt SortField = "created_at"
	SortByViews     SortField = "views"
	SortByDuration  SortField = "duration"
)

// SortDirection is the order applied to the sort field
type SortDirection string

// Sort directions
const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// Sort is a validated sort specification
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort is newest-first, the order every public listing falls back to
var DefaultSort = Sort{Field: SortByCreatedAt, Direction: Descending}

// ParseSort validates a raw sort field and direction against the allow-list.
// Empty inputs select the default (created_at descending, ascending direction
// must be asked for explicitly).
func ParseSort(field, direction string) (Sort, error) {
	sort := DefaultSort

	switch field {
	case "":
		// keep default field
	case string(SortByCreatedAt):
		sort.Field = SortByCreatedAt
	case string(SortByViews):
		sort.Field = SortByViews
	case string(SortByDuration):
		sort.Field = SortByDuration
	default:
		return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSortField, field)
	}

	switch direction {
	case "", "desc":
		sort.Direction = Descending
	case "asc":
		sort.Direction = Ascending
	default:
		return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSortDirection, direction)
	}

	return sort, nil
}

// OrderClause renders the sort as a SQL ORDER BY body with an id tie-break,
// which keeps pagination deterministic when the sort key has duplicates
func (s Sort) OrderClause() string {
	return fmt.Sprintf("%s %s, id ASC", s.Field, s.Direction)
}

// Feed is a composed predicate for video list queries. The zero value lists
// everything newest-first.
type Feed struct {
	// OwnerID restricts the feed to a single channel; uuid.Nil means no filter
	OwnerID uuid.UUID
	// PublishedOnly hides drafts; always set for public listing endpoints
	PublishedOnly bool
	// Sort is the validated ordering
	Sort Sort

	restricted bool
	candidates []uuid.UUID
}

// NewFeed builds a feed spec with the validated sort
func NewFeed(ownerID uuid.UUID, publishedOnly bool, sort Sort) Feed {
	if sort == (Sort{}) {
		sort = DefaultSort
	}
	return Feed{OwnerID: ownerID, PublishedOnly: publishedOnly, Sort: sort}
}

// RestrictTo narrows the feed to a candidate id set, typically the output of
// an external search capability. An empty set matches nothing.
func (f *Feed) RestrictTo(ids []uuid.UUID) {
	f.restricted = true
	f.candidates = ids
}

// Restricted reports whether a candidate id set applies, and returns it
func (f Feed) Restricted() ([]uuid.UUID, bool) {
	return f.candidates, f.restricted
}
