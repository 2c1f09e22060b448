package query

import "errors"

// Custom query validation errors
var (
	// ErrInvalidSortField indicates the sort field is not on the allow-list
	ErrInvalidSortField = errors.New("sort field is not sortable")

	// ErrInvalidSortDirection indicates the sort direction is neither asc nor desc
	ErrInvalidSortDirection = errors.New("sort direction must be asc or desc")
)

// IsInvalidSort checks if the error is a sort validation error
func IsInvalidSort(err error) bool {
	return errors.Is(err, ErrInvalidSortField) || errors.Is(err, ErrInvalidSortDirection)
}
