package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sequence is a lazy, restartable window over a filtered query. base must
// build a fresh query on every call so Count and Window can each re-run the
// same predicate independently.
type sequence[T any] struct {
	base  func(ctx context.Context) *gorm.DB
	order string
}

// Count runs a count pass over the sequence's predicate
func (s *sequence[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.base(ctx).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", MapGormError(err))
	}
	return count, nil
}

// Window fetches one ordered slice of the sequence
func (s *sequence[T]) Window(ctx context.Context, offset, limit int) ([]T, error) {
	var items []T
	q := s.base(ctx).Order(s.order)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch window: %w", MapGormError(err))
	}
	return items, nil
}

// uuidStrings converts UUIDs to their string form for IN queries
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
