package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/db"
)

// SQLiteProvider matches video titles and descriptions with a LIKE scan.
// Good enough for a single-node deployment; swap the Provider for a real
// index when the corpus outgrows it.
type SQLiteProvider struct {
	db *db.DB
}

// NewSQLiteProvider creates a provider backed by the primary store
func NewSQLiteProvider(database *db.DB) *SQLiteProvider {
	return &SQLiteProvider{db: database}
}

// Search returns the ids of videos whose title or description contains the
// query, case-insensitively. Blank queries match nothing.
func (p *SQLiteProvider) Search(ctx context.Context, query string) ([]uuid.UUID, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(trimmed) + "%"

	var raw []string
	result := p.db.WithContext(ctx).
		Table("videos").
		Where("title LIKE ? ESCAPE '\\' OR description LIKE ? ESCAPE '\\'", pattern, pattern).
		Pluck("id", &raw)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search videos: %w", result.Error)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// escapeLike neutralizes LIKE metacharacters in user input
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
