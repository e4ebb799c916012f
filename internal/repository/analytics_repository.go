package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// AnalyticsRepository defines the interface for click event persistence.
// Events are append-only.
type AnalyticsRepository interface {
	Insert(linkID string, clickedAt time.Time) error
}

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Insert(linkID string, clickedAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO analytics (link_id, clicked_at) VALUES ($1, $2)`,
		linkID, clickedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}
