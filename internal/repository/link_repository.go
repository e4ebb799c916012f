package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"linkdash-be/internal/entities"
)

// ErrNotFound is returned when a write targets a row that does not exist
// or that the caller does not own. Reads return (nil, nil) on a miss
// instead, so callers can distinguish "no row" from a store failure.
var ErrNotFound = errors.New("link not found")

// LinkRepository defines the interface for link database operations
type LinkRepository interface {
	Create(link *entities.Link) (*entities.Link, error)
	GetByID(id string) (*entities.Link, error)
	GetBySlug(slug string) (*entities.Link, error)
	// GetBySlugSuffix matches any short_url whose trailing path segment
	// equals the slug, newest first, limit 1.
	GetBySlugSuffix(slug string) (*entities.Link, error)
	ListByUser(userID string) ([]*entities.Link, error)
	Update(id string, userID string, update *entities.LinkUpdate) (*entities.Link, error)
	Delete(id string, userID string) error
	SetClicks(id string, clicks int) error
}

type linkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = `id, slug, short_url, full_url, clicks, is_active, description, favicon, tags, created_at, user_id`

func scanLink(row *sql.Row) (*entities.Link, error) {
	var link entities.Link
	err := row.Scan(
		&link.ID,
		&link.Slug,
		&link.ShortURL,
		&link.FullURL,
		&link.Clicks,
		&link.IsActive,
		&link.Description,
		&link.Favicon,
		pq.Array(&link.Tags),
		&link.CreatedAt,
		&link.UserID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Create inserts a new link into the database
func (r *linkRepository) Create(link *entities.Link) (*entities.Link, error) {
	query := `
		INSERT INTO links (id, slug, short_url, full_url, is_active, description, favicon, tags, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + linkColumns

	row := r.db.QueryRow(query,
		link.ID,
		link.Slug,
		link.ShortURL,
		link.FullURL,
		link.IsActive,
		link.Description,
		link.Favicon,
		pq.Array(link.Tags),
		link.UserID,
	)

	created, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return created, nil
}

// GetByID finds a link by id. Returns (nil, nil) when no row matches.
func (r *linkRepository) GetByID(id string) (*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`
	link, err := scanLink(r.db.QueryRow(query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

// GetBySlug finds a link by its exact slug. Returns (nil, nil) on a miss.
func (r *linkRepository) GetBySlug(slug string) (*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE slug = $1`
	link, err := scanLink(r.db.QueryRow(query, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

// GetBySlugSuffix handles short urls stored as domain/slug compound strings.
func (r *linkRepository) GetBySlugSuffix(slug string) (*entities.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE short_url LIKE '%/' || $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	link, err := scanLink(r.db.QueryRow(query, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to find link by suffix: %w", err)
	}
	return link, nil
}

// ListByUser retrieves all links owned by a user, newest first.
func (r *linkRepository) ListByUser(userID string) ([]*entities.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*entities.Link
	for rows.Next() {
		var link entities.Link
		err := rows.Scan(
			&link.ID,
			&link.Slug,
			&link.ShortURL,
			&link.FullURL,
			&link.Clicks,
			&link.IsActive,
			&link.Description,
			&link.Favicon,
			pq.Array(&link.Tags),
			&link.CreatedAt,
			&link.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, &link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Update applies a partial update to a link the user owns.
func (r *linkRepository) Update(id string, userID string, update *entities.LinkUpdate) (*entities.Link, error) {
	query := `
		UPDATE links SET
			slug = COALESCE($1, slug),
			short_url = COALESCE($2, short_url),
			full_url = COALESCE($3, full_url),
			clicks = COALESCE($4, clicks),
			is_active = COALESCE($5, is_active),
			description = COALESCE($6, description),
			favicon = COALESCE($7, favicon),
			tags = COALESCE($8, tags)
		WHERE id = $9 AND user_id = $10
		RETURNING ` + linkColumns

	var tags interface{}
	if update.Tags != nil {
		tags = pq.Array(*update.Tags)
	}

	row := r.db.QueryRow(query,
		update.Slug,
		update.ShortURL,
		update.FullURL,
		update.Clicks,
		update.IsActive,
		update.Description,
		update.Favicon,
		tags,
		id,
		userID,
	)

	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	if link == nil {
		return nil, ErrNotFound
	}
	return link, nil
}

// Delete removes a link the user owns.
func (r *linkRepository) Delete(id string, userID string) error {
	result, err := r.db.Exec(`DELETE FROM links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetClicks writes an absolute click counter value. The accountant pairs
// this with a prior read, which is the documented lost-update race.
func (r *linkRepository) SetClicks(id string, clicks int) error {
	_, err := r.db.Exec(`UPDATE links SET clicks = $1 WHERE id = $2`, clicks, id)
	if err != nil {
		return fmt.Errorf("failed to set clicks: %w", err)
	}
	return nil
}
