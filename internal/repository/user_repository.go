package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkdash-be/internal/entities"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	// Upsert creates the user row for an email if it is missing and
	// returns the row either way. Used both at magic-link issue time and
	// as the best-effort upsert before authenticated link inserts.
	Upsert(email string, name *string) (*entities.User, error)
	// EnsureExists inserts a user row for a known id if it is missing,
	// satisfying the links.user_id foreign key before privileged inserts.
	EnsureExists(id string, email string) error
	FindByID(id string) (*entities.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(email string, name *string) (*entities.User, error) {
	// On conflict the existing id wins; the generated one is discarded.
	query := `
		INSERT INTO users (id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = COALESCE(EXCLUDED.name, users.name)
		RETURNING id, email, name, created_at
	`

	var user entities.User
	err := r.db.QueryRow(query, uuid.NewString(), email, name).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) EnsureExists(id string, email string) error {
	_, err := r.db.Exec(
		`INSERT INTO users (id, email) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, email,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user row: %w", err)
	}
	return nil
}

// FindByID finds a user by ID (UUID). Returns (nil, nil) when no row matches.
func (r *userRepository) FindByID(id string) (*entities.User, error) {
	query := `SELECT id, email, name, created_at FROM users WHERE id = $1`

	var user entities.User
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}
