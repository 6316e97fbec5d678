package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/room-reservation/internal/persistence"
)

// CreateUser inserts a new directory entry. Username uniqueness is enforced
// case-insensitively by the schema.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	const query = `
		INSERT INTO users (id, username, secret, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Secret,
		user.Role,
		formatTime(user.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	const query = `
		SELECT id, username, secret, role, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username, case-insensitively.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (persistence.User, error) {
	const query = `
		SELECT id, username, secret, role, created_at
		FROM users
		WHERE username = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// ListUsers returns all users ordered by creation timestamp then ID.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	const query = `
		SELECT id, username, secret, role, created_at
		FROM users
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var user persistence.User
		var createdAt string

		if err := rows.Scan(&user.ID, &user.Username, &user.Secret, &user.Role, &createdAt); err != nil {
			return nil, mapError(err)
		}
		if user.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}

		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return users, nil
}

func (s *Store) scanUser(row *sql.Row) (persistence.User, error) {
	var user persistence.User
	var createdAt string

	err := row.Scan(&user.ID, &user.Username, &user.Secret, &user.Role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.User{}, err
	}

	return user, nil
}
