package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// User is a coach/admin login. The password hash never leaves the server.
type User struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// UserByUsername looks up a login by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (User, error) {
	return queryOne[User](ctx, s,
		"SELECT id, username, email, password, created_at FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
}

// UserByID looks up a login by id.
func (s *Store) UserByID(ctx context.Context, id int) (User, error) {
	return queryOne[User](ctx, s,
		"SELECT id, username, email, password, created_at FROM users WHERE id = @id",
		pgx.NamedArgs{"id": id})
}

// CreateUser inserts a login with an already-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (User, error) {
	u, err := queryOne[User](ctx, s,
		`INSERT INTO users (username, email, password) VALUES (@username, @email, @password)
		 RETURNING id, username, email, password, created_at`,
		pgx.NamedArgs{"username": username, "email": email, "password": passwordHash})
	if err != nil {
		return u, fmt.Errorf("create user %q: %w", username, err)
	}
	return u, nil
}
