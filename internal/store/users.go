package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"task-manager/internal/models"
)

// CreateUser inserts the user in one statement. The UNIQUE constraint on
// users.email decides conflicts, reported as ErrEmailTaken.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.CreatedAt = db.now()

	_, err := db.Exec(ctx, `INSERT INTO
			users(id, name, email, password_hash, created_at)
			VALUES(?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (db *DB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = ?`, email)

	user := models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
