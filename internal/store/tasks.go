package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"task-manager/internal/models"
)

const taskColumns = "id, user_id, title, description, status, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }, task *models.Task) error {
	return row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
}

// ListTasks returns the owner's tasks newest first. Rows created in the
// same microsecond fall back to id order so every backend agrees.
func (db *DB) ListTasks(ctx context.Context, owner uuid.UUID) ([]models.Task, error) {
	rows, err := db.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC", owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	results := make([]models.Task, 0)
	for rows.Next() {
		task := models.Task{}
		if err := scanTask(rows, &task); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		results = append(results, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return results, nil
}

// CreateTask assigns the id and both timestamps, then inserts the row.
func (db *DB) CreateTask(ctx context.Context, task *models.Task) error {
	now := db.now()
	task.ID = uuid.New()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := db.Exec(ctx, `INSERT INTO
			tasks(id, user_id, title, description, status, created_at, updated_at)
			VALUES(?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Description, task.Status, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// UpdateTask replaces title, description and status of the task matching
// both task.ID and task.UserID, then reloads it into task.
func (db *DB) UpdateTask(ctx context.Context, task *models.Task) error {
	result, err := db.Exec(ctx,
		`UPDATE tasks
			SET title = ?, description = ?, status = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
		task.Title, task.Description, task.Status, db.now(), task.ID, task.UserID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	row := db.QueryRow(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?", task.ID, task.UserID)
	err = scanTask(row, task)
	if errors.Is(err, sql.ErrNoRows) {
		// Deleted between the update and the reload.
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reload task: %w", err)
	}
	return nil
}

func (db *DB) DeleteTask(ctx context.Context, id, owner uuid.UUID) error {
	result, err := db.Exec(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
