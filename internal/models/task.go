package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultTaskStatus = "open"

type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskRequest is the body accepted by create and update. Both replace
// title, description and status wholesale.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type TaskResponse struct {
	Task Task `json:"task"`
}

type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
}
