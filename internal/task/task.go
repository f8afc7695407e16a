package task

import (
	"context"
	"errors"
)

// Task is a single to-do item. UserID is the owning account and is
// immutable once the row is created; a task is only ever visible to its
// owner. Date is a calendar date (YYYY-MM-DD) with no time-of-day
// semantics.
type Task struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Completed   bool   `json:"completed"`
}

var (
	// ErrNotFound is returned both when a task id does not exist and when
	// it exists but belongs to another owner. The two cases are
	// indistinguishable on purpose: ownership is a confidentiality
	// boundary, not just an authorization check.
	ErrNotFound = errors.New("task: not found")

	ErrInvalidInput = errors.New("task: invalid input")
)

// Store describes task persistence. Every read and write is scoped by the
// owning user id; UpdateTask and DeleteTask perform the ownership check and
// the mutation as one atomic statement.
type Store interface {
	CreateTask(ctx context.Context, t Task) (int64, error)
	// TasksByOwner returns the owner's tasks ordered by id ascending.
	TasksByOwner(ctx context.Context, ownerID int64) ([]Task, error)
	TaskByID(ctx context.Context, id, ownerID int64) (Task, error)
	UpdateTask(ctx context.Context, t Task) error
	DeleteTask(ctx context.Context, id, ownerID int64) error
}
