package task

import (
	"context"
	"fmt"
	"strings"
)

// Service is the ownership-enforcing access layer in front of a Store.
type Service struct {
	store Store
}

// NewService constructs a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create persists a new task for ownerID and returns its id. Completed is
// always false on creation regardless of caller input; completion is only
// reachable through Update.
func (s *Service) Create(ctx context.Context, ownerID int64, title, description, date string) (int64, error) {
	if ownerID <= 0 {
		return 0, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.store.CreateTask(ctx, Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Date:        date,
		Completed:   false,
	})
}

// List returns all tasks owned by ownerID, ordered by id ascending.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Task, error) {
	return s.store.TasksByOwner(ctx, ownerID)
}

// Get returns the task only when it exists and belongs to ownerID.
func (s *Service) Get(ctx context.Context, id, ownerID int64) (Task, error) {
	return s.store.TaskByID(ctx, id, ownerID)
}

// Update overwrites title, description, date and completed. Returns
// ErrNotFound when the task does not exist or is owned by someone else;
// storage is untouched in that case.
func (s *Service) Update(ctx context.Context, t Task) error {
	if t.ID <= 0 || t.UserID <= 0 {
		return fmt.Errorf("%w: task id and owner are required", ErrInvalidInput)
	}
	return s.store.UpdateTask(ctx, t)
}

// Delete removes the task with the same existence+ownership contract as
// Update.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	if id <= 0 || ownerID <= 0 {
		return fmt.Errorf("%w: task id and owner are required", ErrInvalidInput)
	}
	return s.store.DeleteTask(ctx, id, ownerID)
}
