package task

import (
	"context"
	"sort"
	"sync"
)

// InMemory implements Store with in-process concurrency safety. Used by
// tests and local runs without Postgres.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]Task
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{tasks: make(map[int64]Task)}
}

func (s *InMemory) CreateTask(ctx context.Context, t Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	s.tasks[t.ID] = t
	return t.ID, nil
}

func (s *InMemory) TasksByOwner(ctx context.Context, ownerID int64) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Task
	for _, t := range s.tasks {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) TaskByID(ctx context.Context, id, ownerID int64) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *InMemory) UpdateTask(ctx context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return ErrNotFound
	}
	existing.Title = t.Title
	existing.Description = t.Description
	existing.Date = t.Date
	existing.Completed = t.Completed
	s.tasks[t.ID] = existing
	return nil
}

func (s *InMemory) DeleteTask(ctx context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
