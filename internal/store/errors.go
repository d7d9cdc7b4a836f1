package store

import (
	"errors"
	"fmt"
)

// Domain errors for the project and task stores
var (
	// ErrNotFound is returned when an operation targets an id absent from the collection
	ErrNotFound = errors.New("not found")

	// Validation errors
	ErrEmptyName       = errors.New("project name cannot be empty")
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrInvalidPriority = errors.New("invalid task priority")
)

func projectNotFound(id int) error {
	return fmt.Errorf("project %d: %w", id, ErrNotFound)
}

func taskNotFound(id int) error {
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}
