package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a task priority level
type Priority string

// Priority levels for tasks
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
)

// Rank orders priorities: high > medium > low. Unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known levels
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority converts user input to a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
	}
	return p, nil
}

// Task represents a single unit of work
type Task struct {
	ID          int                 `json:"id" yaml:"id"`
	ProjectID   int                 `json:"projectId" yaml:"project_id"`
	Title       string              `json:"title" yaml:"title"`
	Description string              `json:"description" yaml:"description"`
	Priority    Priority            `json:"priority" yaml:"priority"`
	DueDate     Optional[time.Time] `json:"dueDate" yaml:"due_date"`
	IsCompleted bool                `json:"isCompleted" yaml:"is_completed"`
	CompletedAt Optional[time.Time] `json:"completedAt" yaml:"completed_at"`
	CreatedAt   time.Time           `json:"createdAt" yaml:"created_at"`
}

// TaskDraft carries the caller-supplied fields for a new task
type TaskDraft struct {
	ProjectID   int
	Title       string
	Description string
	Priority    Priority // empty means medium
	DueDate     Optional[time.Time]
}

// NewTask creates a task from a draft with defaults applied
func NewTask(id int, d TaskDraft, now time.Time) Task {
	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	return Task{
		ID:          id,
		ProjectID:   d.ProjectID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    priority,
		DueDate:     d.DueDate,
		CreatedAt:   now,
	}
}

// TaskPatch lists the fields to merge into an existing task.
// Nil fields are left untouched; a non-nil DueDate or CompletedAt holding
// None clears the field.
type TaskPatch struct {
	ProjectID   *int
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *Optional[time.Time]
	IsCompleted *bool
	CompletedAt *Optional[time.Time]
}

// Apply merges the patch into t
func (tp TaskPatch) Apply(t *Task) {
	if tp.ProjectID != nil {
		t.ProjectID = *tp.ProjectID
	}
	if tp.Title != nil {
		t.Title = *tp.Title
	}
	if tp.Description != nil {
		t.Description = *tp.Description
	}
	if tp.Priority != nil {
		t.Priority = *tp.Priority
	}
	if tp.DueDate != nil {
		t.DueDate = *tp.DueDate
	}
	if tp.IsCompleted != nil {
		t.IsCompleted = *tp.IsCompleted
	}
	if tp.CompletedAt != nil {
		t.CompletedAt = *tp.CompletedAt
	}
}

// Matches reports whether the lowercased query appears in the title or description
func (t *Task) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// IsDue returns true if the task is due today or overdue
func (t *Task) IsDue(now time.Time) bool {
	due, ok := t.DueDate.Get()
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today.Add(24 * time.Hour))
}

// IsOverdue returns true if the task is open and past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	due, ok := t.DueDate.Get()
	if !ok || t.IsCompleted {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}
