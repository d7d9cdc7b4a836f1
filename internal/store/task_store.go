package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/model"
)

// TaskStore owns the in-memory task collection
type TaskStore struct {
	mu     sync.Mutex
	tasks  []model.Task
	lastID int
	opts   options
}

// NewTaskStore creates a store seeded with the given tasks
func NewTaskStore(seed []model.Task, opts ...Option) *TaskStore {
	o := buildOptions(opts)
	s := &TaskStore{
		tasks:  slices.Clone(seed),
		lastID: o.lastID,
		opts:   o,
	}
	for _, t := range s.tasks {
		s.lastID = max(s.lastID, t.ID)
	}
	return s
}

// ListAll returns every task in storage order
func (s *TaskStore) ListAll(ctx context.Context) ([]model.Task, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks), nil
}

// ListByProject returns the tasks whose projectId matches
func (s *TaskStore) ListByProject(ctx context.Context, projectID int) ([]model.Task, error) {
	return s.filter(ctx, func(t *model.Task) bool {
		return t.ProjectID == projectID
	})
}

// GetByID returns the task with the given id
func (s *TaskStore) GetByID(ctx context.Context, id int) (model.Task, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, taskNotFound(id)
	}
	return s.tasks[i], nil
}

// Create appends a new task with defaults applied. The project id is not validated.
func (s *TaskStore) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if draft.Priority != "" && !draft.Priority.Valid() {
		return model.Task{}, ErrInvalidPriority
	}
	if err := s.opts.latency.wait(ctx); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	t := model.NewTask(s.lastID, draft, s.opts.now())
	s.tasks = append(s.tasks, t)

	logger.Debug("Task created",
		logger.F("id", t.ID),
		logger.F("project", t.ProjectID),
		logger.F("priority", t.Priority))
	return t, nil
}

// Update merges the non-nil patch fields into the task. completedAt is only
// changed when the patch sets it.
func (s *TaskStore) Update(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Task{}, ErrInvalidPriority
	}
	return s.mutate(ctx, id, func(t *model.Task) {
		patch.Apply(t)
	})
}

// ToggleComplete flips isCompleted and stamps or clears completedAt
func (s *TaskStore) ToggleComplete(ctx context.Context, id int) (model.Task, error) {
	return s.mutate(ctx, id, func(t *model.Task) {
		t.IsCompleted = !t.IsCompleted
		if t.IsCompleted {
			t.CompletedAt = model.Some(s.opts.now())
		} else {
			t.CompletedAt = model.None[time.Time]()
		}
	})
}

// MoveToProject reassigns the task. The target project is not validated.
func (s *TaskStore) MoveToProject(ctx context.Context, taskID, projectID int) (model.Task, error) {
	return s.mutate(ctx, taskID, func(t *model.Task) {
		t.ProjectID = projectID
	})
}

// Delete removes the task
func (s *TaskStore) Delete(ctx context.Context, id int) error {
	if err := s.opts.latency.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return taskNotFound(id)
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)

	logger.Debug("Task deleted", logger.F("id", id))
	return nil
}

// Search returns tasks whose title or description contains query,
// ignoring case. Callers are expected to gate short queries.
func (s *TaskStore) Search(ctx context.Context, query string) ([]model.Task, error) {
	return s.filter(ctx, func(t *model.Task) bool {
		return t.Matches(query)
	})
}

// Clear removes every task. The id high-water mark is kept.
func (s *TaskStore) Clear(ctx context.Context) error {
	if err := s.opts.latency.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
	return nil
}

// Snapshot returns the full collection and the id high-water mark without delay
func (s *TaskStore) Snapshot() ([]model.Task, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks), s.lastID
}

func (s *TaskStore) filter(ctx context.Context, keep func(*model.Task) bool) ([]model.Task, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0)
	for i := range s.tasks {
		if keep(&s.tasks[i]) {
			out = append(out, s.tasks[i])
		}
	}
	return out, nil
}

func (s *TaskStore) mutate(ctx context.Context, id int, fn func(*model.Task)) (model.Task, error) {
	if err := s.opts.latency.wait(ctx); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, taskNotFound(id)
	}
	fn(&s.tasks[i])

	logger.Debug("Task updated", logger.F("id", id))
	return s.tasks[i], nil
}

func (s *TaskStore) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool {
		return t.ID == id
	})
}
