// Package app holds the controller that mediates between the stores and the
// views. It caches the active projects and all tasks, keeps that cache in
// step with every successful store call, and reports outcomes through a
// Notifier.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/existflow/projecttasks/internal/db"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/query"
	"github.com/existflow/projecttasks/internal/store"
)

// Controller owns the view state shared by the CLI and the TUI
type Controller struct {
	projects *store.ProjectStore
	tasks    *store.TaskStore

	notify       Notifier
	onChange     func()
	defaultColor string

	mu          sync.RWMutex
	projectList []model.Project // active only
	taskList    []model.Task
}

// New creates a controller over the given stores. Call Load before reading.
func New(projects *store.ProjectStore, tasks *store.TaskStore, opts ...Option) *Controller {
	c := &Controller{
		projects:     projects,
		tasks:        tasks,
		notify:       NopNotifier{},
		defaultColor: model.DefaultProjectColor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
// READS
// ============================================================================

// Load fetches the active projects and every task into the cache
func (c *Controller) Load(ctx context.Context) error {
	projects, err := c.projects.ListActive(ctx)
	if err != nil {
		return c.fail("Failed to load data", fmt.Errorf("failed to load projects: %w", err))
	}
	tasks, err := c.tasks.ListAll(ctx)
	if err != nil {
		return c.fail("Failed to load data", fmt.Errorf("failed to load tasks: %w", err))
	}

	c.mu.Lock()
	c.projectList = projects
	c.taskList = tasks
	c.mu.Unlock()

	logger.Debug("Controller loaded",
		logger.F("projects", len(projects)),
		logger.F("tasks", len(tasks)))
	return nil
}

// Projects returns the cached active projects
func (c *Controller) Projects() []model.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.projectList)
}

// Tasks returns every cached task
func (c *Controller) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.taskList)
}

// TasksForProject returns the cached tasks of one project
func (c *Controller) TasksForProject(projectID int) []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Task, 0)
	for _, t := range c.taskList {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// Project looks up an active project in the cache
func (c *Controller) Project(id int) (model.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := slices.IndexFunc(c.projectList, func(p model.Project) bool { return p.ID == id })
	if i < 0 {
		return model.Project{}, false
	}
	return c.projectList[i], true
}

// Task looks up a task in the cache
func (c *Controller) Task(id int) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := slices.IndexFunc(c.taskList, func(t model.Task) bool { return t.ID == id })
	if i < 0 {
		return model.Task{}, false
	}
	return c.taskList[i], true
}

// AllProjects fetches every project from the store, archived ones included
func (c *Controller) AllProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := c.projects.List(ctx)
	if err != nil {
		return nil, c.fail("Failed to load projects", fmt.Errorf("failed to list projects: %w", err))
	}
	return projects, nil
}

// TaskCounts returns active/total task numbers per active project
func (c *Controller) TaskCounts() map[int]query.Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.CountByProject(c.projectList, c.taskList)
}

// Summary returns completion totals across every task
func (c *Controller) Summary() query.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Summarize(c.taskList)
}

// Snapshot returns the full store state for persistence
func (c *Controller) Snapshot() db.Snapshot {
	projects, lastProject := c.projects.Snapshot()
	tasks, lastTask := c.tasks.Snapshot()
	return db.Snapshot{
		Projects:      projects,
		Tasks:         tasks,
		LastProjectID: lastProject,
		LastTaskID:    lastTask,
	}
}

// ============================================================================
// PROJECT WRITES
// ============================================================================

// CreateProject adds a project. An empty color falls back to the default.
func (c *Controller) CreateProject(ctx context.Context, name, color string) (model.Project, error) {
	if color == "" {
		color = c.defaultColor
	}
	p, err := c.projects.Create(ctx, strings.TrimSpace(name), color)
	if err != nil {
		return model.Project{}, c.fail("Failed to create project", fmt.Errorf("failed to create project: %w", err))
	}

	c.mu.Lock()
	c.projectList = append(c.projectList, p)
	c.mu.Unlock()

	c.succeed("Project created successfully!")
	return p, nil
}

// UpdateProject merges patch into the project
func (c *Controller) UpdateProject(ctx context.Context, id int, patch model.ProjectPatch) (model.Project, error) {
	p, err := c.projects.Update(ctx, id, patch)
	if err != nil {
		return model.Project{}, c.fail("Failed to update project", fmt.Errorf("failed to update project: %w", err))
	}

	c.mu.Lock()
	c.putProject(p)
	c.mu.Unlock()

	c.succeed("Project updated successfully!")
	return p, nil
}

// ArchiveProject hides the project from the active list. Its tasks are kept.
func (c *Controller) ArchiveProject(ctx context.Context, id int) (model.Project, error) {
	p, err := c.projects.Archive(ctx, id)
	if err != nil {
		return model.Project{}, c.fail("Failed to archive project", fmt.Errorf("failed to archive project: %w", err))
	}

	c.mu.Lock()
	c.putProject(p)
	c.mu.Unlock()

	c.succeed("Project archived successfully!")
	return p, nil
}

// DeleteProject removes the project and every task assigned to it. The
// project is verified first; tasks go before the project itself. ctx can
// only cancel the lookup steps, never a half-done cascade.
func (c *Controller) DeleteProject(ctx context.Context, id int) error {
	if _, err := c.projects.GetByID(ctx, id); err != nil {
		return c.fail("Failed to delete project", fmt.Errorf("failed to find project: %w", err))
	}

	tasks, err := c.tasks.ListByProject(ctx, id)
	if err != nil {
		return c.fail("Failed to delete project", fmt.Errorf("failed to list project tasks: %w", err))
	}

	// past this point the cascade runs to the end even if ctx is cancelled
	mctx := context.WithoutCancel(ctx)
	for _, t := range tasks {
		if err := c.tasks.Delete(mctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			c.reloadTasks(mctx)
			return c.fail("Failed to delete project", fmt.Errorf("failed to delete task %d: %w", t.ID, err))
		}
	}

	if err := c.projects.Delete(mctx, id); err != nil {
		c.dropTasks(func(t model.Task) bool { return t.ProjectID == id })
		return c.fail("Failed to delete project", fmt.Errorf("failed to delete project: %w", err))
	}

	c.mu.Lock()
	c.projectList = slices.DeleteFunc(c.projectList, func(p model.Project) bool { return p.ID == id })
	c.mu.Unlock()
	c.dropTasks(func(t model.Task) bool { return t.ProjectID == id })

	logger.Info("Project deleted", logger.F("id", id), logger.F("tasks", len(tasks)))
	c.succeed("Project deleted successfully!")
	return nil
}

// ============================================================================
// TASK WRITES
// ============================================================================

// CreateTask adds a task to an existing project
func (c *Controller) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	if err := c.requireProject(ctx, draft.ProjectID); err != nil {
		return model.Task{}, c.fail("Failed to create task", err)
	}

	t, err := c.tasks.Create(ctx, draft)
	if err != nil {
		return model.Task{}, c.fail("Failed to create task", fmt.Errorf("failed to create task: %w", err))
	}

	c.mu.Lock()
	c.taskList = append(c.taskList, t)
	c.mu.Unlock()

	c.succeed("Task created successfully!")
	return t, nil
}

// UpdateTask merges patch into the task. A project change is validated.
func (c *Controller) UpdateTask(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error) {
	if patch.ProjectID != nil {
		if err := c.requireProject(ctx, *patch.ProjectID); err != nil {
			return model.Task{}, c.fail("Failed to update task", err)
		}
	}

	t, err := c.tasks.Update(ctx, id, patch)
	if err != nil {
		return model.Task{}, c.fail("Failed to update task", fmt.Errorf("failed to update task: %w", err))
	}

	c.putTask(t)
	c.succeed("Task updated successfully!")
	return t, nil
}

// ToggleComplete flips the completion state of the task
func (c *Controller) ToggleComplete(ctx context.Context, id int) (model.Task, error) {
	t, err := c.tasks.ToggleComplete(ctx, id)
	if err != nil {
		return model.Task{}, c.fail("Failed to update task", fmt.Errorf("failed to toggle task: %w", err))
	}

	c.putTask(t)
	if t.IsCompleted {
		c.succeed("Task completed! 🎉")
	} else {
		c.succeed("Task marked as active")
	}
	return t, nil
}

// DeleteTask removes the task
func (c *Controller) DeleteTask(ctx context.Context, id int) error {
	if err := c.tasks.Delete(ctx, id); err != nil {
		return c.fail("Failed to delete task", fmt.Errorf("failed to delete task: %w", err))
	}

	c.dropTasks(func(t model.Task) bool { return t.ID == id })
	c.succeed("Task deleted successfully!")
	return nil
}

// MoveTask reassigns the task to another existing project
func (c *Controller) MoveTask(ctx context.Context, taskID, projectID int) (model.Task, error) {
	if err := c.requireProject(ctx, projectID); err != nil {
		return model.Task{}, c.fail("Failed to move task", err)
	}

	t, err := c.tasks.MoveToProject(ctx, taskID, projectID)
	if err != nil {
		return model.Task{}, c.fail("Failed to move task", fmt.Errorf("failed to move task: %w", err))
	}

	c.putTask(t)
	c.succeed("Task moved successfully!")
	return t, nil
}

// Search finds tasks whose title or description contains q. An empty query
// yields no results; a query shorter than query.MinSearchLength is rejected.
func (c *Controller) Search(ctx context.Context, q string) ([]model.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.Task{}, nil
	}
	if len([]rune(q)) < query.MinSearchLength {
		c.notify.Info(fmt.Sprintf("Type at least %d characters to search", query.MinSearchLength))
		return nil, ErrQueryTooShort
	}

	results, err := c.tasks.Search(ctx, q)
	if err != nil {
		return nil, c.fail("Search failed", fmt.Errorf("failed to search tasks: %w", err))
	}

	logger.Debug("Search", logger.F("query", q), logger.F("results", len(results)))
	return results, nil
}

// ClearAll empties both stores. Id high-water marks survive.
func (c *Controller) ClearAll(ctx context.Context) error {
	if err := c.tasks.Clear(ctx); err != nil {
		return c.fail("Failed to clear data", fmt.Errorf("failed to clear tasks: %w", err))
	}
	c.mu.Lock()
	c.taskList = []model.Task{}
	c.mu.Unlock()

	if err := c.projects.Clear(ctx); err != nil {
		return c.fail("Failed to clear data", fmt.Errorf("failed to clear projects: %w", err))
	}
	c.mu.Lock()
	c.projectList = []model.Project{}
	c.mu.Unlock()

	logger.Warn("All data cleared")
	c.succeed("All data cleared successfully")
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

func (c *Controller) requireProject(ctx context.Context, id int) error {
	if _, err := c.projects.GetByID(ctx, id); err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

// putProject replaces the cached project, dropping it once archived.
// Callers hold c.mu.
func (c *Controller) putProject(p model.Project) {
	i := slices.IndexFunc(c.projectList, func(cached model.Project) bool { return cached.ID == p.ID })
	switch {
	case p.IsArchived && i >= 0:
		c.projectList = slices.Delete(c.projectList, i, i+1)
	case !p.IsArchived && i >= 0:
		c.projectList[i] = p
	case !p.IsArchived:
		c.projectList = append(c.projectList, p)
	}
}

func (c *Controller) putTask(t model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.taskList, func(cached model.Task) bool { return cached.ID == t.ID })
	if i < 0 {
		c.taskList = append(c.taskList, t)
		return
	}
	c.taskList[i] = t
}

func (c *Controller) dropTasks(drop func(model.Task) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taskList = slices.DeleteFunc(c.taskList, drop)
}

// reloadTasks resyncs the task cache after a partially applied cascade
func (c *Controller) reloadTasks(ctx context.Context) {
	tasks, err := c.tasks.ListAll(context.WithoutCancel(ctx))
	if err != nil {
		logger.Error("Failed to reload tasks", logger.F("error", err))
		return
	}
	c.mu.Lock()
	c.taskList = tasks
	c.mu.Unlock()
}

func (c *Controller) succeed(msg string) {
	c.notify.Success(msg)
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) fail(msg string, err error) error {
	logger.Error(msg, logger.F("error", err))
	c.notify.Error(msg)
	return err
}
