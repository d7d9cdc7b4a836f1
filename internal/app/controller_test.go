package app

import (
	"context"
	"testing"
	"time"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type recorder struct {
	success []string
	errors  []string
	info    []string
}

func (r *recorder) Success(msg string) { r.success = append(r.success, msg) }
func (r *recorder) Error(msg string)   { r.errors = append(r.errors, msg) }
func (r *recorder) Info(msg string)    { r.info = append(r.info, msg) }

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Controller, *recorder, *int) {
	t.Helper()
	clock := store.WithClock(func() time.Time { return now })

	projects := store.NewProjectStore([]model.Project{
		{ID: 1, Name: "Home", Color: "#fff"},
		{ID: 2, Name: "Work", Color: "#000"},
		{ID: 3, Name: "Old", Color: "#333", IsArchived: true},
	}, clock)
	tasks := store.NewTaskStore([]model.Task{
		{ID: 1, ProjectID: 1, Title: "Buy milk", Priority: model.PriorityMedium},
		{ID: 2, ProjectID: 1, Title: "Fix tap", Priority: model.PriorityHigh, IsCompleted: true, CompletedAt: model.Some(now)},
		{ID: 3, ProjectID: 2, Title: "Report", Description: "milk the numbers", Priority: model.PriorityLow},
	}, clock)

	rec := &recorder{}
	changes := 0
	c := New(projects, tasks,
		WithNotifier(rec),
		WithOnChange(func() { changes++ }),
		WithDefaultColor("#abcdef"))
	require.NoError(t, c.Load(context.Background()))
	return c, rec, &changes
}

// ============================================================================
// READS
// ============================================================================

func TestLoadCachesActiveProjects(t *testing.T) {
	c, _, _ := setup(t)

	projects := c.Projects()
	require.Len(t, projects, 2)
	assert.Len(t, c.Tasks(), 3)
	assert.Len(t, c.TasksForProject(1), 2)

	_, ok := c.Project(3)
	assert.False(t, ok, "archived project is not cached")

	counts := c.TaskCounts()
	assert.Equal(t, 1, counts[1].Active)
	assert.Equal(t, 2, counts[1].Total)

	summary := c.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Completed)

	all, err := c.AllProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// ============================================================================
// PROJECTS
// ============================================================================

func TestCreateProject(t *testing.T) {
	c, rec, changes := setup(t)

	p, err := c.CreateProject(context.Background(), "  Garden ", "")
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)
	assert.Equal(t, "Garden", p.Name)
	assert.Equal(t, "#abcdef", p.Color)

	cached, ok := c.Project(4)
	require.True(t, ok)
	assert.Equal(t, p, cached)
	assert.Equal(t, []string{"Project created successfully!"}, rec.success)
	assert.Equal(t, 1, *changes)
}

func TestCreateProjectFailureLeavesCache(t *testing.T) {
	c, rec, changes := setup(t)

	_, err := c.CreateProject(context.Background(), "", "#fff")
	assert.ErrorIs(t, err, store.ErrEmptyName)
	assert.Len(t, c.Projects(), 2)
	assert.Equal(t, []string{"Failed to create project"}, rec.errors)
	assert.Zero(t, *changes)
}

func TestUpdateProject(t *testing.T) {
	c, rec, _ := setup(t)

	name := "House"
	p, err := c.UpdateProject(context.Background(), 1, model.ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "House", p.Name)

	cached, _ := c.Project(1)
	assert.Equal(t, "House", cached.Name)
	assert.Contains(t, rec.success, "Project updated successfully!")
}

func TestArchiveProjectKeepsTasks(t *testing.T) {
	c, rec, _ := setup(t)

	p, err := c.ArchiveProject(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, p.IsArchived)

	_, ok := c.Project(1)
	assert.False(t, ok)
	assert.Len(t, c.TasksForProject(1), 2)
	assert.Contains(t, rec.success, "Project archived successfully!")

	_, err = c.ArchiveProject(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, rec.errors, "Failed to archive project")
}

func TestDeleteProjectCascades(t *testing.T) {
	c, rec, changes := setup(t)
	ctx := context.Background()

	require.NoError(t, c.DeleteProject(ctx, 1))

	_, ok := c.Project(1)
	assert.False(t, ok)
	assert.Empty(t, c.TasksForProject(1))
	assert.Len(t, c.Tasks(), 1)

	snap := c.Snapshot()
	assert.Len(t, snap.Projects, 2)
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, 3, snap.LastTaskID)
	assert.Equal(t, []string{"Project deleted successfully!"}, rec.success)
	assert.Equal(t, 1, *changes)
}

func TestDeleteMissingProject(t *testing.T) {
	c, rec, changes := setup(t)

	err := c.DeleteProject(context.Background(), 9)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, c.Tasks(), 3)
	assert.Equal(t, []string{"Failed to delete project"}, rec.errors)
	assert.Zero(t, *changes)
}

// ============================================================================
// TASKS
// ============================================================================

func TestCreateTaskValidatesProject(t *testing.T) {
	c, rec, _ := setup(t)
	ctx := context.Background()

	_, err := c.CreateTask(ctx, model.TaskDraft{ProjectID: 99, Title: "Nowhere"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, c.Tasks(), 3)

	task, err := c.CreateTask(ctx, model.TaskDraft{ProjectID: 2, Title: "Slides"})
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Len(t, c.TasksForProject(2), 2)
	assert.Equal(t, []string{"Failed to create task"}, rec.errors)
	assert.Equal(t, []string{"Task created successfully!"}, rec.success)
}

func TestCreateTaskInArchivedProjectIsAllowed(t *testing.T) {
	c, _, _ := setup(t)

	_, err := c.CreateTask(context.Background(), model.TaskDraft{ProjectID: 3, Title: "Revive"})
	assert.NoError(t, err)
}

func TestToggleCompleteMessages(t *testing.T) {
	c, rec, changes := setup(t)
	ctx := context.Background()

	task, err := c.ToggleComplete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)

	task, err = c.ToggleComplete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, task.IsCompleted)

	assert.Equal(t, []string{"Task completed! 🎉", "Task marked as active"}, rec.success)
	assert.Equal(t, 2, *changes)

	cached, ok := c.Task(1)
	require.True(t, ok)
	assert.False(t, cached.CompletedAt.IsSet())
}

func TestUpdateTask(t *testing.T) {
	c, rec, _ := setup(t)
	ctx := context.Background()

	title := "Buy oat milk"
	task, err := c.UpdateTask(ctx, 1, model.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, task.Title)

	cached, _ := c.Task(1)
	assert.Equal(t, title, cached.Title)

	bad := 77
	_, err = c.UpdateTask(ctx, 1, model.TaskPatch{ProjectID: &bad})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []string{"Failed to update task"}, rec.errors)
}

func TestDeleteTask(t *testing.T) {
	c, rec, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, c.DeleteTask(ctx, 2))
	_, ok := c.Task(2)
	assert.False(t, ok)

	err := c.DeleteTask(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, c.Tasks(), 2)
	assert.Equal(t, []string{"Task deleted successfully!"}, rec.success)
}

func TestMoveTask(t *testing.T) {
	c, _, _ := setup(t)
	ctx := context.Background()

	task, err := c.MoveTask(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, task.ProjectID)
	assert.Len(t, c.TasksForProject(2), 2)

	_, err = c.MoveTask(ctx, 1, 50)
	assert.ErrorIs(t, err, store.ErrNotFound)
	cached, _ := c.Task(1)
	assert.Equal(t, 2, cached.ProjectID)
}

func TestSearch(t *testing.T) {
	c, rec, _ := setup(t)
	ctx := context.Background()

	results, err := c.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = c.Search(ctx, "m")
	assert.ErrorIs(t, err, ErrQueryTooShort)
	assert.Len(t, rec.info, 1)

	results, err = c.Search(ctx, "MILK")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 3, results[1].ID)
}

func TestClearAll(t *testing.T) {
	c, rec, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, c.ClearAll(ctx))
	assert.Empty(t, c.Projects())
	assert.Empty(t, c.Tasks())
	assert.Contains(t, rec.success, "All data cleared successfully")

	p, err := c.CreateProject(ctx, "Fresh", "")
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID, "ids are not reused after clear")
}

func TestCancelledContextLeavesState(t *testing.T) {
	projects := store.NewProjectStore(nil, store.WithLatency(store.Latency{Min: time.Second, Max: time.Second}))
	tasks := store.NewTaskStore(nil)
	rec := &recorder{}
	c := New(projects, tasks, WithNotifier(rec))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CreateProject(ctx, "Never", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Projects())
	assert.Equal(t, []string{"Failed to create project"}, rec.errors)
}

func TestDeleteProjectCascadeIgnoresLateCancel(t *testing.T) {
	latency := store.WithLatency(store.Latency{Min: 50 * time.Millisecond, Max: 50 * time.Millisecond})
	projects := store.NewProjectStore([]model.Project{
		{ID: 1, Name: "Home"},
		{ID: 2, Name: "Work"},
	}, latency)
	tasks := store.NewTaskStore([]model.Task{
		{ID: 1, ProjectID: 1, Title: "Buy milk", Priority: model.PriorityMedium},
		{ID: 2, ProjectID: 1, Title: "Fix tap", Priority: model.PriorityLow},
		{ID: 3, ProjectID: 2, Title: "Report", Priority: model.PriorityHigh},
	})
	c := New(projects, tasks)
	require.NoError(t, c.Load(context.Background()))

	// expires while the project itself is being deleted
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	err := c.DeleteProject(ctx, 1)
	require.NoError(t, err)

	all, err := projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].ID)

	left, err := tasks.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, 3, left[0].ID)
	assert.Len(t, c.Tasks(), 1)
	assert.Len(t, c.Projects(), 1)
}

func TestDeleteProjectCancelledBeforeCascade(t *testing.T) {
	latency := store.WithLatency(store.Latency{Min: 50 * time.Millisecond, Max: 50 * time.Millisecond})
	projects := store.NewProjectStore([]model.Project{{ID: 1, Name: "Home"}}, latency)
	tasks := store.NewTaskStore([]model.Task{
		{ID: 1, ProjectID: 1, Title: "Buy milk", Priority: model.PriorityMedium},
	})
	c := New(projects, tasks)
	require.NoError(t, c.Load(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.DeleteProject(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, c.Projects(), 1)
	assert.Len(t, c.Tasks(), 1)

	left, err := tasks.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
