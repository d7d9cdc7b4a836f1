package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOptionalJSON(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	task := Task{ID: 1, Title: "a", Priority: PriorityLow, DueDate: Some(due)}
	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dueDate":"2024-03-01T00:00:00Z"`)
	assert.Contains(t, string(data), `"completedAt":null`)

	var decoded Task
	require.NoError(t, json.Unmarshal(data, &decoded))
	got, ok := decoded.DueDate.Get()
	assert.True(t, ok)
	assert.True(t, got.Equal(due))
	assert.False(t, decoded.CompletedAt.IsSet())
}

func TestOptionalYAML(t *testing.T) {
	src := `
- id: 1
  title: with date
  due_date: 2024-01-15
- id: 2
  title: without date
  due_date: null
- id: 3
  title: missing
`
	var tasks []Task
	require.NoError(t, yaml.Unmarshal([]byte(src), &tasks))
	require.Len(t, tasks, 3)

	due, ok := tasks[0].DueDate.Get()
	require.True(t, ok)
	assert.Equal(t, 15, due.Day())
	assert.False(t, tasks[1].DueDate.IsSet())
	assert.False(t, tasks[2].DueDate.IsSet())
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"HIGH", PriorityHigh, false},
		{" medium ", PriorityMedium, false},
		{"urgent", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestNewTaskDefaults(t *testing.T) {
	now := time.Now()
	task := NewTask(4, TaskDraft{ProjectID: 2, Title: "Buy milk"}, now)

	assert.Equal(t, 4, task.ID)
	assert.Equal(t, 2, task.ProjectID)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	assert.False(t, task.CompletedAt.IsSet())
	assert.False(t, task.DueDate.IsSet())
	assert.Equal(t, now, task.CreatedAt)
}

func TestTaskPatchApply(t *testing.T) {
	task := Task{
		ID:      1,
		Title:   "old",
		DueDate: Some(time.Now()),
	}
	title := "new"
	cleared := None[time.Time]()
	TaskPatch{Title: &title, DueDate: &cleared}.Apply(&task)

	assert.Equal(t, "new", task.Title)
	assert.False(t, task.DueDate.IsSet())
	assert.Equal(t, 1, task.ID)
}

func TestProjectPatchApply(t *testing.T) {
	p := Project{ID: 1, Name: "Home", Color: "#fff"}
	color := "#000"
	ProjectPatch{Color: &color}.Apply(&p)

	assert.Equal(t, "Home", p.Name)
	assert.Equal(t, "#000", p.Color)
}

func TestTaskMatches(t *testing.T) {
	task := Task{Title: "Buy MILK", Description: "from the store"}
	assert.True(t, task.Matches("milk"))
	assert.True(t, task.Matches("STORE"))
	assert.False(t, task.Matches("bread"))
}

func TestTaskDueChecks(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	yesterday := Task{DueDate: Some(now.AddDate(0, 0, -1))}
	today := Task{DueDate: Some(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))}
	later := Task{DueDate: Some(now.AddDate(0, 0, 3))}
	undated := Task{}

	assert.True(t, yesterday.IsOverdue(now))
	assert.True(t, yesterday.IsDue(now))
	assert.False(t, today.IsOverdue(now))
	assert.True(t, today.IsDue(now))
	assert.False(t, later.IsDue(now))
	assert.False(t, undated.IsDue(now))

	yesterday.IsCompleted = true
	assert.False(t, yesterday.IsOverdue(now))
}
