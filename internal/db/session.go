package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/existflow/projecttasks/internal/model"
)

// Session keys
const (
	KeyProjects      = "projects"
	KeyTasks         = "tasks"
	KeyProjectLastID = "projects.last_id"
	KeyTaskLastID    = "tasks.last_id"
	KeyContext       = "context"
)

// ErrNoValue is returned by Get when the key has never been written
var ErrNoValue = errors.New("no value stored")

// Snapshot is the persisted state of both stores
type Snapshot struct {
	Projects      []model.Project
	Tasks         []model.Task
	LastProjectID int
	LastTaskID    int
}

// Get returns the raw value stored under key
func (db *DB) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		"SELECT value FROM session_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", key, ErrNoValue)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (db *DB) Set(ctx context.Context, key, value string) error {
	return set(ctx, db.DB, key, value)
}

// Delete removes key. Missing keys are not an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM session_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every stored key
func (db *DB) Clear(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM session_state"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func set(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// SaveSnapshot writes both collections and their id high-water marks in one transaction
func (db *DB) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	projects, err := json.Marshal(nonNil(snap.Projects))
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	tasks, err := json.Marshal(nonNil(snap.Tasks))
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	values := []struct{ key, value string }{
		{KeyProjects, string(projects)},
		{KeyTasks, string(tasks)},
		{KeyProjectLastID, strconv.Itoa(snap.LastProjectID)},
		{KeyTaskLastID, strconv.Itoa(snap.LastTaskID)},
	}
	for _, v := range values {
		if err := set(ctx, tx, v.key, v.value); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the saved state. found is false when nothing has been saved yet.
func (db *DB) LoadSnapshot(ctx context.Context) (snap Snapshot, found bool, err error) {
	raw, err := db.Get(ctx, KeyProjects)
	if errors.Is(err, ErrNoValue) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	if err := json.Unmarshal([]byte(raw), &snap.Projects); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode projects: %w", err)
	}

	if snap.Tasks, err = db.LoadTasks(ctx); err != nil {
		return Snapshot{}, false, err
	}
	if snap.LastProjectID, err = db.getInt(ctx, KeyProjectLastID); err != nil {
		return Snapshot{}, false, err
	}
	if snap.LastTaskID, err = db.getInt(ctx, KeyTaskLastID); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// LoadTasks reads the tasks key on its own. A missing key yields an empty list.
func (db *DB) LoadTasks(ctx context.Context) ([]model.Task, error) {
	raw, err := db.Get(ctx, KeyTasks)
	if errors.Is(err, ErrNoValue) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	tasks := []model.Task{}
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (db *DB) getInt(ctx context.Context, key string) (int, error) {
	raw, err := db.Get(ctx, key)
	if errors.Is(err, ErrNoValue) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return n, nil
}

// GetContext returns the current project context, 0 when unset
func (db *DB) GetContext(ctx context.Context) (int, error) {
	return db.getInt(ctx, KeyContext)
}

// SetContext makes projectID the default for new tasks
func (db *DB) SetContext(ctx context.Context, projectID int) error {
	return db.Set(ctx, KeyContext, strconv.Itoa(projectID))
}

// ClearContext removes the current project context
func (db *DB) ClearContext(ctx context.Context) error {
	return db.Delete(ctx, KeyContext)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
