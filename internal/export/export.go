// Package export writes JSON backups of the session data.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/projecttasks/internal/model"
)

// Version is the backup format version
const Version = "1.0"

// Document is the backup file layout
type Document struct {
	Projects   []model.Project `json:"projects"`
	Tasks      []model.Task    `json:"tasks"`
	ExportedAt time.Time       `json:"exportedAt"`
	Version    string          `json:"version"`
}

// New builds a backup document. Nil slices are written as empty arrays.
func New(projects []model.Project, tasks []model.Task, now time.Time) Document {
	if projects == nil {
		projects = []model.Project{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return Document{
		Projects:   projects,
		Tasks:      tasks,
		ExportedAt: now.UTC(),
		Version:    Version,
	}
}

// FileName returns the backup name for the given day
func FileName(now time.Time) string {
	return fmt.Sprintf("project-tasks-backup-%s.json", now.UTC().Format("2006-01-02"))
}

// Write encodes doc to w with two-space indentation
func (d Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// WriteFile writes doc into dir and returns the file path
func (d Document) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(d.ExportedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if err := d.Write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	return path, nil
}
