package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportedAt = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

func TestFileName(t *testing.T) {
	assert.Equal(t, "project-tasks-backup-2024-03-09.json", FileName(exportedAt))
}

func TestWriteLayout(t *testing.T) {
	doc := New(
		[]model.Project{{ID: 1, Name: "Home", Color: "#fff", CreatedAt: exportedAt}},
		[]model.Task{{ID: 1, ProjectID: 1, Title: "Buy milk", Priority: model.PriorityMedium, CreatedAt: exportedAt}},
		exportedAt,
	)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"projects\": ["))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "1.0", raw["version"])
	assert.Equal(t, "2024-03-09T15:04:05Z", raw["exportedAt"])

	task := raw["tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), task["projectId"])
	assert.Nil(t, task["dueDate"])
	assert.Nil(t, task["completedAt"])
	assert.Equal(t, false, task["isCompleted"])
}

func TestEmptyCollectionsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(nil, nil, exportedAt).Write(&buf))
	assert.Contains(t, buf.String(), `"projects": []`)
	assert.Contains(t, buf.String(), `"tasks": []`)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")

	path, err := New(nil, nil, exportedAt).WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project-tasks-backup-2024-03-09.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, Version, doc.Version)
	assert.True(t, exportedAt.Equal(doc.ExportedAt))
}
