package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/existflow/projecttasks/internal/export"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	text.DisableColors()
	os.Exit(m.Run())
}

// ============================================================================
// TEST HELPERS
// ============================================================================

// resetFlags restores every flag to its default; cobra keeps package-level
// flag values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PTASK_LOG_FILE", filepath.Join(home, "ptask.log"))
	t.Cleanup(func() {
		_ = logger.Close()
		logger.SetDefault(nil)
	})
	return &harness{t: t, dbPath: filepath.Join(home, "session.db")}
}

func (h *harness) runWithInput(input string, args ...string) (string, error) {
	h.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append(args, "--db", h.dbPath, "--no-latency"))

	err := rootCmd.Execute()
	return out.String(), err
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

// ============================================================================
// TESTS
// ============================================================================

func TestFirstRunSeedsAndPersists(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("list")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Prepare quarterly report")

	_, err := os.Stat(h.dbPath)
	require.NoError(t, err, "first run saves the seeded session")

	h.mustRun("done", "6")
	out = h.mustRun("list", "--filter", "completed")
	assert.Contains(t, out, "Buy milk")
}

func TestRootWithoutTerminalPrintsList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun()
	assert.Contains(t, out, "All Tasks")
	assert.Contains(t, out, "Renew passport")
}

func TestListProjectFilterSort(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("list", "-P", "Work", "--filter", "active", "--sort", "priority")
	assert.Contains(t, out, "Prepare quarterly report")
	assert.NotContains(t, out, "Review pull requests")
	assert.NotContains(t, out, "Buy milk")
	assert.Less(t, strings.Index(out, "Prepare quarterly report"), strings.Index(out, "Update team wiki"))

	_, err := h.run("list", "--sort", "alphabetical")
	assert.ErrorContains(t, err, "invalid sort")
}

func TestAddUsesContext(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("project", "new", "Garden", "--color", "#00ff00")
	assert.Contains(t, out, "Project created successfully!")
	assert.Contains(t, out, "Created project: Garden (id: 5)")

	_, err := h.run("add", "Plant", "tomatoes")
	assert.ErrorContains(t, err, "no context set")

	h.mustRun("context", "set", "garden")
	out = h.mustRun("context")
	assert.Contains(t, out, "Current context: Garden (0/0 tasks)")

	out = h.mustRun("add", "Plant", "tomatoes", "-p", "high", "-d", "tomorrow")
	assert.Contains(t, out, `Added #9 to [Garden]: "Plant tomatoes" (high)`)

	out = h.mustRun("list", "-P", "Garden")
	assert.Contains(t, out, "Plant tomatoes")

	h.mustRun("context", "clear")
	out = h.mustRun("context")
	assert.Contains(t, out, "No context set")
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "Thing", "-P", "Nowhere")
	assert.ErrorContains(t, err, "project not found: Nowhere")

	_, err = h.run("add", "Thing", "-P", "Work", "-p", "urgent")
	assert.ErrorContains(t, err, "invalid priority")

	_, err = h.run("add", "Thing", "-P", "Work", "-d", "someday")
	assert.ErrorContains(t, err, "invalid due date")
}

func TestDoneToggles(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("done", "6")
	assert.Contains(t, out, "Task completed! 🎉")

	out = h.mustRun("done", "6")
	assert.Contains(t, out, "Task marked as active")

	out, err := h.run("done", "404")
	assert.Error(t, err)
	assert.Contains(t, out, "Failed to update task")
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)

	out, err := h.runWithInput("n\n", "delete", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out = h.mustRun("delete", "6", "--force")
	assert.Contains(t, out, "Task deleted successfully!")

	_, err = h.run("show", "6")
	assert.ErrorContains(t, err, "task not found: 6")

	out, err = h.runWithInput("y\n", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted successfully!")
}

func TestEditAndShow(t *testing.T) {
	h := newHarness(t)

	h.mustRun("edit", "6", "--title", "Buy oat milk", "--priority", "high", "--due", "2030-01-02")
	out := h.mustRun("show", "6", "--plain")
	assert.Contains(t, out, "Buy oat milk")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "Jan 2, 2030")
	assert.Contains(t, out, "Semi-skimmed")

	h.mustRun("edit", "6", "--clear-due")
	out = h.mustRun("show", "6", "--plain")
	assert.NotContains(t, out, "Due:")

	_, err := h.run("edit", "6")
	assert.ErrorContains(t, err, "nothing to change")
}

func TestMove(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("move", "6", "99")
	assert.ErrorContains(t, err, "project not found: 99")

	out := h.mustRun("move", "6", "Work")
	assert.Contains(t, out, "Task moved successfully!")

	out = h.mustRun("list", "-P", "Work")
	assert.Contains(t, out, "Buy milk")
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("search", "m")
	assert.Contains(t, out, "Type at least 2 characters")

	out = h.mustRun("search", "MILK")
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "Fix leaking tap")

	out = h.mustRun("search", "zzz")
	assert.Contains(t, out, `No tasks match "zzz"`)
}

func TestProjectLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("project", "list")
	assert.Contains(t, out, "Personal")
	assert.NotContains(t, out, "Side Project")

	out = h.mustRun("project", "list", "--archived")
	assert.Contains(t, out, "Side Project (archived)")

	h.mustRun("project", "edit", "1", "--name", "Me")
	out = h.mustRun("project", "list")
	assert.Contains(t, out, "Me")

	out = h.mustRun("project", "archive", "2")
	assert.Contains(t, out, "Project archived successfully!")
	out = h.mustRun("project", "list")
	assert.NotContains(t, out, "Work")

	// archived project tasks are kept
	out = h.mustRun("list")
	assert.Contains(t, out, "Prepare quarterly report")
}

func TestProjectDeleteCascades(t *testing.T) {
	h := newHarness(t)
	h.mustRun("context", "set", "3")

	out := h.mustRun("project", "delete", "3", "--force")
	assert.Contains(t, out, "Project deleted successfully!")

	out = h.mustRun("list")
	assert.NotContains(t, out, "Buy milk")
	assert.NotContains(t, out, "Fix leaking tap")

	out = h.mustRun("context")
	assert.Contains(t, out, "No context set")

	out, err := h.run("project", "delete", "3", "--force")
	assert.Error(t, err)
	assert.Contains(t, out, "Failed to delete project")
}

func TestStats(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("stats")
	assert.Contains(t, out, "Projects: 3  Tasks: 8  Active: 7  Completed: 1")
	assert.Contains(t, out, "Work")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(t.TempDir(), "backups")

	h.mustRun("done", "1")
	out := h.mustRun("export", "--dir", dir)
	assert.Contains(t, out, "Data exported successfully!")

	path := filepath.Join(dir, export.FileName(time.Now()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1.0", doc.Version)
	assert.Len(t, doc.Projects, 3)
	require.Len(t, doc.Tasks, 8)
	assert.True(t, doc.Tasks[0].IsCompleted)
}

func TestClear(t *testing.T) {
	h := newHarness(t)

	out, err := h.runWithInput("nope\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Data clearing cancelled")

	out, err = h.runWithInput("DELETE ALL\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All data cleared successfully")

	out = h.mustRun("list")
	assert.Contains(t, out, "No tasks found")

	out = h.mustRun("project", "new", "Fresh")
	assert.Contains(t, out, "id: 5", "ids are not reused after a clear")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Prepare...", truncate("Prepare quarterly report", 10))
	assert.Equal(t, "héll...", truncate("héllo wörld", 7))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abcdef", 0))
}
