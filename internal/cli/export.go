package cli

import (
	"fmt"
	"time"

	"github.com/existflow/projecttasks/internal/export"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export projects and tasks to a JSON backup",
	Long: `Write the active projects and the saved tasks to
project-tasks-backup-YYYY-MM-DD.json.

Examples:
  ptask export
  ptask export --dir ~/backups`,
	RunE: runExport,
}

var exportDir string

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	dir := exportDir
	if dir == "" {
		dir = cfg.ExportDir
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	// tasks come from what was last saved, not the live stores
	if s.dirty.Load() {
		if err := s.save(cmd.Context()); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	tasks, err := s.db.LoadTasks(cmd.Context())
	if err != nil {
		return err
	}

	doc := export.New(s.ctrl.Projects(), tasks, time.Now())
	path, err := doc.WriteFile(dir)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "✗ Failed to export data")
		return err
	}

	logger.Info("Exported backup", logger.F("path", path), logger.F("tasks", len(tasks)))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Data exported successfully!\n%s\n", path)
	return nil
}
