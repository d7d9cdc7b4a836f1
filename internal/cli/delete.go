package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID.

Examples:
  ptask delete 12
  ptask rm 12 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	task, ok := s.ctrl.Task(id)
	if !ok {
		return fmt.Errorf("task not found: %d", id)
	}

	// Check config
	if cfg.ConfirmDelete && !deleteForce {
		if !confirm(cmd, fmt.Sprintf("Delete %q (#%d)?", task.Title, task.ID)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	return s.ctrl.DeleteTask(cmd.Context(), id)
}
