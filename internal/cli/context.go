package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage project context",
	Long: `Set or view the current project context.

When a context is set, new tasks are added to that project by default.

Examples:
  ptask context              # Show current context
  ptask context set Work     # Set context to the 'Work' project
  ptask context clear        # Clear context`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project]",
	Short: "Set the current project context",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current context",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

func runContextShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	id := s.currentContext(cmd.Context())
	if id == 0 {
		fmt.Fprintln(out, "No context set. Use 'ptask context set <project>'.")
		return nil
	}

	project, ok := s.ctrl.Project(id)
	if !ok {
		fmt.Fprintf(out, "Context set to project %d but it no longer exists\n", id)
		return nil
	}

	c := s.ctrl.TaskCounts()[id]
	fmt.Fprintf(out, "Current context: %s (%d/%d tasks)\n", project.Name, c.Active, c.Total)
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	project, err := s.resolveProject(args[0])
	if err != nil {
		return err
	}

	if err := s.db.SetContext(cmd.Context(), project.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Switched to: %s\n", project.Name)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.db.ClearContext(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Context cleared")
	return nil
}
