package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all tasks and projects",
	Long: `Delete every project and task and forget the current context.
Ids are never reused, even after a clear.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if !force {
		ok := confirmPhrase(cmd,
			"This will delete ALL projects and tasks permanently. This action cannot be undone.",
			"DELETE ALL")
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Data clearing cancelled")
			return nil
		}
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.ctrl.ClearAll(cmd.Context()); err != nil {
		return err
	}
	// drops the context too
	if err := s.db.Clear(cmd.Context()); err != nil {
		return err
	}
	// write the empty snapshot so the next run does not reseed
	return s.save(cmd.Context())
}
