package cli

import (
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [project]",
	Short: "Move a task to another project",
	Long: `Reassign a task to another project, given by id or name.

Examples:
  ptask move 4 Work
  ptask move 4 2`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	project, err := s.resolveProject(args[1])
	if err != nil {
		return err
	}

	_, err = s.ctrl.MoveTask(cmd.Context(), id, project.ID)
	return err
}
