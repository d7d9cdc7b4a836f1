package cli

import (
	"fmt"
	"time"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Change any of a task's fields. Only the flags given are applied.

Examples:
  ptask edit 4 --title "Buy oat milk"
  ptask edit 4 --priority high --due +2d
  ptask edit 4 --clear-due`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle    string
	editDesc     string
	editPriority string
	editDue      string
	editClearDue bool
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDesc, "desc", "", "New description (markdown)")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (low, medium, high)")
	editCmd.Flags().StringVarP(&editDue, "due", "d", "", "New due date")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")
	editCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}

	var patch model.TaskPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &editTitle
	}
	if flags.Changed("desc") {
		patch.Description = &editDesc
	}
	if flags.Changed("priority") {
		p, err := model.ParsePriority(editPriority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if flags.Changed("due") {
		due, err := parseDue(editDue, time.Now())
		if err != nil {
			return err
		}
		opt := model.Some(due)
		patch.DueDate = &opt
	}
	if editClearDue {
		opt := model.None[time.Time]()
		patch.DueDate = &opt
	}
	if patch == (model.TaskPatch{}) {
		return fmt.Errorf("nothing to change (see 'ptask edit --help')")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if _, err := s.ctrl.UpdateTask(cmd.Context(), id, patch); err != nil {
		return err
	}
	return nil
}
