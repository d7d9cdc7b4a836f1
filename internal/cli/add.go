package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to a project. Without --project the task goes to the
current context project.

Examples:
  ptask add "Buy groceries"
  ptask add "Meeting with team" -P Work -p high
  ptask add "Send invoice" -d tomorrow --desc "Use the **new** template"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addProject     string
	addPriority    string
	addDue         string
	addDescription string
)

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project id or name (default: context)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (today, tomorrow, +3d, 2024-01-15)")
	addCmd.Flags().StringVar(&addDescription, "desc", "", "Task description (markdown)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	priority, err := model.ParsePriority(addPriority)
	if err != nil {
		return err
	}

	draft := model.TaskDraft{
		Title:       title,
		Description: addDescription,
		Priority:    priority,
	}
	if addDue != "" {
		due, err := parseDue(addDue, time.Now())
		if err != nil {
			return err
		}
		draft.DueDate = model.Some(due)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	// Use context if no project specified
	var project model.Project
	switch {
	case addProject != "":
		if project, err = s.resolveProject(addProject); err != nil {
			return err
		}
	default:
		id := s.currentContext(cmd.Context())
		if id == 0 {
			return fmt.Errorf("no project given and no context set (use --project or 'ptask context set')")
		}
		p, ok := s.ctrl.Project(id)
		if !ok {
			return fmt.Errorf("context project %d no longer exists", id)
		}
		project = p
	}
	draft.ProjectID = project.ID

	task, err := s.ctrl.CreateTask(cmd.Context(), draft)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added #%d to [%s]: %q (%s)\n", task.ID, project.Name, task.Title, task.Priority)
	return nil
}
