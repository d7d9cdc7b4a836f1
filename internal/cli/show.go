package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task with its description",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showPlain bool

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print the description without markdown rendering")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	names := projectNames(s.ctrl.Projects())
	now := time.Now()

	fmt.Fprintf(out, "%s #%d %s\n\n", checkbox(task), task.ID, task.Title)
	fmt.Fprintf(out, "  Project:   %s\n", projectName(names, task.ProjectID))
	fmt.Fprintf(out, "  Priority:  %s\n", formatPriority(task.Priority))
	if due := formatDue(task, now); due != "" {
		fmt.Fprintf(out, "  Due:       %s\n", due)
	}
	fmt.Fprintf(out, "  Created:   %s\n", task.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
	if done, ok := task.CompletedAt.Get(); ok {
		fmt.Fprintf(out, "  Completed: %s\n", done.Local().Format("Jan 2, 2006 15:04"))
	}

	body := strings.TrimSpace(task.Description)
	if body == "" {
		return nil
	}
	if showPlain {
		fmt.Fprintf(out, "\n%s\n", body)
		return nil
	}

	rendered, err := glamour.Render(body, "dark")
	if err != nil {
		// fall back to the raw markdown
		fmt.Fprintf(out, "\n%s\n", body)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}
