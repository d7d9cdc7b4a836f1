package cli

import (
	"fmt"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/query"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, optionally limited to one project.

Examples:
  ptask list
  ptask list --project Work --filter active
  ptask list --sort dueDate --reverse`,
	RunE: runList,
}

var (
	listProject string
	listFilter  string
	listSort    string
	listReverse bool
)

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "P", "", "Project id or name")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "Filter (all, active, completed)")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "created", "Sort by (created, priority, dueDate)")
	listCmd.Flags().BoolVarP(&listReverse, "reverse", "r", false, "Reverse the sort order")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := query.ParseFilter(listFilter)
	if err != nil {
		return err
	}
	sortKey, err := query.ParseSort(listSort)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	title := "All Tasks"
	var tasks []model.Task
	if listProject != "" {
		project, err := s.resolveProject(listProject)
		if err != nil {
			return err
		}
		title = project.Name
		tasks = s.ctrl.TasksForProject(project.ID)
	} else {
		tasks = s.ctrl.Tasks()
	}

	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks found. Add one with: ptask add \"Your task\"")
		return nil
	}

	shown := query.Apply(tasks, query.Options{Filter: filter, Sort: sortKey, Reverse: listReverse})
	if len(shown) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks match your filter.")
		return nil
	}

	printTasks(cmd.OutOrStdout(), title, shown, projectNames(s.ctrl.Projects()))
	return nil
}
