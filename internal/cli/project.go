package cli

import (
	"fmt"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/query"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, edit, archive and delete projects.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new project for organizing tasks.

Examples:
  ptask project new "Work"
  ptask project new "Personal" --color "#FF6B6B"`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE:    runProjectList,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project-id]",
	Short: "Rename or recolor a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive [project-id]",
	Short: "Archive a project",
	Long:  `Hide a project from the project list. Its tasks are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectArchive,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var (
	projectColor    string
	projectRename   string
	projectArchived bool
	projectForce    bool
)

func init() {
	projectNewCmd.Flags().StringVarP(&projectColor, "color", "c", "", "Project color (hex, default from config)")
	projectEditCmd.Flags().StringVarP(&projectColor, "color", "c", "", "New color (hex)")
	projectEditCmd.Flags().StringVarP(&projectRename, "name", "n", "", "New name")
	projectListCmd.Flags().BoolVarP(&projectArchived, "archived", "a", false, "Include archived projects")
	projectDeleteCmd.Flags().BoolVarP(&projectForce, "force", "f", false, "Do not ask for confirmation")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.ctrl.CreateProject(cmd.Context(), args[0], projectColor)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created project: %s (id: %d)\n", p.Name, p.ID)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	projects := s.ctrl.Projects()
	if projectArchived {
		if projects, err = s.ctrl.AllProjects(cmd.Context()); err != nil {
			return err
		}
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
		return nil
	}

	counts := query.CountByProject(projects, s.ctrl.Tasks())
	current := s.currentContext(cmd.Context())

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(header("", "ID", "Name", "Color", "Active", "Total"))

	totalActive := 0
	for _, p := range projects {
		c := counts[p.ID]
		totalActive += c.Active

		marker := ""
		if p.ID == current {
			marker = "❯"
		}
		name := p.Name
		if p.IsArchived {
			name = text.Faint.Sprint(name + " (archived)")
		}
		t.AppendRow(table.Row{marker, p.ID, name, p.Color, c.Active, c.Total})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d projects", len(projects)), "", totalActive, ""})
	t.Render()

	return nil
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID("project", args[0])
	if err != nil {
		return err
	}

	var patch model.ProjectPatch
	if cmd.Flags().Changed("name") {
		patch.Name = &projectRename
	}
	if cmd.Flags().Changed("color") {
		patch.Color = &projectColor
	}
	if patch == (model.ProjectPatch{}) {
		return fmt.Errorf("nothing to change (use --name or --color)")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	_, err = s.ctrl.UpdateProject(cmd.Context(), id, patch)
	return err
}

func runProjectArchive(cmd *cobra.Command, args []string) error {
	id, err := parseID("project", args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if _, err := s.ctrl.ArchiveProject(cmd.Context(), id); err != nil {
		return err
	}

	if s.currentContext(cmd.Context()) == id {
		if err := s.db.ClearContext(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear context: %w", err)
		}
	}
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("project", args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if cfg.ConfirmDelete && !projectForce {
		name := fmt.Sprintf("#%d", id)
		if p, ok := s.ctrl.Project(id); ok {
			name = p.Name
		}
		n := len(s.ctrl.TasksForProject(id))
		if !confirm(cmd, fmt.Sprintf("Delete project %s and its %d tasks?", name, n)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := s.ctrl.DeleteProject(cmd.Context(), id); err != nil {
		return err
	}

	if s.currentContext(cmd.Context()) == id {
		if err := s.db.ClearContext(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear context: %w", err)
		}
	}
	return nil
}
