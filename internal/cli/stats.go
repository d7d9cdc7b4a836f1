package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task totals per project",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	sum := s.ctrl.Summary()
	projects := s.ctrl.Projects()

	fmt.Fprintf(out, "Projects: %d  Tasks: %d  Active: %d  Completed: %d\n",
		len(projects), sum.Total, sum.Active, sum.Completed)
	if len(projects) == 0 {
		return nil
	}

	counts := s.ctrl.TaskCounts()
	t := newTable(out)
	t.AppendHeader(header("Project", "Active", "Completed", "Total", "Done"))
	for _, p := range projects {
		c := counts[p.ID]
		pct := "-"
		if c.Total > 0 {
			pct = fmt.Sprintf("%d%%", (c.Total-c.Active)*100/c.Total)
		}
		t.AppendRow(table.Row{p.Name, c.Active, c.Total - c.Active, c.Total, pct})
	}
	t.Render()
	return nil
}
