package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/existflow/projecttasks/internal/app"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tasks by title or description",
	Long: `Find tasks whose title or description contains the query, ignoring case.
Queries need at least two characters.

Examples:
  ptask search milk
  ptask search "quarterly report"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	q := strings.Join(args, " ")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	results, err := s.ctrl.Search(cmd.Context(), q)
	if errors.Is(err, app.ErrQueryTooShort) {
		// the notifier already printed the hint
		return nil
	}
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No tasks match %q.\n", strings.TrimSpace(q))
		return nil
	}

	title := fmt.Sprintf("Results for %q", strings.TrimSpace(q))
	printTasks(cmd.OutOrStdout(), title, results, projectNames(s.ctrl.Projects()))
	return nil
}
