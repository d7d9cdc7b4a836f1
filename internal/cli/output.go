package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/query"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func header(cols ...string) table.Row {
	row := make(table.Row, 0, len(cols))
	for _, c := range cols {
		row = append(row, text.FgGreen.Sprint(text.Bold.Sprint(c)))
	}
	return row
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	return t
}

// printTasks renders tasks as a table. names maps project ids to names;
// tasks of unknown projects show the bare id.
func printTasks(w io.Writer, title string, tasks []model.Task, names map[int]string) {
	now := time.Now()
	s := query.Summarize(tasks)

	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s (%d active, %d completed)", title, s.Active, s.Completed))
	t.AppendHeader(header("ID", "", "Title", "Project", "Priority", "Due"))
	for _, task := range tasks {
		t.AppendRow(table.Row{
			task.ID,
			checkbox(task),
			truncate(task.Title, 48),
			projectName(names, task.ProjectID),
			formatPriority(task.Priority),
			formatDue(task, now),
		})
	}
	t.Render()
}

func projectNames(projects []model.Project) map[int]string {
	names := make(map[int]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

func projectName(names map[int]string, id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func checkbox(t model.Task) string {
	if t.IsCompleted {
		return "[x]"
	}
	return "[ ]"
}

func formatPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return text.FgRed.Sprint("▲ high")
	case model.PriorityMedium:
		return text.FgYellow.Sprint("● medium")
	case model.PriorityLow:
		return text.FgBlue.Sprint("▼ low")
	default:
		return string(p)
	}
}

func formatDue(t model.Task, now time.Time) string {
	due, ok := t.DueDate.Get()
	if !ok {
		return ""
	}
	s := due.Format("Jan 2, 2006")
	switch {
	case t.IsOverdue(now):
		return text.FgRed.Sprint(s + " (overdue)")
	case t.IsDue(now) && !t.IsCompleted:
		return text.FgYellow.Sprint(s + " (today)")
	}
	return s
}

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// parseDue accepts today, tomorrow, +Nd or YYYY-MM-DD
func parseDue(s string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	var days int
	if n, err := fmt.Sscanf(s, "+%dd", &days); err == nil && n == 1 && days >= 0 {
		return today.AddDate(0, 0, days), nil
	}

	due, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want today, tomorrow, +Nd or YYYY-MM-DD)", s)
	}
	return due, nil
}
