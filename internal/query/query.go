// Package query implements the list-view filtering, sorting and counting
// shared by the CLI and the TUI.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/existflow/projecttasks/internal/model"
)

// MinSearchLength is the shortest query a search runs for
const MinSearchLength = 2

// Filter selects tasks by completion state
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in cycling order
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// SortKey selects the task ordering
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "dueDate"
)

// SortKeys lists the sort keys in cycling order
var SortKeys = []SortKey{SortCreated, SortPriority, SortDueDate}

// Label returns the display name of the sort key
func (k SortKey) Label() string {
	switch k {
	case SortPriority:
		return "Priority"
	case SortDueDate:
		return "Due Date"
	default:
		return "Date Created"
	}
}

// Label returns the display name of the filter
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// ParseFilter converts user input to a Filter. Empty input means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active", "open":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("invalid filter %q (want all, active or completed)", s)
}

// ParseSort converts user input to a SortKey. Empty input means created.
func ParseSort(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "created":
		return SortCreated, nil
	case "priority":
		return SortPriority, nil
	case "duedate", "due":
		return SortDueDate, nil
	}
	return "", fmt.Errorf("invalid sort %q (want created, priority or dueDate)", s)
}

// Next returns the filter after f in cycling order
func (f Filter) Next() Filter {
	return next(Filters, f)
}

// Next returns the sort key after k in cycling order
func (k SortKey) Next() SortKey {
	return next(SortKeys, k)
}

func next[T comparable](all []T, cur T) T {
	i := slices.Index(all, cur)
	return all[(i+1)%len(all)]
}

// Options configures Apply
type Options struct {
	Filter  Filter
	Sort    SortKey
	Reverse bool
}

// Keep reports whether the task passes the filter
func (f Filter) Keep(t model.Task) bool {
	switch f {
	case FilterActive:
		return !t.IsCompleted
	case FilterCompleted:
		return t.IsCompleted
	default:
		return true
	}
}

// Apply filters and sorts a copy of tasks. The sort is stable, so ties keep
// their input order. Undated tasks sort last under SortDueDate even when
// reversed.
func Apply(tasks []model.Task, opts Options) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if opts.Filter.Keep(t) {
			out = append(out, t)
		}
	}

	cmp := compareFunc(opts.Sort)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		if opts.Sort == SortDueDate {
			_, aok := a.DueDate.Get()
			_, bok := b.DueDate.Get()
			switch {
			case !aok && !bok:
				return 0
			case !aok:
				return 1
			case !bok:
				return -1
			}
		}
		if opts.Reverse {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func compareFunc(key SortKey) func(a, b model.Task) int {
	switch key {
	case SortPriority:
		// high first
		return func(a, b model.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		}
	case SortDueDate:
		// soonest first
		return func(a, b model.Task) int {
			ad, _ := a.DueDate.Get()
			bd, _ := b.DueDate.Get()
			return ad.Compare(bd)
		}
	default:
		// newest first
		return func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// Counts holds the active and total task numbers of one project
type Counts struct {
	Active int
	Total  int
}

// CountByProject tallies tasks per project id. Every given project has an
// entry, even when it has no tasks.
func CountByProject(projects []model.Project, tasks []model.Task) map[int]Counts {
	counts := make(map[int]Counts, len(projects))
	for _, p := range projects {
		counts[p.ID] = Counts{}
	}
	for _, t := range tasks {
		c := counts[t.ProjectID]
		c.Total++
		if !t.IsCompleted {
			c.Active++
		}
		counts[t.ProjectID] = c
	}
	return counts
}

// Summary holds the completion totals of a task list
type Summary struct {
	Total     int
	Active    int
	Completed int
}

// Summarize counts tasks by completion state
func Summarize(tasks []model.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}
