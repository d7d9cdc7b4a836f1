package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/projecttasks/internal/app"
	"github.com/existflow/projecttasks/internal/autosave"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/query"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTaskList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddProject
	ModeEditTask
	ModeSearch
	ModeConfirm
	ModeHelp
)

// Options configures the TUI
type Options struct {
	// Notifier must be the one the controller reports to
	Notifier *Notifier
	// Save persists the session; nil disables autosave
	Save          func(ctx context.Context) error
	AutosaveDelay time.Duration
	ConfirmDelete bool
}

// pendingConfirm is an operation waiting for y/n
type pendingConfirm struct {
	prompt string
	run    func(ctx context.Context) error
}

// Model is the main TUI model
type Model struct {
	ctrl     *app.Controller
	notes    *Notifier
	autoSave *autosave.AutoSave

	confirmDelete bool

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	projCursor int // 0 is "All Tasks"
	taskCursor int

	view query.Options

	// Search across all projects
	searchQuery string
	results     []int // task ids

	input   textinput.Model
	editID  int
	spinner spinner.Model
	help    help.Model
	running int

	confirm *pendingConfirm

	message  string
	msgKind  msgKind
	saved    chan error // background save results
	saveErr  error
	quitting bool
}

// NewModel creates a new TUI model over a loaded controller
func NewModel(ctrl *app.Controller, opts Options) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = HelpStyle

	notes := opts.Notifier
	if notes == nil {
		notes = NewNotifier()
	}

	m := Model{
		ctrl:          ctrl,
		notes:         notes,
		confirmDelete: opts.ConfirmDelete,
		pane:          PaneSidebar,
		mode:          ModeNormal,
		view:          query.Options{Filter: query.FilterAll, Sort: query.SortCreated},
		input:         ti,
		spinner:       sp,
		help:          help.New(),
	}

	if opts.Save != nil {
		m.autoSave = autosave.New(opts.Save, opts.AutosaveDelay)
		saved := make(chan error, 1)
		m.autoSave.SetOnSaved(func(err error) {
			if err != nil {
				logger.Warn("Autosave failed", logger.F("error", err))
			}
			select {
			case saved <- err:
			default:
				// the UI has not read the previous result yet
			}
		})
		m.saved = saved
	}

	logger.Debug("TUI model initialized",
		logger.F("projects", len(ctrl.Projects())),
		logger.F("tasks", len(ctrl.Tasks())))
	return m
}

// SaveError returns the error from the final save on quit, if any
func (m Model) SaveError() error {
	return m.saveErr
}

// selectedProject returns the project under the sidebar cursor. ok is false
// when "All Tasks" is selected.
func (m Model) selectedProject() (model.Project, bool) {
	projects := m.ctrl.Projects()
	i := m.projCursor - 1
	if i < 0 || i >= len(projects) {
		return model.Project{}, false
	}
	return projects[i], true
}

// searching reports whether the task pane shows search results
func (m Model) searching() bool {
	return m.searchQuery != ""
}

// visibleTasks returns the tasks in the task pane, filtered and sorted
func (m Model) visibleTasks() []model.Task {
	var tasks []model.Task
	switch {
	case m.searching():
		// look results up again so they reflect later edits
		for _, id := range m.results {
			if t, ok := m.ctrl.Task(id); ok {
				tasks = append(tasks, t)
			}
		}
		return tasks
	default:
		if p, ok := m.selectedProject(); ok {
			tasks = m.ctrl.TasksForProject(p.ID)
		} else {
			tasks = m.ctrl.Tasks()
		}
	}
	return query.Apply(tasks, m.view)
}

// currentTask returns the task under the cursor
func (m Model) currentTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.taskCursor < 0 || m.taskCursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.taskCursor], true
}

// clampCursors keeps both cursors inside their lists after a change
func (m *Model) clampCursors() {
	if n := len(m.ctrl.Projects()); m.projCursor > n {
		m.projCursor = n
	}
	if m.projCursor < 0 {
		m.projCursor = 0
	}
	if n := len(m.visibleTasks()); m.taskCursor >= n {
		m.taskCursor = n - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}
}

func (m *Model) setMessage(text string, kind msgKind) {
	m.message = text
	m.msgKind = kind
}
