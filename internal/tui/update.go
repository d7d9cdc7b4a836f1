package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/model"
)

// tickMsg is sent every second for time updates
type tickMsg time.Time

// opDoneMsg is sent when a controller operation finishes
type opDoneMsg struct {
	note note
	err  error
}

// searchDoneMsg is sent when a search finishes
type searchDoneMsg struct {
	query string
	tasks []model.Task
	note  note
	err   error
}

// savedMsg is sent after each background save
type savedMsg struct {
	err error
}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	if m.saved != nil {
		return tea.Batch(tickCmd(), waitForSave(m.saved))
	}
	return tickCmd()
}

// waitForSave delivers the next background save result
func waitForSave(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: <-ch}
	}
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// redraws the clock and the save status
		return m, tickCmd()

	case spinner.TickMsg:
		if m.running == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case opDoneMsg:
		m.running--
		text, kind := msg.note.text, msg.note.kind
		if msg.err != nil && text == "" {
			text, kind = msg.err.Error(), kindError
		}
		if msg.err == nil && m.autoSave != nil {
			m.autoSave.Trigger()
		}
		if text != "" {
			m.setMessage(text, kind)
		}
		m.clampCursors()
		if m.quitting && m.running == 0 {
			return m.finishQuit()
		}
		return m, nil

	case searchDoneMsg:
		m.running--
		m = m.applySearch(msg)
		if m.quitting && m.running == 0 {
			return m.finishQuit()
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setMessage("Failed to save: "+msg.err.Error(), kindError)
		}
		return m, waitForSave(m.saved)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.quitting {
			// waiting for running operations before leaving
			return m, nil
		}
		switch m.mode {
		case ModeAddTask, ModeAddProject, ModeEditTask:
			return m.updateInput(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	// cursor blink while typing
	if m.mode != ModeNormal {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// start runs cmd in the background and shows the spinner until it reports back
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.running++
	if m.running == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// run executes a controller operation as a command
func (m *Model) run(op func(ctx context.Context) error) tea.Cmd {
	notes := m.notes
	return m.start(func() tea.Msg {
		n, err := notes.capture(func() error { return op(context.Background()) })
		return opDoneMsg{note: n, err: err}
	})
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneTaskList

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case key.Matches(msg, keys.Enter):
		if m.pane == PaneSidebar {
			m.pane = PaneTaskList
			return m, nil
		}
		return m.toggleDone()

	case key.Matches(msg, keys.Done):
		return m.toggleDone()

	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Edit):
		return m.startEditTask()

	case key.Matches(msg, keys.Delete):
		return m.deleteTask()

	case key.Matches(msg, keys.Priority):
		return m.setPriority(msg.String())

	case key.Matches(msg, keys.Move):
		return m.moveTask()

	case key.Matches(msg, keys.Filter):
		m.view.Filter = m.view.Filter.Next()
		m.taskCursor = 0
		m.setMessage("Filter: "+m.view.Filter.Label(), kindInfo)

	case key.Matches(msg, keys.Sort):
		m.view.Sort = m.view.Sort.Next()
		m.taskCursor = 0
		m.setMessage("Sort: "+m.view.Sort.Label(), kindInfo)

	case key.Matches(msg, keys.Reverse):
		m.view.Reverse = !m.view.Reverse
		m.taskCursor = 0
		m.setMessage("Order: "+orderLabel(m.view.Reverse), kindInfo)

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Project):
		return m.startAddProject()

	case key.Matches(msg, keys.Archive):
		return m.archiveProject()

	case key.Matches(msg, keys.Remove):
		return m.deleteProject()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		if m.searching() {
			m.searchQuery = ""
			m.results = nil
			m.taskCursor = 0
			m.setMessage("Search cleared", kindInfo)
		}
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.projCursor > 0 {
			m.projCursor--
			m.taskCursor = 0
		}
	} else if m.taskCursor > 0 {
		m.taskCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.projCursor < len(m.ctrl.Projects()) {
			m.projCursor++
			m.taskCursor = 0
		}
	} else if m.taskCursor < len(m.visibleTasks())-1 {
		m.taskCursor++
	}
}

// focusedTask returns the task under the cursor when the task pane has focus
func (m Model) focusedTask() (model.Task, bool) {
	if m.pane != PaneTaskList {
		return model.Task{}, false
	}
	return m.currentTask()
}

func (m Model) toggleDone() (tea.Model, tea.Cmd) {
	t, ok := m.focusedTask()
	if !ok {
		return m, nil
	}
	ctrl := m.ctrl
	cmd := m.run(func(ctx context.Context) error {
		_, err := ctrl.ToggleComplete(ctx, t.ID)
		return err
	})
	return m, cmd
}

func (m Model) deleteTask() (tea.Model, tea.Cmd) {
	t, ok := m.focusedTask()
	if !ok {
		return m, nil
	}
	ctrl := m.ctrl
	op := func(ctx context.Context) error {
		return ctrl.DeleteTask(ctx, t.ID)
	}
	if m.confirmDelete {
		return m.ask(fmt.Sprintf("Delete task %q?", truncate(t.Title, 40)), op), nil
	}
	return m, m.run(op)
}

func (m Model) setPriority(k string) (tea.Model, tea.Cmd) {
	t, ok := m.focusedTask()
	if !ok {
		return m, nil
	}
	var p model.Priority
	switch k {
	case "1":
		p = model.PriorityLow
	case "2":
		p = model.PriorityMedium
	default:
		p = model.PriorityHigh
	}
	if t.Priority == p {
		return m, nil
	}
	ctrl := m.ctrl
	cmd := m.run(func(ctx context.Context) error {
		_, err := ctrl.UpdateTask(ctx, t.ID, model.TaskPatch{Priority: &p})
		return err
	})
	return m, cmd
}

// moveTask moves the focused task to the project after its own in the sidebar
func (m Model) moveTask() (tea.Model, tea.Cmd) {
	t, ok := m.focusedTask()
	if !ok {
		return m, nil
	}
	target, ok := nextProject(m.ctrl.Projects(), t.ProjectID)
	if !ok {
		m.setMessage("No other project to move to", kindInfo)
		return m, nil
	}
	ctrl := m.ctrl
	cmd := m.run(func(ctx context.Context) error {
		_, err := ctrl.MoveTask(ctx, t.ID, target.ID)
		return err
	})
	return m, cmd
}

// nextProject returns the project following current, wrapping around. A task
// in an archived project moves to the first active one.
func nextProject(projects []model.Project, current int) (model.Project, bool) {
	if len(projects) == 0 {
		return model.Project{}, false
	}
	next := projects[0]
	for i, p := range projects {
		if p.ID == current {
			next = projects[(i+1)%len(projects)]
			break
		}
	}
	if next.ID == current {
		return model.Project{}, false
	}
	return next, true
}

func (m Model) archiveProject() (tea.Model, tea.Cmd) {
	p, ok := m.selectedProject()
	if !ok {
		m.setMessage("Select a project first", kindInfo)
		return m, nil
	}
	ctrl := m.ctrl
	cmd := m.run(func(ctx context.Context) error {
		_, err := ctrl.ArchiveProject(ctx, p.ID)
		return err
	})
	return m, cmd
}

func (m Model) deleteProject() (tea.Model, tea.Cmd) {
	p, ok := m.selectedProject()
	if !ok {
		m.setMessage("Select a project first", kindInfo)
		return m, nil
	}
	n := len(m.ctrl.TasksForProject(p.ID))
	ctrl := m.ctrl
	prompt := fmt.Sprintf("Delete project %q and its %d tasks?", p.Name, n)
	return m.ask(prompt, func(ctx context.Context) error {
		return ctrl.DeleteProject(ctx, p.ID)
	}), nil
}

// ask switches to confirm mode for op
func (m Model) ask(prompt string, op func(ctx context.Context) error) Model {
	m.confirm = &pendingConfirm{prompt: prompt, run: op}
	m.mode = ModeConfirm
	return m
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		c := m.confirm
		m.confirm = nil
		m.mode = ModeNormal
		if c == nil {
			return m, nil
		}
		return m, m.run(c.run)

	case key.Matches(msg, keys.No):
		m.confirm = nil
		m.mode = ModeNormal
		m.setMessage("Cancelled", kindInfo)
	}
	return m, nil
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	if _, ok := m.selectedProject(); !ok {
		m.setMessage("Select a project to add tasks to", kindInfo)
		return m, nil
	}
	return m.openInput(ModeAddTask, "", "Enter task...")
}

func (m Model) startAddProject() (tea.Model, tea.Cmd) {
	return m.openInput(ModeAddProject, "", "Enter project name...")
}

func (m Model) startEditTask() (tea.Model, tea.Cmd) {
	t, ok := m.focusedTask()
	if !ok {
		return m, nil
	}
	m.editID = t.ID
	return m.openInput(ModeEditTask, t.Title, "Edit task...")
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	return m.openInput(ModeSearch, m.searchQuery, "Search all tasks...")
}

func (m Model) openInput(mode Mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) closeInput() Model {
	m.mode = ModeNormal
	m.input.Blur()
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		return m.closeInput(), nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m = m.closeInput()
		if value == "" {
			return m, nil
		}

		ctrl := m.ctrl
		switch mode {
		case ModeAddTask:
			p, ok := m.selectedProject()
			if !ok {
				return m, nil
			}
			return m, m.run(func(ctx context.Context) error {
				_, err := ctrl.CreateTask(ctx, model.TaskDraft{ProjectID: p.ID, Title: value})
				return err
			})

		case ModeAddProject:
			return m, m.run(func(ctx context.Context) error {
				_, err := ctrl.CreateProject(ctx, value, "")
				return err
			})

		case ModeEditTask:
			t, ok := ctrl.Task(m.editID)
			if !ok || t.Title == value {
				return m, nil
			}
			return m, m.run(func(ctx context.Context) error {
				_, err := ctrl.UpdateTask(ctx, t.ID, model.TaskPatch{Title: &value})
				return err
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		return m.closeInput(), nil

	case key.Matches(msg, keys.Enter):
		q := m.input.Value()
		m = m.closeInput()
		if strings.TrimSpace(q) == "" {
			m.searchQuery = ""
			m.results = nil
			m.taskCursor = 0
			return m, nil
		}
		ctrl, notes := m.ctrl, m.notes
		cmd := m.start(func() tea.Msg {
			var tasks []model.Task
			n, err := notes.capture(func() error {
				var err error
				tasks, err = ctrl.Search(context.Background(), q)
				return err
			})
			return searchDoneMsg{query: strings.TrimSpace(q), tasks: tasks, note: n, err: err}
		})
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) applySearch(msg searchDoneMsg) Model {
	text, kind := msg.note.text, msg.note.kind
	if msg.err != nil {
		// too-short queries arrive with an info message already set
		if text == "" {
			text, kind = msg.err.Error(), kindError
		}
		m.setMessage(text, kind)
		return m
	}

	m.searchQuery = msg.query
	m.results = make([]int, 0, len(msg.tasks))
	for _, t := range msg.tasks {
		m.results = append(m.results, t.ID)
	}
	m.taskCursor = 0
	m.pane = PaneTaskList
	m.setMessage(fmt.Sprintf("%d matches for %q (esc to clear)", len(m.results), msg.query), kindInfo)
	return m
}

// quit saves pending changes before leaving. Operations still running are
// waited for so their changes make it into the final save.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.running > 0 {
		m.quitting = true
		m.setMessage("Finishing pending changes...", kindInfo)
		logger.Info("TUI quit deferred", logger.F("running", m.running))
		return m, nil
	}
	return m.finishQuit()
}

func (m Model) finishQuit() (tea.Model, tea.Cmd) {
	if m.autoSave != nil {
		m.saveErr = m.autoSave.Flush()
		m.autoSave.Stop()
	}
	logger.Info("TUI quitting", logger.F("save_error", m.saveErr))
	return m, tea.Quit
}

func orderLabel(reverse bool) string {
	if reverse {
		return "reversed"
	}
	return "normal"
}
