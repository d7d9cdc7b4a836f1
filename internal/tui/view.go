package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/projecttasks/internal/query"
)

const sidebarWidth = 26

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sidebar := m.renderSidebar()
	taskList := m.renderTaskList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, taskList)

	switch m.mode {
	case ModeAddTask, ModeAddProject, ModeEditTask:
		mainContent = m.place(m.renderModal())
	case ModeHelp:
		mainContent = m.place(m.renderHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) place(s string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		s,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderSidebar() string {
	var s strings.Builder

	now := time.Now().Format("15:04:05")
	s.WriteString(TitleStyle.Render("ptask") + "\n")
	s.WriteString(HelpStyle.Render(now) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n\n")

	sum := m.ctrl.Summary()
	s.WriteString(m.sidebarItem(0, " ", "All Tasks", sum.Active, sum.Total) + "\n")

	counts := m.ctrl.TaskCounts()
	for i, p := range m.ctrl.Projects() {
		c := counts[p.ID]
		s.WriteString(m.sidebarItem(i+1, projectDot(p.Color), p.Name, c.Active, c.Total) + "\n")
	}

	s.WriteString("\n" + lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n")
	s.WriteString(HelpStyle.Render("p new  A archive  D delete"))

	return SidebarStyle.Width(sidebarWidth).Height(max(m.height-2, 0)).Render(s.String())
}

func (m Model) sidebarItem(i int, dot, name string, active, total int) string {
	cursor := "  "
	style := ProjectItemStyle
	if i == m.projCursor {
		cursor = "❯ "
		if m.pane == PaneSidebar {
			style = ProjectItemSelectedStyle
		}
	}
	return cursor + dot + style.Render(fmt.Sprintf("%-12s %d/%d", truncate(name, 12), active, total))
}

func (m Model) renderTaskList() string {
	width := max(m.width-sidebarWidth-2, 20)
	var s strings.Builder

	tasks := m.visibleTasks()
	title := "All Tasks"
	switch {
	case m.searching():
		title = fmt.Sprintf("Search: %q", m.searchQuery)
	default:
		if p, ok := m.selectedProject(); ok {
			title = p.Name
		}
	}

	sum := query.Summarize(tasks)
	s.WriteString(TitleStyle.Render(fmt.Sprintf("%s (%d active)", title, sum.Active)) + "\n")
	if !m.searching() {
		s.WriteString(HelpStyle.Render(m.viewLabel()) + "\n")
	}
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width-4, 1))) + "\n\n")

	if len(tasks) == 0 {
		switch {
		case m.searching():
			s.WriteString(HelpStyle.Render("  No tasks match your search."))
		case m.view.Filter != query.FilterAll:
			s.WriteString(HelpStyle.Render("  No tasks match your filter."))
		default:
			s.WriteString(HelpStyle.Render("  No tasks. Press 'a' to add one."))
		}
	}

	_, inProject := m.selectedProject()
	showProject := m.searching() || !inProject
	titleWidth := max(width-30, 10)
	now := time.Now()

	for i, t := range tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.taskCursor && m.pane == PaneTaskList {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		icon := "[ ]"
		if t.IsCompleted {
			icon = "[x]"
			style = TaskDoneStyle
		}

		line := style.Render(cursor+icon) +
			style.Render(fmt.Sprintf(" %-*s ", titleWidth, truncate(t.Title, titleWidth))) +
			FormatPriority(t.Priority)

		if due := formatDue(t, now); due != "" {
			if t.IsOverdue(now) {
				due = OverdueStyle.Render(due)
			} else {
				due = HelpStyle.Render(due)
			}
			line += "  " + due
		}
		if showProject {
			if p, ok := m.ctrl.Project(t.ProjectID); ok {
				line += "  " + projectDot(p.Color) + HelpStyle.Render(" "+p.Name)
			}
		}
		s.WriteString(line + "\n")
	}

	return TaskListStyle.Width(width).Height(max(m.height-2, 0)).Render(s.String())
}

func (m Model) viewLabel() string {
	arrow := "↑"
	if m.view.Reverse {
		arrow = "↓"
	}
	return fmt.Sprintf("Filter: %s  Sort: %s %s", m.view.Filter.Label(), m.view.Sort.Label(), arrow)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.mode == ModeSearch:
		left = "/" + m.input.View()
	case m.mode == ModeConfirm && m.confirm != nil:
		left = ErrorStyle.Render(m.confirm.prompt) + " (y/n)"
	case m.message != "":
		switch m.msgKind {
		case kindSuccess:
			left = SuccessStyle.Render(m.message)
		case kindError:
			left = ErrorStyle.Render(m.message)
		default:
			left = m.message
		}
	default:
		left = m.help.ShortHelpView(keys.ShortHelp())
	}

	var right string
	if m.running > 0 {
		right = m.spinner.View() + " "
	}
	if m.autoSave != nil {
		if m.autoSave.IsPending() {
			right += "Saving..."
		} else if m.autoSave.LastError() != nil {
			right += ErrorStyle.Render("Save failed!")
		}
	}

	if right != "" {
		gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if gap > 0 {
			left += strings.Repeat(" ", gap) + right
		} else {
			left += " " + right
		}
	}

	return StatusBarStyle.Width(m.width).Render(left)
}

func (m Model) renderModal() string {
	title := "Add Task"
	switch m.mode {
	case ModeAddProject:
		title = "New Project"
	case ModeEditTask:
		title = "Edit Task"
	case ModeAddTask:
		if p, ok := m.selectedProject(); ok {
			title = fmt.Sprintf("Add Task to: %s", p.Name)
		}
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	content := TitleStyle.Render("Keyboard Shortcuts") + "\n\n"
	content += h.View(keys) + "\n\n"
	content += HelpStyle.Render("Press any key to close")
	return ModalStyle.Render(content)
}
