package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	Enter    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Done     key.Binding
	Delete   key.Binding
	Priority key.Binding
	Move     key.Binding
	Filter   key.Binding
	Sort     key.Binding
	Reverse  key.Binding
	Search   key.Binding
	Project  key.Binding
	Archive  key.Binding
	Remove   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Yes      key.Binding
	No       key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "projects")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "tasks")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/toggle")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "del")),
	Priority: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "priority")),
	Move:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
	Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Reverse:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Project:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
	Archive:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive project")),
	Remove:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete project")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Yes:      key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}

// ShortHelp is shown in the status bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Add, k.Edit, k.Done, k.Delete, k.Filter, k.Sort, k.Help, k.Quit}
}

// FullHelp is shown on the help screen
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Tab, k.Enter},
		{k.Add, k.Edit, k.Done, k.Delete, k.Priority, k.Move},
		{k.Filter, k.Sort, k.Reverse, k.Search, k.Escape},
		{k.Project, k.Archive, k.Remove, k.Help, k.Quit},
	}
}
