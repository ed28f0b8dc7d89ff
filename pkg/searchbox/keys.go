package searchbox

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Reset       key.Binding
	ToggleFocus key.Binding
	Remove      key.Binding
	Copy        key.Binding
	Quit        key.Binding
}

var DefaultKeyMap = KeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Reset:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
	ToggleFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "history")),
	Remove:      key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
	Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
	Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k KeyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Reset, k.ToggleFocus, k.Copy, k.Quit}
}

func (k KeyMap) historyHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Remove, k.ToggleFocus, k.Quit}
}
