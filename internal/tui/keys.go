package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Quit     key.Binding
	Help     key.Binding
	Filter   key.Binding
	Sort     key.Binding
	Select   key.Binding
	Prep     key.Binding
	Export   key.Binding
	Charts   key.Binding
	Notes    key.Binding
	Theme    key.Binding
	Palette  key.Binding
	SetOpen  key.Binding
	SetNAF   key.Binding
	SetNA    key.Binding
	SetNotRv key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select control"),
		),
		Prep: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "create prep list"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		Charts: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "dashboard"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notes"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Palette: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "commands"),
		),
		SetOpen: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "mark open"),
		),
		SetNAF: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "mark not a finding"),
		),
		SetNA: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "mark not applicable"),
		),
		SetNotRv: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "mark not reviewed"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Filter, k.Enter, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.Filter, k.Sort, k.Select, k.Prep},
		{k.Export, k.Charts, k.Notes, k.Theme},
		{k.SetOpen, k.SetNAF, k.SetNA, k.SetNotRv},
	}
}
