package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Skip         key.Binding
	Reset        key.Binding
	MoreMinutes  key.Binding
	LessMinutes  key.Binding
	MoreProblems key.Binding
	LessProblems key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "start/pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "completed"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		MoreMinutes: key.NewBinding(
			key.WithKeys("+", "=", "up"),
			key.WithHelp("+", "minutes +1"),
		),
		LessMinutes: key.NewBinding(
			key.WithKeys("-", "down"),
			key.WithHelp("-", "minutes -1"),
		),
		MoreProblems: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "problems +1"),
		),
		LessProblems: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "problems -1"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.Skip, keys.Reset, keys.Help, keys.Quit}
}

func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Toggle, keys.Skip, keys.Reset},
		{keys.MoreMinutes, keys.LessMinutes, keys.MoreProblems, keys.LessProblems},
		{keys.Help, keys.Quit},
	}
}
