package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Switch    key.Binding
	Power     key.Binding
	Dimmer    key.Binding
	Brighter  key.Binding
	Preset    key.Binding
	Color     key.Binding
	Effect    key.Binding
	NoEffect  key.Binding
	Activate  key.Binding
	Select    key.Binding
	PlayPause key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "lights/scenes"),
		),
		Power: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "power"),
		),
		Dimmer: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/h", "dimmer"),
		),
		Brighter: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→/l", "brighter"),
		),
		Preset: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "preset"),
		),
		Color: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "next colour"),
		),
		Effect: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "colour loop"),
		),
		NoEffect: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "no effect"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play/apply"),
		),
		Select: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "select"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Power, k.Dimmer, k.Brighter, k.Activate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch},
		{k.Power, k.Dimmer, k.Brighter, k.Preset, k.Color, k.Effect, k.NoEffect},
		{k.Activate, k.Select, k.PlayPause},
		{k.Refresh, k.Help, k.Quit},
	}
}
