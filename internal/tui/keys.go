package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start key.Binding
	Stop  key.Binding
	Clear key.Binding
	Quit  key.Binding
	Help  key.Binding

	// quality screen
	Left  key.Binding
	Right key.Binding
	Rate  key.Binding
	Skip  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stop")),
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "worse")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "better")),
		Rate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/0-5", "rate")),
		Skip:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "skip")),
	}
}

// trackerKeys and qualityKeys adapt keyMap to help.KeyMap per screen.
type trackerKeys struct{ keyMap }

func (k trackerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Clear, k.Help, k.Quit}
}

func (k trackerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Clear},
		{k.Help, k.Quit},
	}
}

type qualityKeys struct{ keyMap }

func (k qualityKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Rate, k.Skip, k.Quit}
}

func (k qualityKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Left, k.Right, k.Rate}, {k.Skip, k.Quit}}
}
