package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deepfront/internal/demo"
)

// WatchKeyMap defines the key bindings of the match viewer.
type WatchKeyMap struct {
	AimLeft    key.Binding
	AimRight   key.Binding
	Launch     key.Binding
	Explode    key.Binding
	CycleHouse key.Binding
	Pause      key.Binding
	Fog        key.Binding
	Copy       key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launch, k.AimLeft, k.AimRight, k.Explode, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AimLeft, k.AimRight, k.CycleHouse},
		{k.Launch, k.Explode, k.Pause},
		{k.Fog, k.Copy, k.Screenshot},
		{k.Help, k.Quit},
	}
}

// DefaultWatchKeyMap returns default key bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		AimLeft: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("left/a", "aim left"),
		),
		AimRight: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("right/d", "aim right"),
		),
		Launch: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "launch drill"),
		),
		Explode: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "explode"),
		),
		CycleHouse: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next house"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Fog: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle fog"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy frame"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a match action.
// Returns ActionNone for keys the match does not consume.
func (k WatchKeyMap) MapKey(msg tea.KeyMsg) demo.Action {
	switch {
	case key.Matches(msg, k.AimLeft):
		return demo.ActionAimLeft
	case key.Matches(msg, k.AimRight):
		return demo.ActionAimRight
	case key.Matches(msg, k.Launch):
		return demo.ActionLaunch
	case key.Matches(msg, k.Explode):
		return demo.ActionExplode
	case key.Matches(msg, k.CycleHouse):
		return demo.ActionCycleHouse
	case key.Matches(msg, k.Pause):
		return demo.ActionPause
	}
	return demo.ActionNone
}
