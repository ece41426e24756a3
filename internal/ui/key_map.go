package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	recent    key.Binding
	enter     key.Binding
	back      key.Binding
	tab       key.Binding
	generate  key.Binding
	guide     key.Binding
	user      key.Binding
	playlists key.Binding
	clear     key.Binding
	open      key.Binding
	export    key.Binding
	refresh   key.Binding
	restart   key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		recent:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "recent")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch mode")),
		generate:  key.NewBinding(key.WithKeys("enter", "ctrl+g"), key.WithHelp("enter", "generate")),
		guide:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "find in Spotify")),
		user:      key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "load profile")),
		playlists: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "my playlists")),
		clear:     key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear")),
		open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in Spotify")),
		export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.tab, k.generate, k.guide, k.user, k.playlists},
		{k.open, k.export, k.restart, k.quit},
	}
}
