package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
)

const (
	landingHint     = "Found playlist! Ready to go"
	notPlaylistHint = "That is a Spotify link, but not to a playlist. Use Share → Copy link to playlist."
)

func (m *Model) renderTabs() string {
	playlist, text := styles.tab, styles.tab
	if m.mode == ModePlaylist {
		playlist = styles.current
	} else {
		text = styles.current
	}
	return playlist.Render("From a playlist") + text.Render("From a description")
}

func (m *Model) renderInput() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("mixtape"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	var helpKeys []key.Binding
	if m.mode == ModePlaylist {
		b.WriteString(m.urlInput.View())
		b.WriteString("\n")
		if line := m.renderValidation(); line != "" {
			b.WriteString(line + "\n")
		}
		if sel := m.selection.Get(); sel.Source == tasks.SourceList {
			b.WriteString(styles.ok.Render("Selected: "+sel.Name) + "\n")
		}
		b.WriteString(m.renderRecent())
		helpKeys = []key.Binding{m.keys.generate, m.keys.tab, m.keys.guide, m.keys.user}
		if len(m.user.Playlists) > 0 {
			helpKeys = append(helpKeys, m.keys.playlists)
		}
	} else {
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
		helpKeys = []key.Binding{m.keys.generate, m.keys.tab}
	}

	if m.genErr != "" {
		b.WriteString("\n" + styles.err.Render(m.genErr) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	helpKeys = append(helpKeys, m.keys.clear, m.keys.quit)
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

// renderValidation shows the landing hint while a parsable link is still being checked.
func (m *Model) renderValidation() string {
	switch m.validation.Type {
	case tasks.ValidationLoading:
		if _, ok := links.PlaylistID(m.urlInput.Value()); ok {
			return styles.ok.Render(landingHint) + " " + styles.help.Render(m.validation.Message)
		}
		return styles.help.Render(m.validation.Message)
	case tasks.ValidationSuccess:
		return styles.ok.Render("✓ " + m.validation.Message)
	case tasks.ValidationError:
		line := styles.err.Render(m.validation.Message)
		if value := m.urlInput.Value(); links.LooksLikeSpotify(value) && !links.LooksLikePlaylist(value) {
			line += "\n" + styles.warn.Render(notPlaylistHint)
		}
		return line
	default:
		return ""
	}
}

func (m *Model) renderRecent() string {
	items, current := m.recent, m.recentIdx
	if items == nil {
		if m.history == nil || m.history.Playlists == nil {
			return ""
		}
		items, current = m.history.Playlists.Items(), -1
	}
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n" + styles.help.Render("Recent") + " " + m.help.ShortHelpView([]key.Binding{m.keys.recent}) + "\n")
	for i, item := range items {
		name := item.Name
		if name == "" {
			name = item.URL
		}
		if i == current {
			b.WriteString(styles.current.Render("› "+name) + "\n")
			continue
		}
		b.WriteString(styles.help.Render("  • "+name) + "\n")
	}
	return b.String()
}

func (m *Model) renderUser() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Load a profile"))
	b.WriteString("\n")
	b.WriteString(m.userInput.View())
	b.WriteString("\n")

	switch {
	case m.user.Loading:
		b.WriteString(m.spinner.View() + " Loading profile...\n")
	case m.user.Error != "":
		b.WriteString(styles.err.Render(m.user.Error) + "\n")
	case m.user.Profile != nil:
		b.WriteString(styles.ok.Render(fmt.Sprintf("%s • %s",
			profileTitle(m.user), shared.Pluralize(len(m.user.Playlists), "playlist"))) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.guide, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.back, m.keys.quit}
	status := ""
	if m.user.Loading {
		status = m.spinner.View() + " Refreshing...\n"
	} else if m.user.Error != "" {
		status = styles.err.Render(m.user.Error) + "\n"
	}
	return fmt.Sprintf("%s\n%s\n%s", m.playlistList.View(), status, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderGuide() string {
	t := m.guideTarget
	var b strings.Builder
	b.WriteString(styles.title.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(t.Subtitle + "\n\n")
	for i, step := range t.Steps {
		b.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, step.Title, styles.help.Render(step.Description)))
	}
	if t.Tip != "" {
		b.WriteString("\n" + styles.warn.Render("Tip: "+t.Tip) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	check := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "check clipboard"))
	reopen := key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "reopen Spotify"))
	helpKeys := []key.Binding{check, reopen, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderGenerating() string {
	title := styles.title.Render("Generating Playlist")
	source := m.selection.Get().Name
	if m.mode == ModeText {
		source = m.generator.Description()
	}
	return fmt.Sprintf("%s\n\n%s Generating playlist from %q...\n", title, m.spinner.View(), source)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render("✓ " + m.result.Title))
	b.WriteString("\n")
	if m.result.Description != "" {
		b.WriteString(m.result.Description + "\n")
	}
	b.WriteString(styles.help.Render(m.result.PlaylistURL) + "\n\n")
	b.WriteString(m.trackList.View())

	if len(m.result.NotFound) > 0 {
		b.WriteString("\n" + styles.warn.Render(fmt.Sprintf("Not found on Spotify (%d):", len(m.result.NotFound))))
		for _, song := range m.result.NotFound {
			b.WriteString("\n  • " + song)
		}
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	helpKeys := []key.Binding{m.keys.open, m.keys.export, m.keys.restart, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}
