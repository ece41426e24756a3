package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/guide"
)

// startGuide opens a side-by-side Spotify window for target and waits for a copied link.
func (m *Model) startGuide(target guide.Target) tea.Cmd {
	if m.flow != nil {
		m.closeGuide()
	}

	cfg := target.Config(m.screen, m.opener, m.clipboard, nil)
	cfg.Logger = m.logger
	flow := guide.New(cfg)
	if err := flow.Open(); err != nil {
		m.logger.Warn("failed to open guide", "error", err)
		m.notice = styles.err.Render("Could not open Spotify: " + err.Error())
		return nil
	}

	m.flow = flow
	m.guideTarget = target
	m.guideFrom = m.view
	m.guideSeq++
	m.notice = ""
	m.view = GuideView
	return m.pollClipboard()
}

func (m *Model) closeGuide() {
	if m.flow == nil {
		return
	}
	if err := m.flow.Close(); err != nil {
		m.logger.Debug("failed to close guide window", "error", err)
	}
	m.flow = nil
	m.guideSeq++
}

func (m *Model) guideActive(seq int) bool {
	return seq == m.guideSeq && m.view == GuideView && m.flow != nil
}

// pollClipboard checks the clipboard once after the poll interval, off the update loop.
// Focus events cover the common case, so a zero interval disables polling.
func (m *Model) pollClipboard() tea.Cmd {
	if m.pollInterval <= 0 || m.flow == nil {
		return nil
	}
	flow, seq := m.flow, m.guideSeq
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		if text, ok := flow.CheckClipboard(); ok {
			return guideDetectedMsg(seq, text)
		}
		return guidePollMsg(seq)
	})
}

// detected fills the guide's input with text and schedules it for submission.
func (m *Model) detected(text string) tea.Cmd {
	from := m.guideFrom
	m.closeGuide()
	m.view = from

	var focus tea.Cmd
	if from == UserView {
		m.userInput.SetValue(text)
		focus = m.userInput.Focus()
		m.notice = styles.ok.Render("Profile link detected!")
	} else {
		m.mode = ModePlaylist
		m.urlInput.SetValue(text)
		focus = m.focusMode()
		m.notice = styles.ok.Render("Playlist link detected!")
	}

	return tea.Batch(focus, tea.Tick(m.autoSubmitDelay, func(time.Time) tea.Msg {
		return autoSubmitMsg(text)
	}))
}

// autoSubmit submits a detected link unless the user has edited the input since.
func (m *Model) autoSubmit(text string) (tea.Model, tea.Cmd) {
	switch m.view {
	case UserView:
		if m.userInput.Value() != text || m.user.Loading {
			return m, nil
		}
		m.notice = ""
		return m, tea.Batch(m.loadUser(text), m.spinner.Tick)
	case InputView:
		if m.mode != ModePlaylist || m.urlInput.Value() != text {
			return m, nil
		}
		m.notice = ""
		m.genErr = ""
		m.validation = m.validator.Submit(m.ctx, text)
	}
	return m, nil
}
