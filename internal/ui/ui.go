package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/guide"
	"github.com/desertthunder/mixtape/internal/history"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	UserView
	PlaylistListView
	GuideView
	GeneratingView
	ResultView
)

// Mode is the generation source picked on the input view.
type Mode int

const (
	ModePlaylist Mode = iota
	ModeText
)

const progressBuffer = 64

// Options carries the dependencies and start-up parameters of a [Model].
type Options struct {
	API             services.Recommender
	History         *history.Set
	Debounce        time.Duration
	Screen          guide.Screen
	Opener          guide.Opener
	Clipboard       guide.Clipboard
	PollInterval    time.Duration
	AutoSubmitDelay time.Duration
	Username        string // profile to load on start
	PlaylistID      string // playlist to select on start
	Logger          *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	mode   Mode
	logger *log.Logger

	history   *history.Set
	selection *tasks.Selection
	validator *tasks.Validator
	generator *tasks.Generator
	loader    *tasks.UserLoader

	screen          guide.Screen
	opener          guide.Opener
	clipboard       guide.Clipboard
	pollInterval    time.Duration
	autoSubmitDelay time.Duration
	flow            *guide.Flow
	guideTarget     guide.Target
	guideFrom       ViewState
	guideSeq        int

	width        int
	height       int
	urlInput     textinput.Model
	textInput    textinput.Model
	userInput    textinput.Model
	playlistList list.Model
	trackList    list.Model
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate

	validation      tasks.ValidationStatus
	recent          []models.PlaylistHistoryItem // snapshot while browsing history, nil otherwise
	recentIdx       int
	user            tasks.UserState
	result          *models.GeneratedPlaylist
	genErr          string
	pendingPlaylist string
	notice          string
	help            help.Model
	keys            keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	delay := opts.AutoSubmitDelay
	if delay <= 0 {
		delay = guide.DefaultAutoSubmitDelay
	}

	progress := make(chan tasks.ProgressUpdate, progressBuffer)
	taskOpts := []tasks.Option{tasks.WithProgress(progress), tasks.WithLogger(logger)}
	if opts.Debounce > 0 {
		taskOpts = append(taskOpts, tasks.WithDebounce(opts.Debounce))
	}
	if opts.History != nil {
		taskOpts = append(taskOpts,
			tasks.WithPlaylistHistory(opts.History.Playlists),
			tasks.WithUserHistory(opts.History.Users),
		)
	}

	selection := tasks.NewSelection()
	m := &Model{
		ctx:             ctx,
		view:            InputView,
		mode:            ModePlaylist,
		logger:          logger,
		history:         opts.History,
		selection:       selection,
		validator:       tasks.NewValidator(opts.API, selection, taskOpts...),
		generator:       tasks.NewGenerator(opts.API, selection, taskOpts...),
		loader:          tasks.NewUserLoader(opts.API, taskOpts...),
		screen:          opts.Screen,
		opener:          opts.Opener,
		clipboard:       opts.Clipboard,
		pollInterval:    opts.PollInterval,
		autoSubmitDelay: delay,
		urlInput:        newInput("https://open.spotify.com/playlist/..."),
		textInput:       newInput("rainy sunday morning jazz"),
		userInput:       newInput("spotify username or profile link"),
		playlistList:    newList("Playlists"),
		trackList:       newList("Tracks"),
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		progressChan:    progress,
		validation:      tasks.ValidationStatus{Type: tasks.ValidationIdle},
		pendingPlaylist: opts.PlaylistID,
		help:            help.New(),
		keys:            newKeyMap(),
	}
	m.urlInput.Focus()
	m.userInput.SetValue(opts.Username)
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 60
	return ti
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return l
}

// Init starts draining task progress and applies the start-up user and playlist.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForProgress()}

	switch {
	case m.userInput.Value() != "":
		m.view = UserView
		cmds = append(cmds, m.loadUser(m.userInput.Value()), m.spinner.Tick)
	case m.pendingPlaylist != "":
		url := links.PlaylistURL(m.pendingPlaylist)
		m.pendingPlaylist = ""
		m.urlInput.SetValue(url)
		m.validation = m.validator.Submit(m.ctx, url)
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-12)
		m.help.Width = msg.Width
		return m, nil

	case tea.FocusMsg:
		if m.view == GuideView && m.flow != nil {
			if text, ok := m.flow.VisibilityChanged(true); ok {
				return m, m.detected(text)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case UserView:
			return m.handleUserKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case GuideView:
			return m.handleGuideKeys(msg)
		case GeneratingView:
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateInputs(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.applyProgress(msg.data.(tasks.ProgressUpdate))
		return m, m.waitForProgress()

	case MsgGenerationDone:
		done := msg.data.(generationDone)
		if errors.Is(done.err, shared.ErrGenerationInFlight) {
			return m, nil
		}
		return m.generationFinished(done.state)

	case MsgUserLoaded:
		loaded := msg.data.(userLoaded)
		m.user = loaded.state
		if loaded.err != nil {
			if m.view == PlaylistListView {
				m.view = UserView
			}
			return m, nil
		}
		m.playlistList.Title = profileTitle(loaded.state)
		cmd := m.playlistList.SetItems(playlistItems(loaded.state.Playlists))
		// a generation or guide owns the screen until it finishes
		if m.view == GeneratingView || m.view == GuideView {
			return m, cmd
		}
		if m.selectPending() {
			return m, cmd
		}
		m.view = PlaylistListView
		return m, cmd

	case MsgGuideDetected:
		found := msg.data.(guideDetected)
		if !m.guideActive(found.seq) {
			return m, nil
		}
		return m, m.detected(found.text)

	case MsgGuidePoll:
		if !m.guideActive(msg.data.(int)) {
			return m, nil
		}
		return m, m.pollClipboard()

	case MsgAutoSubmit:
		return m.autoSubmit(msg.data.(string))

	case MsgExported:
		res := msg.data.(exported)
		if res.err != nil {
			m.notice = styles.err.Render("Export failed: " + res.err.Error())
		} else {
			m.notice = styles.ok.Render("Saved " + strings.Join(res.files, ", "))
		}
		return m, nil

	case MsgOpened:
		if err, _ := msg.data.(error); err != nil {
			m.notice = styles.err.Render("Could not open browser: " + err.Error())
		}
		return m, nil
	}
	return m, nil
}

// applyProgress folds a task snapshot into the view state.
func (m *Model) applyProgress(update tasks.ProgressUpdate) {
	switch data := update.Data.(type) {
	case tasks.ValidationStatus:
		if data.Token == m.validator.Token() {
			m.validation = data
		}
	case tasks.UserState:
		m.user = data
	case tasks.GenerationState:
		if data.Status == tasks.StatusError {
			m.genErr = data.Error
		}
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "tab":
		return m, m.switchMode()
	case msg.String() == "enter" || msg.String() == "ctrl+g":
		return m.generate()
	case msg.String() == "ctrl+x":
		m.clearInput()
		return m, nil
	case msg.String() == "ctrl+u":
		m.view = UserView
		m.urlInput.Blur()
		return m, m.userInput.Focus()
	case msg.String() == "ctrl+l":
		if len(m.user.Playlists) > 0 {
			m.view = PlaylistListView
		}
		return m, nil
	case msg.String() == "ctrl+o" && m.mode == ModePlaylist:
		return m, m.startGuide(guide.PlaylistTarget(m.user.Username))
	case (msg.String() == "up" || msg.String() == "down") && m.mode == ModePlaylist:
		step := 1
		if msg.String() == "up" {
			step = -1
		}
		if m.browseRecent(step) {
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.mode == ModeText {
		m.textInput, cmd = m.textInput.Update(msg)
		m.generator.SetDescription(m.textInput.Value())
		return m, cmd
	}

	before := m.urlInput.Value()
	m.urlInput, cmd = m.urlInput.Update(msg)
	if value := m.urlInput.Value(); value != before {
		m.recent = nil
		m.genErr = ""
		m.validation = m.validator.Submit(m.ctx, value)
	}
	return m, cmd
}

func (m *Model) handleUserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = InputView
		m.userInput.Blur()
		return m, m.focusMode()
	case "enter":
		if m.user.Loading {
			return m, nil
		}
		return m, tea.Batch(m.loadUser(m.userInput.Value()), m.spinner.Tick)
	case "ctrl+o":
		return m, m.startGuide(guide.ProfileTarget())
	case "ctrl+l":
		if len(m.user.Playlists) > 0 {
			m.view = PlaylistListView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.userInput, cmd = m.userInput.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.view = InputView
		return m, m.focusMode()
	case "ctrl+r":
		return m, tea.Batch(m.refreshUser(), m.spinner.Tick)
	case "ctrl+u":
		m.view = UserView
		return m, m.userInput.Focus()
	case "enter":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selectPlaylist(item.playlist)
			return m, m.focusMode()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleGuideKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeGuide()
		m.view = m.guideFrom
		return m, m.focusMode()
	case "ctrl+o":
		if err := m.flow.Open(); err != nil {
			m.notice = styles.err.Render(err.Error())
		}
		return m, nil
	case "enter":
		if text, ok := m.flow.CheckClipboard(); ok {
			return m, m.detected(text)
		}
		m.notice = styles.warn.Render("Nothing usable on the clipboard yet")
		return m, nil
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.view = InputView
		return m, m.focusMode()
	case "r":
		m.reset()
		return m, m.focusMode()
	case "o":
		return m, m.openResult()
	case "e":
		return m, m.exportResult()
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		if m.mode == ModeText {
			m.textInput, cmd = m.textInput.Update(msg)
		} else {
			m.urlInput, cmd = m.urlInput.Update(msg)
		}
	case UserView:
		m.userInput, cmd = m.userInput.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ResultView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchMode() tea.Cmd {
	if m.mode == ModePlaylist {
		m.mode = ModeText
	} else {
		m.mode = ModePlaylist
	}
	m.genErr = ""
	return m.focusMode()
}

func (m *Model) focusMode() tea.Cmd {
	m.userInput.Blur()
	if m.mode == ModeText {
		m.urlInput.Blur()
		return m.textInput.Focus()
	}
	m.textInput.Blur()
	return m.urlInput.Focus()
}

func (m *Model) clearInput() {
	m.genErr = ""
	if m.mode == ModeText {
		m.textInput.Reset()
		m.generator.SetDescription("")
		return
	}
	m.urlInput.Reset()
	m.recent = nil
	m.validator.Clear()
	m.validation = m.validator.Status()
}

// browseRecent steps through the recent playlists, filling and validating the link input.
// Browsing starts only from an empty input and works on a snapshot, so entries that move to
// the front after validating do not reorder the walk.
func (m *Model) browseRecent(step int) bool {
	if m.recent == nil {
		if m.urlInput.Value() != "" || m.history == nil || m.history.Playlists == nil {
			return false
		}
		items := m.history.Playlists.Items()
		if len(items) == 0 {
			return false
		}
		m.recent = items
		m.recentIdx = -1
	}

	n := len(m.recent)
	switch {
	case m.recentIdx < 0 && step > 0:
		m.recentIdx = 0
	case m.recentIdx < 0:
		m.recentIdx = n - 1
	default:
		m.recentIdx = (m.recentIdx + step + n) % n
	}

	item := m.recent[m.recentIdx]
	m.urlInput.SetValue(item.URL)
	m.urlInput.CursorEnd()
	m.genErr = ""
	m.validation = m.validator.Submit(m.ctx, item.URL)
	return true
}

// generate starts a generation for the current mode. Guard failures are shown in place
// without leaving the input view.
func (m *Model) generate() (tea.Model, tea.Cmd) {
	m.genErr = ""
	ready := !m.selection.Get().Empty()
	if m.mode == ModeText {
		m.generator.SetDescription(m.textInput.Value())
		ready = strings.TrimSpace(m.textInput.Value()) != ""
	}

	mode := m.mode
	if !ready {
		state, _ := m.run(mode)
		m.genErr = state.Error
		return m, nil
	}

	m.view = GeneratingView
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		state, err := m.run(mode)
		return generationDoneMsg(state, err)
	})
}

func (m *Model) run(mode Mode) (tasks.GenerationState, error) {
	if mode == ModeText {
		return m.generator.GenerateFromText(m.ctx)
	}
	return m.generator.GenerateFromPlaylist(m.ctx)
}

func (m *Model) generationFinished(state tasks.GenerationState) (tea.Model, tea.Cmd) {
	if m.view != GeneratingView {
		return m, nil
	}

	switch state.Status {
	case tasks.StatusSuccess:
		m.result = state.Result
		m.trackList.Title = state.Result.Title
		cmd := m.trackList.SetItems(trackItems(state.Result.Tracks))
		m.notice = ""
		m.view = ResultView
		return m, cmd
	case tasks.StatusError:
		m.genErr = state.Error
	}
	m.view = InputView
	return m, m.focusMode()
}

func (m *Model) reset() {
	m.generator.Reset()
	m.validator.Clear()
	m.validation = m.validator.Status()
	m.urlInput.Reset()
	m.textInput.Reset()
	m.recent = nil
	m.result = nil
	m.genErr = ""
	m.notice = ""
	m.trackList.SetItems(nil)
	m.view = InputView
}

func (m *Model) selectPlaylist(pl models.Playlist) {
	m.validator.Clear()
	m.validation = m.validator.Status()
	m.urlInput.Reset()
	m.recent = nil
	m.selection.Set(tasks.SelectedPlaylist{
		ID:       pl.ID,
		Name:     pl.Name,
		URL:      links.PlaylistURL(pl.ID),
		ImageURL: models.FirstImageURL(pl.Images),
		Source:   tasks.SourceList,
	})
	m.mode = ModePlaylist
	m.genErr = ""
	m.view = InputView
}

// selectPending selects the start-up playlist once the profile's playlists are known.
func (m *Model) selectPending() bool {
	if m.pendingPlaylist == "" {
		return false
	}
	id := m.pendingPlaylist
	m.pendingPlaylist = ""
	for _, pl := range m.user.Playlists {
		if pl.ID == id {
			m.selectPlaylist(pl)
			return true
		}
	}

	url := links.PlaylistURL(id)
	m.urlInput.SetValue(url)
	m.validation = m.validator.Submit(m.ctx, url)
	m.view = InputView
	return true
}

// busy reports whether something is animating the spinner.
func (m *Model) busy() bool {
	return m.view == GeneratingView || m.user.Loading
}

func (m *Model) loadUser(input string) tea.Cmd {
	m.user.Loading = true
	return func() tea.Msg {
		state, err := m.loader.Load(m.ctx, input)
		return userLoadedMsg(state, err)
	}
}

func (m *Model) refreshUser() tea.Cmd {
	m.user.Loading = true
	return func() tea.Msg {
		state, err := m.loader.Refresh(m.ctx)
		return userLoadedMsg(state, err)
	}
}

func (m *Model) openResult() tea.Cmd {
	if m.result == nil {
		return nil
	}
	url := m.result.PlaylistURL
	return func() tea.Msg {
		return openedMsg(shared.OpenBrowser(url))
	}
}

func (m *Model) exportResult() tea.Cmd {
	if m.result == nil {
		return nil
	}
	export := formatter.FromGenerated(m.result)
	return func() tea.Msg {
		files, err := formatter.Write(export, formatter.FormatJSON, "")
		return exportedMsg(files, err)
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case UserView:
		return m.renderUser()
	case PlaylistListView:
		return m.renderPlaylistList()
	case GuideView:
		return m.renderGuide()
	case GeneratingView:
		return m.renderGenerating()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func profileTitle(state tasks.UserState) string {
	name := state.Username
	if state.Profile != nil && state.Profile.DisplayName != "" {
		name = state.Profile.DisplayName
	}
	return name + "'s playlists"
}
