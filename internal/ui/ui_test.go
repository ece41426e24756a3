package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/guide"
	"github.com/desertthunder/mixtape/internal/history"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/tasks"
	tu "github.com/desertthunder/mixtape/internal/testing"
)

const playlistLink = "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc"

type fakeWindow struct{ closed bool }

func (w *fakeWindow) Closed() bool { return w.closed }
func (w *fakeWindow) Focus() error { return nil }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

type fakeOpener struct {
	urls []string
	err  error
}

func (o *fakeOpener) Open(url, name string, g guide.Geometry) (guide.Window, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.urls = append(o.urls, url)
	return &fakeWindow{}, nil
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *fakeClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *fakeClipboard) set(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func newTestModel(t *testing.T, api *tu.MockRecommender, opts Options) *Model {
	t.Helper()
	opts.API = api
	if opts.Debounce == 0 {
		opts.Debounce = 10 * time.Millisecond
	}
	return NewModel(context.Background(), opts)
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and any batched commands, returning every message produced.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findMsg(msgs []tea.Msg, kind MsgKind) (Msg, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(Msg); ok && m.kind == kind {
			return m, true
		}
	}
	return Msg{}, false
}

// drain applies every queued task update to m.
func drain(m *Model) {
	for {
		select {
		case update := <-m.progressChan:
			m.Update(progressUpdateMsg(update))
		default:
			return
		}
	}
}

func waitForValidation(t *testing.T, m *Model) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.validator.Wait(ctx); err != nil {
		t.Fatalf("validation did not finish: %v", err)
	}
	drain(m)
}

func samplePlaylists() []models.Playlist {
	return []models.Playlist{
		{ID: "p1", Name: "Focus", TracksTotal: 12},
		{ID: "p2", Name: "Gym", TracksTotal: 30, Images: []models.Image{{URL: "https://i.scdn.co/gym.jpg"}}},
	}
}

func loadedState() tasks.UserState {
	return tasks.UserState{
		Username:  "alice",
		Profile:   &models.Profile{ID: "alice", DisplayName: "Alice"},
		Playlists: samplePlaylists(),
	}
}

func TestModel(t *testing.T) {
	t.Run("Starts On Playlist Input", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		if m.view != InputView || m.mode != ModePlaylist {
			t.Errorf("expected playlist input view, got view=%d mode=%d", m.view, m.mode)
		}
		if !strings.Contains(m.View(), "From a playlist") {
			t.Errorf("expected tabs in view, got %q", m.View())
		}
	})

	t.Run("Tab Switches Mode", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(keyMsg(tea.KeyTab))
		if m.mode != ModeText || !m.textInput.Focused() || m.urlInput.Focused() {
			t.Errorf("expected focused description input")
		}
		m.Update(keyMsg(tea.KeyTab))
		if m.mode != ModePlaylist || !m.urlInput.Focused() {
			t.Errorf("expected focused url input")
		}
	})

	t.Run("Typing A Link Validates It", func(t *testing.T) {
		api := &tu.MockRecommender{Info: &models.PlaylistInfo{PlaylistID: "37i9dQZF1DXcBWIGoYBM5M", PlaylistName: "Chill", TracksTotal: 50}}
		m := newTestModel(t, api, Options{})

		m.Update(typed(playlistLink))
		if m.validation.Type != tasks.ValidationLoading {
			t.Fatalf("expected loading, got %+v", m.validation)
		}
		if !strings.Contains(m.View(), landingHint) {
			t.Errorf("expected landing hint while checking")
		}

		waitForValidation(t, m)
		if m.validation.Type != tasks.ValidationSuccess || m.validation.Message != "Found: Chill (50 tracks)" {
			t.Errorf("unexpected status %+v", m.validation)
		}
		if got := m.selection.Get(); got.ID != "37i9dQZF1DXcBWIGoYBM5M" || got.Source != tasks.SourceURL {
			t.Errorf("unexpected selection %+v", got)
		}
	})

	t.Run("Non Playlist Text Is Rejected Locally", func(t *testing.T) {
		api := &tu.MockRecommender{}
		m := newTestModel(t, api, Options{})
		m.Update(typed("hello"))
		if m.validation.Type != tasks.ValidationError {
			t.Errorf("expected error, got %+v", m.validation)
		}
		if strings.Contains(m.View(), landingHint) {
			t.Errorf("did not expect landing hint")
		}
		if api.Calls("ValidatePlaylist") != 0 {
			t.Errorf("expected no request")
		}
	})

	t.Run("Successful Validation Is Recorded In History", func(t *testing.T) {
		set := history.NewSet(history.NewMemoryStorage())
		api := &tu.MockRecommender{Info: &models.PlaylistInfo{PlaylistID: "37i9dQZF1DXcBWIGoYBM5M", PlaylistName: "Chill"}}
		m := newTestModel(t, api, Options{History: set})

		m.Update(typed(playlistLink))
		waitForValidation(t, m)

		if items := set.Playlists.Items(); len(items) != 1 || items[0].Name != "Chill" {
			t.Fatalf("unexpected history %+v", items)
		}
		if !strings.Contains(m.View(), "Recent") {
			t.Errorf("expected recent playlists in view")
		}
	})

	t.Run("Spotify Link That Is Not A Playlist", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(typed("https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy"))
		if !strings.Contains(m.View(), notPlaylistHint) {
			t.Errorf("expected not-a-playlist hint, got %q", m.View())
		}

		m.Update(keyMsg(tea.KeyCtrlX))
		m.Update(typed("hello"))
		if strings.Contains(m.View(), notPlaylistHint) {
			t.Errorf("did not expect the hint for plain text")
		}
	})

	t.Run("Browsing Recent Playlists", func(t *testing.T) {
		set := history.NewSet(history.NewMemoryStorage())
		set.Playlists.Push(models.PlaylistHistoryItem{URL: "https://open.spotify.com/playlist/aaa", Name: "Older", PlaylistID: "aaa"})
		set.Playlists.Push(models.PlaylistHistoryItem{URL: "https://open.spotify.com/playlist/bbb", Name: "Newer", PlaylistID: "bbb"})
		api := &tu.MockRecommender{ValidateFunc: func(ctx context.Context, url string) (*models.PlaylistInfo, error) {
			id := strings.TrimPrefix(url, "https://open.spotify.com/playlist/")
			return &models.PlaylistInfo{PlaylistID: id, PlaylistName: id}, nil
		}}
		m := newTestModel(t, api, Options{History: set})

		m.Update(keyMsg(tea.KeyDown))
		if m.urlInput.Value() != "https://open.spotify.com/playlist/bbb" {
			t.Fatalf("expected most recent entry, got %q", m.urlInput.Value())
		}
		if m.validation.Type != tasks.ValidationLoading {
			t.Errorf("expected validation to start, got %+v", m.validation)
		}
		if !strings.Contains(m.View(), "› Newer") {
			t.Errorf("expected highlighted entry in view")
		}

		m.Update(keyMsg(tea.KeyDown))
		if m.urlInput.Value() != "https://open.spotify.com/playlist/aaa" {
			t.Fatalf("expected second entry, got %q", m.urlInput.Value())
		}
		waitForValidation(t, m)
		if got := m.selection.Get(); got.ID != "aaa" {
			t.Errorf("expected aaa selected, got %+v", got)
		}

		// validating moved aaa to the front; the walk keeps its order
		m.Update(keyMsg(tea.KeyUp))
		if m.urlInput.Value() != "https://open.spotify.com/playlist/bbb" {
			t.Errorf("expected to step back to bbb, got %q", m.urlInput.Value())
		}
	})

	t.Run("Recent Browsing Needs An Empty Input", func(t *testing.T) {
		set := history.NewSet(history.NewMemoryStorage())
		set.Playlists.Push(models.PlaylistHistoryItem{URL: "https://open.spotify.com/playlist/aaa", Name: "Older"})
		m := newTestModel(t, &tu.MockRecommender{}, Options{History: set})

		m.Update(typed("x"))
		m.Update(keyMsg(tea.KeyDown))
		if m.urlInput.Value() != "x" {
			t.Errorf("expected typed input to stay, got %q", m.urlInput.Value())
		}
	})

	t.Run("Clear Resets Input", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(typed("nope"))
		m.Update(keyMsg(tea.KeyCtrlX))
		if m.urlInput.Value() != "" || m.validation.Type != tasks.ValidationIdle {
			t.Errorf("expected cleared input, got %q %+v", m.urlInput.Value(), m.validation)
		}
	})
}

func TestGeneration(t *testing.T) {
	t.Run("Without Selection", func(t *testing.T) {
		api := &tu.MockRecommender{Generated: tu.SampleGenerated()}
		m := newTestModel(t, api, Options{})

		_, cmd := m.Update(keyMsg(tea.KeyEnter))
		if cmd != nil {
			t.Errorf("expected no command")
		}
		if m.view != InputView || m.genErr != "Please select a playlist first" {
			t.Errorf("expected guard message, got view=%d err=%q", m.view, m.genErr)
		}
		if api.Calls("GenerateFromPlaylist") != 0 {
			t.Errorf("expected no request")
		}
	})

	t.Run("Without Description", func(t *testing.T) {
		api := &tu.MockRecommender{Generated: tu.SampleGenerated()}
		m := newTestModel(t, api, Options{})
		m.Update(keyMsg(tea.KeyTab))
		m.Update(typed("   "))

		m.Update(keyMsg(tea.KeyEnter))
		if m.genErr != "Please enter a description first" {
			t.Errorf("expected guard message, got %q", m.genErr)
		}
		if api.Calls("GenerateFromText") != 0 {
			t.Errorf("expected no request")
		}
	})

	t.Run("From Description", func(t *testing.T) {
		api := &tu.MockRecommender{Generated: tu.SampleGenerated()}
		m := newTestModel(t, api, Options{})
		m.Update(keyMsg(tea.KeyTab))
		m.Update(typed("night drive"))

		_, cmd := m.Update(keyMsg(tea.KeyEnter))
		if m.view != GeneratingView {
			t.Fatalf("expected generating view, got %d", m.view)
		}
		if !strings.Contains(m.View(), "night drive") {
			t.Errorf("expected description in generating view")
		}

		done, ok := findMsg(collect(cmd), MsgGenerationDone)
		if !ok {
			t.Fatal("expected generation result")
		}
		m.Update(done)

		if m.view != ResultView || m.result == nil || m.result.Title != "Late Night Drive" {
			t.Fatalf("expected result view, got view=%d result=%+v", m.view, m.result)
		}
		view := m.View()
		for _, want := range []string{"Late Night Drive", "Not found on Spotify (1)", "Unknown Song - Nobody"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in result view", want)
			}
		}
		if len(m.trackList.Items()) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(m.trackList.Items()))
		}
	})

	t.Run("Failure Returns To Input", func(t *testing.T) {
		api := &tu.MockRecommender{Err: errors.New("boom")}
		m := newTestModel(t, api, Options{})
		m.Update(keyMsg(tea.KeyTab))
		m.Update(typed("night drive"))

		_, cmd := m.Update(keyMsg(tea.KeyEnter))
		done, _ := findMsg(collect(cmd), MsgGenerationDone)
		m.Update(done)

		if m.view != InputView || m.genErr != "Failed to generate playlist" {
			t.Errorf("expected error on input view, got view=%d err=%q", m.view, m.genErr)
		}
	})

	t.Run("Start Over", func(t *testing.T) {
		api := &tu.MockRecommender{Generated: tu.SampleGenerated()}
		m := newTestModel(t, api, Options{})
		m.Update(userLoadedMsg(loadedState(), nil))
		m.Update(keyMsg(tea.KeyEnter))

		_, cmd := m.Update(keyMsg(tea.KeyEnter))
		done, _ := findMsg(collect(cmd), MsgGenerationDone)
		m.Update(done)
		if m.view != ResultView {
			t.Fatalf("expected result view, got %d", m.view)
		}

		m.Update(typed("r"))
		if m.view != InputView || m.result != nil {
			t.Errorf("expected reset to input view")
		}
		if !m.selection.Get().Empty() {
			t.Errorf("expected selection cleared")
		}
		if m.generator.State().Status != tasks.StatusIdle {
			t.Errorf("expected idle generator")
		}
	})

	t.Run("Profile Load During Generation Keeps The Result", func(t *testing.T) {
		api := &tu.MockRecommender{Generated: tu.SampleGenerated()}
		m := newTestModel(t, api, Options{})
		m.Update(keyMsg(tea.KeyTab))
		m.Update(typed("night drive"))

		_, cmd := m.Update(keyMsg(tea.KeyEnter))
		if m.view != GeneratingView {
			t.Fatalf("expected generating view, got %d", m.view)
		}

		m.Update(userLoadedMsg(loadedState(), nil))
		if m.view != GeneratingView {
			t.Fatalf("expected to stay on the generating view, got %d", m.view)
		}
		if len(m.playlistList.Items()) != 2 {
			t.Errorf("expected playlists stored, got %d", len(m.playlistList.Items()))
		}

		done, _ := findMsg(collect(cmd), MsgGenerationDone)
		m.Update(done)
		if m.view != ResultView || m.result == nil {
			t.Fatalf("expected result view, got view=%d result=%v", m.view, m.result)
		}
	})

	t.Run("Generation Uses The Mode It Started In", func(t *testing.T) {
		api := &tu.MockRecommender{Generated: tu.SampleGenerated()}
		m := newTestModel(t, api, Options{})
		m.Update(keyMsg(tea.KeyTab))
		m.Update(typed("night drive"))

		_, cmd := m.Update(keyMsg(tea.KeyEnter))
		m.mode = ModePlaylist
		collect(cmd)

		if api.Calls("GenerateFromText") != 1 || api.Calls("GenerateFromPlaylist") != 0 {
			t.Errorf("expected a text generation, got text=%d playlist=%d",
				api.Calls("GenerateFromText"), api.Calls("GenerateFromPlaylist"))
		}
	})

	t.Run("Export Notice", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(exportedMsg([]string{"gen123.json"}, nil))
		if !strings.Contains(m.notice, "gen123.json") {
			t.Errorf("expected saved file in notice, got %q", m.notice)
		}
		m.Update(exportedMsg(nil, errors.New("disk full")))
		if !strings.Contains(m.notice, "disk full") {
			t.Errorf("expected error in notice, got %q", m.notice)
		}
	})
}

func TestProfile(t *testing.T) {
	t.Run("Loaded Playlists Are Listed", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(keyMsg(tea.KeyCtrlU))
		if m.view != UserView {
			t.Fatalf("expected user view, got %d", m.view)
		}

		m.Update(userLoadedMsg(loadedState(), nil))
		if m.view != PlaylistListView {
			t.Fatalf("expected playlist list, got %d", m.view)
		}
		if m.playlistList.Title != "Alice's playlists" || len(m.playlistList.Items()) != 2 {
			t.Errorf("unexpected list %q with %d items", m.playlistList.Title, len(m.playlistList.Items()))
		}
	})

	t.Run("Selecting A Playlist", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		m.Update(userLoadedMsg(loadedState(), nil))
		m.Update(keyMsg(tea.KeyDown))
		m.Update(keyMsg(tea.KeyEnter))

		got := m.selection.Get()
		if m.view != InputView || got.ID != "p2" || got.Source != tasks.SourceList {
			t.Fatalf("expected list selection of p2, got view=%d %+v", m.view, got)
		}
		if got.ImageURL != "https://i.scdn.co/gym.jpg" {
			t.Errorf("expected cover image, got %q", got.ImageURL)
		}
		if !strings.Contains(m.View(), "Selected: Gym") {
			t.Errorf("expected selection in view")
		}
	})

	t.Run("Load Failure Stays On User View", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{})
		m.Update(keyMsg(tea.KeyCtrlU))
		m.Update(userLoadedMsg(tasks.UserState{Error: "User not found"}, errors.New("not found")))
		if m.view != UserView || !strings.Contains(m.View(), "User not found") {
			t.Errorf("expected error on user view")
		}
	})

	t.Run("Start Up Parameters", func(t *testing.T) {
		m := newTestModel(t, &tu.MockRecommender{}, Options{Username: "alice", PlaylistID: "p1"})
		m.Init()
		if m.view != UserView || !m.user.Loading {
			t.Fatalf("expected profile load on start, got view=%d", m.view)
		}

		m.Update(userLoadedMsg(loadedState(), nil))
		if got := m.selection.Get(); m.view != InputView || got.ID != "p1" {
			t.Errorf("expected p1 selected from the profile, got view=%d %+v", m.view, got)
		}
	})

	t.Run("Start Up Playlist Without User", func(t *testing.T) {
		api := &tu.MockRecommender{Info: &models.PlaylistInfo{PlaylistID: "abc123", PlaylistName: "Mix"}}
		m := newTestModel(t, api, Options{PlaylistID: "abc123"})
		m.Init()
		if m.urlInput.Value() != "https://open.spotify.com/playlist/abc123" {
			t.Errorf("expected prefilled link, got %q", m.urlInput.Value())
		}
		waitForValidation(t, m)
		if m.selection.Get().ID != "abc123" {
			t.Errorf("expected validated selection")
		}
	})
}

func TestGuide(t *testing.T) {
	setup := func(t *testing.T, api *tu.MockRecommender) (*Model, *fakeOpener, *fakeClipboard) {
		opener := &fakeOpener{}
		clip := &fakeClipboard{}
		m := newTestModel(t, api, Options{
			Screen:    guide.Screen{AvailWidth: 1920, AvailHeight: 1080},
			Opener:    opener,
			Clipboard: clip,
		})
		return m, opener, clip
	}

	t.Run("Playlist Link From Clipboard", func(t *testing.T) {
		api := &tu.MockRecommender{Info: &models.PlaylistInfo{PlaylistID: "37i9dQZF1DXcBWIGoYBM5M", PlaylistName: "Chill"}}
		m, opener, clip := setup(t, api)

		m.Update(keyMsg(tea.KeyCtrlO))
		if m.view != GuideView || len(opener.urls) != 1 || opener.urls[0] != "https://open.spotify.com" {
			t.Fatalf("expected guide opened, got view=%d urls=%v", m.view, opener.urls)
		}
		if !strings.Contains(m.View(), "Find Your Playlist") {
			t.Errorf("expected guide steps in view")
		}

		clip.set(playlistLink)
		_, cmd := m.Update(tea.FocusMsg{})
		if cmd == nil || m.view != InputView || m.urlInput.Value() != playlistLink {
			t.Fatalf("expected detected link in input, got view=%d value=%q", m.view, m.urlInput.Value())
		}

		m.Update(autoSubmitMsg(playlistLink))
		waitForValidation(t, m)
		if m.validation.Type != tasks.ValidationSuccess {
			t.Errorf("expected validated link, got %+v", m.validation)
		}
	})

	t.Run("Ignores Unrelated Clipboard Text", func(t *testing.T) {
		m, _, clip := setup(t, &tu.MockRecommender{})
		m.Update(keyMsg(tea.KeyCtrlO))
		clip.set("just some notes")

		m.Update(tea.FocusMsg{})
		if m.view != GuideView {
			t.Errorf("expected to stay on guide, got %d", m.view)
		}
	})

	t.Run("Edited Input Is Not Auto Submitted", func(t *testing.T) {
		api := &tu.MockRecommender{}
		m, _, clip := setup(t, api)
		m.Update(keyMsg(tea.KeyCtrlO))
		clip.set(playlistLink)
		m.Update(tea.FocusMsg{})

		m.urlInput.SetValue("something else")
		m.Update(autoSubmitMsg(playlistLink))
		if m.validation.Type != tasks.ValidationIdle {
			t.Errorf("expected no submission, got %+v", m.validation)
		}
	})

	t.Run("Escape Cancels", func(t *testing.T) {
		m, _, _ := setup(t, &tu.MockRecommender{})
		m.Update(keyMsg(tea.KeyCtrlO))
		flow := m.flow

		m.Update(keyMsg(tea.KeyEsc))
		if m.view != InputView || m.flow != nil {
			t.Errorf("expected guide closed")
		}
		if flow.State() != guide.StateCancelled {
			t.Errorf("expected cancelled flow, got %s", flow.State())
		}
	})

	t.Run("Stale Poll Is Ignored", func(t *testing.T) {
		m, _, _ := setup(t, &tu.MockRecommender{})
		m.Update(keyMsg(tea.KeyCtrlO))

		_, cmd := m.Update(guidePollMsg(m.guideSeq - 1))
		if cmd != nil {
			t.Errorf("expected stale poll to be dropped")
		}
		m.Update(guideDetectedMsg(m.guideSeq-1, playlistLink))
		if m.view != GuideView {
			t.Errorf("expected stale detection to be dropped")
		}
	})

	t.Run("Open Failure", func(t *testing.T) {
		m, opener, _ := setup(t, &tu.MockRecommender{})
		opener.err = errors.New("no display")
		m.Update(keyMsg(tea.KeyCtrlO))
		if m.view != InputView || !strings.Contains(m.notice, "no display") {
			t.Errorf("expected error notice, got view=%d notice=%q", m.view, m.notice)
		}
	})

	t.Run("Profile Link From Clipboard", func(t *testing.T) {
		api := &tu.MockRecommender{Profile: &models.Profile{ID: "alice"}, Playlists: samplePlaylists()}
		m, _, clip := setup(t, api)
		m.Update(keyMsg(tea.KeyCtrlU))
		m.Update(keyMsg(tea.KeyCtrlO))
		if !strings.Contains(m.View(), "Find Your Profile") {
			t.Fatalf("expected profile guide")
		}

		link := "https://open.spotify.com/user/alice"
		clip.set(link)
		m.Update(tea.FocusMsg{})
		if m.view != UserView || m.userInput.Value() != link {
			t.Fatalf("expected link in user input, got view=%d value=%q", m.view, m.userInput.Value())
		}

		_, cmd := m.Update(autoSubmitMsg(link))
		loaded, ok := findMsg(collect(cmd), MsgUserLoaded)
		if !ok {
			t.Fatal("expected profile load")
		}
		m.Update(loaded)
		if m.view != PlaylistListView || m.user.Username != "alice" {
			t.Errorf("expected loaded playlists, got view=%d user=%q", m.view, m.user.Username)
		}
	})
}
