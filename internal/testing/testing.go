// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
)

// MockRecommender is a test double for services.Recommender.
//
// Each method returns the matching field; calls are counted per method name.
type MockRecommender struct {
	mu    sync.Mutex
	calls map[string]int

	Profile       *models.Profile
	Playlists     []models.Playlist
	Tracks        *models.PlaylistTracks
	Info          *models.PlaylistInfo
	Owner         *models.PlaylistOwner
	Search        *models.SearchResults
	Generated     *models.GeneratedPlaylist
	Err           error
	ValidateFunc  func(ctx context.Context, url string) (*models.PlaylistInfo, error)
	GenerateBlock chan struct{} // when set, generation waits for a receive before returning
}

func (m *MockRecommender) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockRecommender) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockRecommender) Health(ctx context.Context) (*models.Health, error) {
	m.record("Health")
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Health{Status: "healthy"}, nil
}

func (m *MockRecommender) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	m.record("GetProfile")
	return m.Profile, m.Err
}

func (m *MockRecommender) GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error) {
	m.record("GetPlaylists")
	return m.Playlists, m.Err
}

func (m *MockRecommender) GetPlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error) {
	m.record("GetPlaylistTracks")
	return m.Tracks, m.Err
}

func (m *MockRecommender) ValidatePlaylist(ctx context.Context, url string) (*models.PlaylistInfo, error) {
	m.record("ValidatePlaylist")
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, url)
	}
	return m.Info, m.Err
}

func (m *MockRecommender) GetPlaylistOwner(ctx context.Context, url string) (*models.PlaylistOwner, error) {
	m.record("GetPlaylistOwner")
	return m.Owner, m.Err
}

func (m *MockRecommender) SearchPlaylists(ctx context.Context, query string, limit int) (*models.SearchResults, error) {
	m.record("SearchPlaylists")
	return m.Search, m.Err
}

func (m *MockRecommender) GenerateFromPlaylist(ctx context.Context, playlistID string) (*models.GeneratedPlaylist, error) {
	m.record("GenerateFromPlaylist")
	return m.generated()
}

func (m *MockRecommender) GenerateFromText(ctx context.Context, description string) (*models.GeneratedPlaylist, error) {
	m.record("GenerateFromText")
	return m.generated()
}

func (m *MockRecommender) generated() (*models.GeneratedPlaylist, error) {
	if m.GenerateBlock != nil {
		<-m.GenerateBlock
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Generated, nil
}

// SampleGenerated returns a generated playlist fixture.
func SampleGenerated() *models.GeneratedPlaylist {
	return &models.GeneratedPlaylist{
		PlaylistID:  "gen123",
		PlaylistURL: "https://open.spotify.com/playlist/gen123",
		Title:       "Late Night Drive",
		Description: "Synths for empty highways",
		Tracks: []models.Track{
			{ID: "t1", Name: "Nightcall", Artist: "Kavinsky", Album: "OutRun"},
			{ID: "t2", Name: "Tennis Court", Artist: "Lorde", Album: "Pure Heroine"},
		},
		NotFound: []string{"Unknown Song - Nobody"},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if err == nil && !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}
