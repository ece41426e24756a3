package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
)

// newBackend serves handler under httptest and returns a client pointed at it.
func newBackend(t *testing.T, handler http.HandlerFunc, opts ...APIOption) *APIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAPIService(server.URL, nil, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
			if srv.limiter != nil {
				t.Error("expected no generation limiter by default")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != "http://127.0.0.1:5000" {
				t.Errorf("expected default baseURL 'http://127.0.0.1:5000', got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Generation Limit", func(t *testing.T) {
			srv := NewAPIService("", nil, WithGenerationLimit(10))
			if srv.limiter == nil {
				t.Fatal("expected limiter to be set")
			}
			if srv.limiter.Burst() != 10 {
				t.Errorf("expected burst 10, got %d", srv.limiter.Burst())
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Error("expected X-Request-ID header")
				}
				writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
			})

			resp, err := srv.Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() {
				t.Errorf("expected 2xx status, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected JSON response to be decoded")
			}
		})

		t.Run("Successful Request With Non-JSON Response", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text response"))
			})

			resp, err := srv.Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)
			_, err := srv.Get(context.Background(), "/test\x00invalid")

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Get(context.Background(), "/test")

			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Get(context.Background(), "/test")

			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		t.Run("Sends JSON Body", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != `{"test":"data"}` {
					t.Errorf("unexpected body %s", string(body))
				}
				writeJSON(w, http.StatusCreated, map[string]string{"id": "123"})
			})

			resp, err := srv.Post(context.Background(), "/test", []byte(`{"test":"data"}`))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusCreated {
				t.Errorf("expected status 201, got %d", resp.StatusCode)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := srv.Post(ctx, "/test", []byte("{}")); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("ValidatePlaylist", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/playlist/validate" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["playlist_url"] != "https://open.spotify.com/playlist/abc123" {
					t.Errorf("unexpected playlist_url %q", body["playlist_url"])
				}
				writeJSON(w, http.StatusOK, models.PlaylistInfo{
					PlaylistID:   "abc123",
					PlaylistName: "Focus",
					TracksTotal:  42,
					Images:       []models.Image{{URL: "https://img/1"}},
				})
			})

			info, err := srv.ValidatePlaylist(context.Background(), "https://open.spotify.com/playlist/abc123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if info.PlaylistID != "abc123" || info.PlaylistName != "Focus" || info.TracksTotal != 42 {
				t.Errorf("unexpected playlist info %+v", info)
			}
			if models.FirstImageURL(info.Images) != "https://img/1" {
				t.Errorf("expected first image, got %+v", info.Images)
			}
		})

		t.Run("Rejects Non-Playlist Input Without Request", func(t *testing.T) {
			called := false
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			_, err := srv.ValidatePlaylist(context.Background(), "https://open.spotify.com/album/abc")
			if !errors.Is(err, shared.ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
			if called {
				t.Error("expected no request for invalid input")
			}
		})

		t.Run("Not Found Surfaces Backend Message", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"not_found","message":"Playlist not found"}`))
			})

			_, err := srv.ValidatePlaylist(context.Background(), "https://open.spotify.com/playlist/missing")
			if !errors.Is(err, shared.ErrLookupFailed) {
				t.Errorf("expected ErrLookupFailed, got %v", err)
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %T", err)
			}
			if reqErr.StatusCode != http.StatusNotFound || reqErr.Code != "not_found" {
				t.Errorf("unexpected request error %+v", reqErr)
			}
			if got := Message(err, "Could not access playlist"); got != "Playlist not found" {
				t.Errorf("expected backend message, got %q", got)
			}
		})

		t.Run("Error Without Message Uses Code", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing_url"})
			})

			_, err := srv.ValidatePlaylist(context.Background(), "spotify:playlist:abc")
			if got := Message(err, "fallback"); got != "missing_url" {
				t.Errorf("expected error code as message, got %q", got)
			}
		})

		t.Run("Non-JSON Error Uses Fallback", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("<html>bad gateway</html>"))
			})

			_, err := srv.ValidatePlaylist(context.Background(), "spotify:playlist:abc")
			if !errors.Is(err, shared.ErrLookupFailed) {
				t.Errorf("expected ErrLookupFailed, got %v", err)
			}
			if got := Message(err, "Could not access playlist"); got != "Could not access playlist" {
				t.Errorf("expected fallback message, got %q", got)
			}
		})

		t.Run("Transport Error Uses Fallback", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			srv := NewAPIService("http://example.com", client)

			_, err := srv.ValidatePlaylist(context.Background(), "spotify:playlist:abc")
			if !errors.Is(err, shared.ErrLookupFailed) {
				t.Errorf("expected ErrLookupFailed, got %v", err)
			}
			if got := Message(err, "Could not access playlist"); got != "Could not access playlist" {
				t.Errorf("expected fallback message, got %q", got)
			}
		})
	})

	t.Run("Generate", func(t *testing.T) {
		t.Run("From Playlist", func(t *testing.T) {
			want := tu.SampleGenerated()
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/generate/from-playlist" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["playlist_id"] != "abc123" {
					t.Errorf("unexpected playlist_id %q", body["playlist_id"])
				}
				writeJSON(w, http.StatusOK, want)
			})

			got, err := srv.GenerateFromPlaylist(context.Background(), "abc123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.PlaylistID != want.PlaylistID || len(got.Tracks) != len(want.Tracks) || len(got.NotFound) != 1 {
				t.Errorf("unexpected generated playlist %+v", got)
			}
		})

		t.Run("From Text", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/generate/from-text" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["description"] != "rainy day jazz" {
					t.Errorf("unexpected description %q", body["description"])
				}
				writeJSON(w, http.StatusOK, tu.SampleGenerated())
			})

			if _, err := srv.GenerateFromText(context.Background(), "rainy day jazz"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Failure Is Generation Kind", func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, models.APIError{Error: "rate_limited", Message: "Slow down"})
			})

			_, err := srv.GenerateFromText(context.Background(), "anything")
			if !errors.Is(err, shared.ErrGenerationFailed) {
				t.Errorf("expected ErrGenerationFailed, got %v", err)
			}
			if err.Error() != "Slow down" {
				t.Errorf("expected error text to be backend message, got %q", err.Error())
			}
		})

		t.Run("Client Side Limit", func(t *testing.T) {
			calls := 0
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				writeJSON(w, http.StatusOK, tu.SampleGenerated())
			}, WithGenerationLimit(1))

			if _, err := srv.GenerateFromText(context.Background(), "first"); err != nil {
				t.Fatalf("expected first call to succeed, got %v", err)
			}
			_, err := srv.GenerateFromText(context.Background(), "second")
			if !errors.Is(err, shared.ErrRateLimited) {
				t.Errorf("expected ErrRateLimited, got %v", err)
			}
			if calls != 1 {
				t.Errorf("expected 1 backend call, got %d", calls)
			}
		})
	})

	t.Run("Profile", func(t *testing.T) {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.EscapedPath() {
			case "/api/profile/some%20one":
				writeJSON(w, http.StatusOK, models.Profile{ID: "some one", DisplayName: "Some One"})
			case "/api/profile/some%20one/playlists":
				writeJSON(w, http.StatusOK, models.PlaylistsResponse{Playlists: []models.Playlist{{ID: "p1", Name: "One", TracksTotal: 3}}})
			default:
				t.Errorf("unexpected path %s", r.URL.EscapedPath())
				w.WriteHeader(http.StatusNotFound)
			}
		})

		profile, err := srv.GetProfile(context.Background(), "some one")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if profile.DisplayName != "Some One" {
			t.Errorf("unexpected profile %+v", profile)
		}

		playlists, err := srv.GetPlaylists(context.Background(), "some one")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 1 || playlists[0].ID != "p1" {
			t.Errorf("unexpected playlists %+v", playlists)
		}

		if _, err := srv.GetProfile(context.Background(), ""); !errors.Is(err, shared.ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("Playlist Lookups", func(t *testing.T) {
		srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/playlist/abc/tracks":
				writeJSON(w, http.StatusOK, models.PlaylistTracks{Name: "Focus", Tracks: []models.Track{{Name: "A"}}})
			case "/api/playlist/owner":
				writeJSON(w, http.StatusOK, models.PlaylistOwner{Username: "wizzler", PlaylistID: "abc", PlaylistName: "Focus"})
			case "/api/search/playlists":
				if r.URL.Query().Get("q") != "lofi" || r.URL.Query().Get("limit") != "10" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				writeJSON(w, http.StatusOK, models.SearchResults{Playlists: []models.Playlist{{ID: "x"}}})
			case "/api/health":
				writeJSON(w, http.StatusOK, models.Health{Status: "healthy"})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})
		ctx := context.Background()

		tracks, err := srv.GetPlaylistTracks(ctx, "abc")
		if err != nil || tracks.Name != "Focus" || len(tracks.Tracks) != 1 {
			t.Errorf("unexpected tracks %+v (err %v)", tracks, err)
		}

		owner, err := srv.GetPlaylistOwner(ctx, "https://open.spotify.com/playlist/abc")
		if err != nil || owner.Username != "wizzler" {
			t.Errorf("unexpected owner %+v (err %v)", owner, err)
		}

		results, err := srv.SearchPlaylists(ctx, "lofi", 0)
		if err != nil || len(results.Playlists) != 1 {
			t.Errorf("unexpected results %+v (err %v)", results, err)
		}

		health, err := srv.Health(ctx)
		if err != nil || health.Status != "healthy" {
			t.Errorf("unexpected health %+v (err %v)", health, err)
		}
	})
}
