package links

import "testing"

func TestPlaylistID(t *testing.T) {
	tc := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"web link with share query", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"web link without scheme", "open.spotify.com/playlist/abc123", "abc123", true},
		{"uri", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", true},
		{"surrounded by text", "check this out: https://open.spotify.com/playlist/xyz789/ nice", "xyz789", true},
		{"trailing path", "https://open.spotify.com/playlist/xyz789/tracks", "xyz789", true},
		{"empty id after marker falls back to uri", "open.spotify.com/playlist/?x spotify:playlist:abc", "abc", true},
		{"empty id", "https://open.spotify.com/playlist/", "", false},
		{"profile link", "https://open.spotify.com/user/someone", "", false},
		{"track link", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", "", false},
		{"plain text", "lofi beats for studying", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PlaylistID(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("PlaylistID(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("PlaylistID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	tc := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"https://open.spotify.com/user/abc123?si=xyz", "abc123", true},
		{"https://open.spotify.com/user/some.name_with-dash/playlists", "some.name_with-dash", true},
		{"spotify:user:wizzler", "wizzler", true},
		{"https://open.spotify.com/playlist/abc", "", false},
		{"wizzler", "", false},
	}

	for _, tt := range tc {
		got, ok := Username(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Username(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("ResolveUser", func(t *testing.T) {
		if got, ok := ResolveUser("  wizzler  "); !ok || got != "wizzler" {
			t.Errorf("expected bare username to resolve, got (%q, %v)", got, ok)
		}
		if got, ok := ResolveUser("https://open.spotify.com/user/wizzler"); !ok || got != "wizzler" {
			t.Errorf("expected profile link to resolve, got (%q, %v)", got, ok)
		}
		if _, ok := ResolveUser("not a user!"); ok {
			t.Error("expected input with spaces to be rejected")
		}
	})

	t.Run("ResolvePlaylist", func(t *testing.T) {
		if got, ok := ResolvePlaylist("37i9dQZF1DXcBWIGoYBM5M"); !ok || got != "37i9dQZF1DXcBWIGoYBM5M" {
			t.Errorf("expected bare ID to resolve, got (%q, %v)", got, ok)
		}
		if got, ok := ResolvePlaylist("spotify:playlist:abc"); !ok || got != "abc" {
			t.Errorf("expected uri to resolve, got (%q, %v)", got, ok)
		}
		if _, ok := ResolvePlaylist("abc-def"); ok {
			t.Error("expected non-alphanumeric ID to be rejected")
		}
		if _, ok := ResolvePlaylist(""); ok {
			t.Error("expected empty input to be rejected")
		}
	})
}

func TestLooksLike(t *testing.T) {
	if !LooksLikePlaylist("https://open.spotify.com/playlist/abc") {
		t.Error("expected playlist link to look like a playlist")
	}
	if !LooksLikePlaylist("spotify:playlist:abc") {
		t.Error("expected playlist uri to look like a playlist")
	}
	if LooksLikePlaylist("https://open.spotify.com/album/abc") {
		t.Error("expected album link not to look like a playlist")
	}
	if !LooksLikeProfile("https://open.spotify.com/user/abc") {
		t.Error("expected profile link to look like a profile")
	}
	if !LooksLikeSpotify("spotify:album:abc") || LooksLikeSpotify("youtube.com") {
		t.Error("unexpected LooksLikeSpotify result")
	}
}

func TestBuilders(t *testing.T) {
	if got := PlaylistURL("abc"); got != "https://open.spotify.com/playlist/abc" {
		t.Errorf("unexpected playlist URL %q", got)
	}
	if got := ProfileURL("wizzler"); got != "https://open.spotify.com/user/wizzler" {
		t.Errorf("unexpected profile URL %q", got)
	}
	if got := BrowseURL(""); got != "https://open.spotify.com" {
		t.Errorf("unexpected browse URL %q", got)
	}
	if got := BrowseURL("wizzler"); got != "https://open.spotify.com/user/wizzler/playlists" {
		t.Errorf("unexpected browse URL %q", got)
	}
}

func TestAppLink(t *testing.T) {
	link := AppLink("some user", "abc")
	if link != "?playlist=abc&user=some+user" {
		t.Errorf("unexpected app link %q", link)
	}

	user, playlist := ParseAppLink("http://localhost:5173/app" + link)
	if user != "some user" || playlist != "abc" {
		t.Errorf("expected round trip, got (%q, %q)", user, playlist)
	}

	if AppLink("", "") != "" {
		t.Error("expected empty link without parameters")
	}

	user, playlist = ParseAppLink("user=wizzler")
	if user != "wizzler" || playlist != "" {
		t.Errorf("expected bare query to parse, got (%q, %q)", user, playlist)
	}
}
