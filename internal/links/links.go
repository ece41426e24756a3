// Package links detects and builds Spotify playlist and profile links.
//
// Every function is pure and total: malformed input yields a "not found" result, never a panic.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	spotifyWeb = "https://open.spotify.com"

	playlistMarker    = "open.spotify.com/playlist/"
	playlistURIMarker = "spotify:playlist:"
	userMarker        = "open.spotify.com/user/"
	userURIMarker     = "spotify:user:"
)

var (
	playlistURLPattern = regexp.MustCompile(`open\.spotify\.com/playlist/([a-zA-Z0-9]+)`)
	playlistURIPattern = regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9]+)`)
	userURLPattern     = regexp.MustCompile(`open\.spotify\.com/user/([a-zA-Z0-9_.-]+)`)
	userURIPattern     = regexp.MustCompile(`spotify:user:([a-zA-Z0-9_.-]+)`)
	bareUsername       = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// PlaylistID extracts the playlist ID following "open.spotify.com/playlist/" or "spotify:playlist:".
//
// The ID is the alphanumeric run right after the marker, so query strings and trailing path segments are dropped.
func PlaylistID(s string) (string, bool) {
	if strings.Contains(s, playlistMarker) {
		if m := playlistURLPattern.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	if strings.Contains(s, playlistURIMarker) {
		if m := playlistURIPattern.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Username extracts the username following "open.spotify.com/user/" or "spotify:user:".
func Username(s string) (string, bool) {
	if m := userURLPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := userURIPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// LooksLikePlaylist is the cheap pre-network check for a playlist link.
func LooksLikePlaylist(s string) bool {
	return strings.Contains(s, "spotify.com/playlist/") || strings.Contains(s, playlistURIMarker)
}

// LooksLikeProfile reports whether s mentions a profile link.
func LooksLikeProfile(s string) bool {
	return strings.Contains(s, userMarker) || strings.Contains(s, userURIMarker)
}

// LooksLikeSpotify reports whether s mentions Spotify at all.
func LooksLikeSpotify(s string) bool {
	return strings.Contains(s, "spotify.com") || strings.Contains(s, "spotify:")
}

// ResolveUser turns a profile link or a bare username into a username.
func ResolveUser(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if name, ok := Username(s); ok {
		return name, true
	}
	if bareUsername.MatchString(s) {
		return s, true
	}
	return "", false
}

// ResolvePlaylist turns a playlist link or a bare ID into a playlist ID.
func ResolvePlaylist(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if id, ok := PlaylistID(s); ok {
		return id, true
	}
	if s != "" && isAlphanumeric(s) {
		return s, true
	}
	return "", false
}

// PlaylistURL returns the canonical web link for a playlist.
func PlaylistURL(id string) string {
	return spotifyWeb + "/playlist/" + url.PathEscape(id)
}

// ProfileURL returns the canonical web link for a profile.
func ProfileURL(username string) string {
	return spotifyWeb + "/user/" + url.PathEscape(username)
}

// BrowseURL returns the page a guided flow starts from: the user's playlists, or the Spotify home page.
func BrowseURL(username string) string {
	if username == "" {
		return spotifyWeb
	}
	return ProfileURL(username) + "/playlists"
}

// AppLink encodes the navigable user/playlist parameters as a query string.
func AppLink(username, playlistID string) string {
	q := url.Values{}
	if username != "" {
		q.Set("user", username)
	}
	if playlistID != "" {
		q.Set("playlist", playlistID)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ParseAppLink reads the user/playlist parameters from a link or a bare query string.
func ParseAppLink(raw string) (username, playlistID string) {
	query := raw
	if _, after, ok := strings.Cut(raw, "?"); ok {
		query = after
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return "", ""
	}
	return q.Get("user"), q.Get("playlist")
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
