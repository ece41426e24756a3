// package models defines the data model for the playlist recommendation client
package models

// Keyed is implemented by records stored in a de-duplicated history list.
type Keyed interface {
	Key() string // Key returns the identity used for de-duplication
}

// Image is an artwork reference as returned by Spotify.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Profile is a public Spotify user profile.
type Profile struct {
	ID           string            `json:"id"`
	DisplayName  string            `json:"display_name"`
	Images       []Image           `json:"images"`
	ExternalURLs map[string]string `json:"external_urls,omitempty"`
}

// Playlist is a playlist summary.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Images      []Image `json:"images"`
	TracksTotal int     `json:"tracks_total"`
}

// Track is a single song in a playlist.
type Track struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Image  string `json:"image,omitempty"`
}

// PlaylistTracks is the track listing for an existing playlist.
type PlaylistTracks struct {
	Name   string  `json:"name"`
	Tracks []Track `json:"tracks"`
}

// PlaylistsResponse wraps the playlists of a profile.
type PlaylistsResponse struct {
	Playlists []Playlist `json:"playlists"`
}

// PlaylistInfo is returned when a pasted playlist URL resolves.
type PlaylistInfo struct {
	PlaylistID   string  `json:"playlist_id"`
	PlaylistName string  `json:"playlist_name"`
	TracksTotal  int     `json:"tracks_total"`
	Images       []Image `json:"images"`
}

// PlaylistOwner links a playlist to the profile that owns it.
type PlaylistOwner struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
}

// SearchResults is the response of a public playlist search.
type SearchResults struct {
	Query     string     `json:"query,omitempty"`
	Playlists []Playlist `json:"playlists"`
}

// GeneratedPlaylist is the backend's generation result, rendered as-is.
type GeneratedPlaylist struct {
	PlaylistID  string   `json:"playlist_id"`
	PlaylistURL string   `json:"playlist_url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tracks      []Track  `json:"tracks"`
	NotFound    []string `json:"not_found,omitempty"`
}

// Health is the backend health check payload.
type Health struct {
	Status string `json:"status"`
}

// APIError is the body of a non-2xx response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FirstImageURL returns the URL of the first image, or "".
func FirstImageURL(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// PlaylistHistoryItem is a recently used playlist link.
type PlaylistHistoryItem struct {
	URL        string `json:"url"`
	Name       string `json:"name"`
	PlaylistID string `json:"playlistId,omitempty"`
}

func (i PlaylistHistoryItem) Key() string { return i.URL }

// UserHistoryItem is a recently loaded profile.
type UserHistoryItem struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func (i UserHistoryItem) Key() string { return i.Username }

// SearchHistoryItem is a recent profile search.
type SearchHistoryItem struct {
	Query string `json:"query"`
}

func (i SearchHistoryItem) Key() string { return i.Query }
