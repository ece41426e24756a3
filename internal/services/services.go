// package services defines interface Recommender for the playlist recommendation backend
package services

import (
	"context"

	"github.com/desertthunder/mixtape/internal/models"
)

// Recommender is the backend contract the client depends on.
type Recommender interface {
	// Health reports backend liveness.
	Health(ctx context.Context) (*models.Health, error)

	// GetProfile retrieves a public Spotify profile.
	GetProfile(ctx context.Context, username string) (*models.Profile, error)

	// GetPlaylists retrieves a profile's public playlists.
	GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error)

	// GetPlaylistTracks retrieves the tracks of a playlist.
	GetPlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error)

	// ValidatePlaylist resolves a pasted playlist URL into playlist metadata.
	ValidatePlaylist(ctx context.Context, playlistURL string) (*models.PlaylistInfo, error)

	// GetPlaylistOwner resolves the owner of the playlist behind a URL.
	GetPlaylistOwner(ctx context.Context, playlistURL string) (*models.PlaylistOwner, error)

	// SearchPlaylists searches public playlists.
	SearchPlaylists(ctx context.Context, query string, limit int) (*models.SearchResults, error)

	// GenerateFromPlaylist synthesizes a new playlist seeded by an existing one.
	GenerateFromPlaylist(ctx context.Context, playlistID string) (*models.GeneratedPlaylist, error)

	// GenerateFromText synthesizes a new playlist from a free-text description.
	GenerateFromText(ctx context.Context, description string) (*models.GeneratedPlaylist, error)
}
