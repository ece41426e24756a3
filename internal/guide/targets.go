package guide

import (
	"time"

	"github.com/desertthunder/mixtape/internal/links"
)

// DefaultAutoSubmitDelay is how long a detected link sits in the input before it is submitted,
// giving the user a moment to see what was picked up.
const DefaultAutoSubmitDelay = 600 * time.Millisecond

// Step is one instruction shown beside the guide window.
type Step struct {
	Title       string
	Description string
}

// Target describes what a guide helps the user find.
type Target struct {
	Title    string
	Subtitle string
	Steps    []Step
	Tip      string
	URL      string
	Valid    func(string) bool
}

const subtitle = "Follow these steps in the Spotify window on the right:"

// PlaylistTarget guides the user to a playlist link, starting from username's playlists when known.
func PlaylistTarget(username string) Target {
	return Target{
		Title:    "Find Your Playlist",
		Subtitle: subtitle,
		Steps: []Step{
			{"Find the playlist you want", "Browse your library or use Spotify's search"},
			{`Click "..." next to the playlist`, "The three-dot menu with more options"},
			{`Click "Share" → "Copy link to playlist"`, "This copies the link to your clipboard"},
			{"Come back here", "The link is picked up automatically, or paste it manually"},
		},
		Tip:   `If the playlist is private, click "..." → "Make public" first, then copy the link.`,
		URL:   links.BrowseURL(username),
		Valid: links.LooksLikePlaylist,
	}
}

// ProfileTarget guides the user to their profile link.
func ProfileTarget() Target {
	return Target{
		Title:    "Find Your Profile",
		Subtitle: subtitle,
		Steps: []Step{
			{"Click your profile picture", "Top right of the Spotify window"},
			{`Click "Profile"`, "Opens your public profile page"},
			{`Click "..." → "Share" → "Copy link to profile"`, "This copies the link to your clipboard"},
			{"Come back here", "The link is picked up automatically, or paste it manually"},
		},
		Tip:   "Only public playlists on your profile can be used.",
		URL:   links.BrowseURL(""),
		Valid: links.LooksLikeProfile,
	}
}

// Config returns a flow configuration for t; the caller supplies capabilities and OnDetected.
func (t Target) Config(screen Screen, opener Opener, clipboard Clipboard, onDetected func(string)) Config {
	return Config{
		URL:        t.URL,
		Screen:     screen,
		Opener:     opener,
		Clipboard:  clipboard,
		Valid:      t.Valid,
		OnDetected: onDetected,
	}
}
