package tasks

import (
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
)

// ProgressUpdate represents a state change or progress event.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Phase-specific snapshot: ValidationStatus, GenerationState, UserState, ...
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	Generate
	LoadProfile
	LoadPlaylists
	FetchTracks
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Generate:
		return "generate"
	case LoadProfile:
		return "load_profile"
	case LoadPlaylists:
		return "load_playlists"
	case FetchTracks:
		return "fetch_tracks"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func validationUpdate(status ValidationStatus) ProgressUpdate {
	return ProgressUpdate{Phase: Validate, Step: 1, Total: 1, Message: status.Message, Data: status}
}

func generationUpdate(state GenerationState) ProgressUpdate {
	msg := ""
	switch state.Status {
	case StatusLoading:
		msg = "Generating playlist..."
	case StatusSuccess:
		if state.Result == nil {
			break
		}
		msg = fmt.Sprintf("Generated: %s (%d tracks)", state.Result.Title, len(state.Result.Tracks))
	case StatusError:
		msg = state.Error
	}
	return ProgressUpdate{Phase: Generate, Step: 1, Total: 1, Message: msg, Data: state}
}

func loadingProfileUpdate(username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadProfile,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Loading profile %s...", username),
	}
}

func loadedProfileUpdate(state UserState) ProgressUpdate {
	name := state.Username
	if state.Profile != nil && state.Profile.DisplayName != "" {
		name = state.Profile.DisplayName
	}
	return ProgressUpdate{
		Phase:   LoadProfile,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %s (%d playlists)", name, len(state.Playlists)),
		Data:    state,
	}
}

func loadFailedUpdate(phase Phase, state UserState) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Step: 1, Total: 1, Message: state.Error, Data: state}
}

func refreshedPlaylistsUpdate(state UserState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Refreshed %d playlists", len(state.Playlists)),
		Data:    state,
	}
}

func fetchingTracksUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks: %s...", step, total, pl.Name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
