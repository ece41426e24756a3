package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/history"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
)

// ValidationType is the phase of a playlist URL check.
type ValidationType string

const (
	ValidationIdle    ValidationType = "idle"
	ValidationLoading ValidationType = "loading"
	ValidationSuccess ValidationType = "success"
	ValidationError   ValidationType = "error"
)

const (
	msgInvalidPlaylistURL = "Please enter a valid Spotify playlist URL"
	msgChecking           = "Checking..."
	msgCouldNotAccess     = "Could not access playlist"
)

// ValidationStatus is what the URL field shows.
type ValidationStatus struct {
	Type     ValidationType
	Message  string
	ImageURL string
	Token    uint64 // token of the submission this status belongs to
}

// PlaylistValidator resolves a pasted playlist URL.
type PlaylistValidator interface {
	ValidatePlaylist(ctx context.Context, url string) (*models.PlaylistInfo, error)
}

// Validator checks pasted playlist URLs against the backend once input settles.
//
// Each Submit supersedes the previous one: its timer is stopped, its in-flight request is
// canceled, and any response it still produces is discarded by token.
type Validator struct {
	mu        sync.Mutex
	api       PlaylistValidator
	selection *Selection
	debounce  time.Duration
	progress  chan<- ProgressUpdate
	playlists *history.Store[models.PlaylistHistoryItem]
	logger    *log.Logger

	token  uint64
	timer  *time.Timer
	cancel context.CancelFunc
	status ValidationStatus
	done   chan struct{}
}

// NewValidator creates a [Validator] that writes successful lookups into selection.
func NewValidator(api PlaylistValidator, selection *Selection, opts ...Option) *Validator {
	o := newOptions(opts)
	if selection == nil {
		selection = NewSelection()
	}
	return &Validator{
		api:       api,
		selection: selection,
		debounce:  o.debounce,
		progress:  o.progress,
		playlists: o.playlists,
		logger:    o.logger,
		status:    ValidationStatus{Type: ValidationIdle},
	}
}

// Submit records new input and returns the status to show immediately.
//
// Blank input is idle and input that is not a playlist link is an error; neither reaches the
// network. Anything else is loading until the debounced lookup completes.
func (v *Validator) Submit(ctx context.Context, input string) ValidationStatus {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopLocked()
	v.token++
	token := v.token
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		v.setStatusLocked(ValidationStatus{Type: ValidationIdle, Token: token})
	case !links.LooksLikePlaylist(input):
		v.setStatusLocked(ValidationStatus{Type: ValidationError, Message: msgInvalidPlaylistURL, Token: token})
	default:
		v.setStatusLocked(ValidationStatus{Type: ValidationLoading, Message: msgChecking, Token: token})

		reqCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		v.cancel = cancel
		v.done = done
		v.timer = time.AfterFunc(v.debounce, func() {
			defer close(done)
			v.run(reqCtx, token, input)
		})
	}
	return v.status
}

// Clear cancels any pending lookup, resets the status, and drops the selection.
func (v *Validator) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stopLocked()
	v.token++
	v.selection.Clear()
	v.setStatusLocked(ValidationStatus{Type: ValidationIdle, Token: v.token})
}

// Status returns the latest status.
func (v *Validator) Status() ValidationStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Token returns the token of the latest submission.
func (v *Validator) Token() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token
}

// Wait blocks until the lookup scheduled by the latest submission has finished, or ctx is done.
// It returns immediately when nothing is scheduled.
func (v *Validator) Wait(ctx context.Context) error {
	v.mu.Lock()
	done := v.done
	v.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stopLocked stops the pending timer and cancels the in-flight request.
func (v *Validator) stopLocked() {
	if v.timer != nil {
		if v.timer.Stop() && v.done != nil {
			close(v.done)
		}
		v.timer = nil
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.done = nil
}

func (v *Validator) run(ctx context.Context, token uint64, input string) {
	v.mu.Lock()
	current := v.token
	v.mu.Unlock()
	if token != current {
		return
	}

	info, err := v.api.ValidatePlaylist(ctx, input)

	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.token {
		v.logger.Debug("discarding stale validation", "token", token, "latest", v.token)
		return
	}
	v.timer = nil
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	if err != nil {
		v.logger.Debug("playlist validation failed", "url", input, "error", err)
		v.selection.Clear()
		v.setStatusLocked(ValidationStatus{
			Type:    ValidationError,
			Message: errorMessage(err, msgCouldNotAccess),
			Token:   token,
		})
		return
	}

	imageURL := models.FirstImageURL(info.Images)
	v.selection.Set(SelectedPlaylist{
		ID:       info.PlaylistID,
		Name:     info.PlaylistName,
		URL:      input,
		ImageURL: imageURL,
		Source:   SourceURL,
	})
	v.setStatusLocked(ValidationStatus{
		Type:     ValidationSuccess,
		Message:  fmt.Sprintf("Found: %s (%d tracks)", info.PlaylistName, info.TracksTotal),
		ImageURL: imageURL,
		Token:    token,
	})

	if v.playlists != nil {
		item := models.PlaylistHistoryItem{URL: input, Name: info.PlaylistName, PlaylistID: info.PlaylistID}
		if err := v.playlists.Push(item); err != nil {
			v.logger.Warn("failed to record playlist history", "error", err)
		}
	}
}

func (v *Validator) setStatusLocked(status ValidationStatus) {
	v.status = status
	sendProgress(v.progress, validationUpdate(status))
}
