package tasks

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/history"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
)

// DefaultDebounce is the quiet period before a pasted URL is validated.
const DefaultDebounce = 800 * time.Millisecond

// Option configures a task component.
type Option func(*options)

type options struct {
	progress  chan<- ProgressUpdate
	logger    *log.Logger
	debounce  time.Duration
	playlists *history.Store[models.PlaylistHistoryItem]
	users     *history.Store[models.UserHistoryItem]
}

func newOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard), debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithProgress publishes state changes on ch without blocking.
func WithProgress(ch chan<- ProgressUpdate) Option {
	return func(o *options) { o.progress = ch }
}

// WithLogger sets the component logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDebounce overrides [DefaultDebounce]. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithPlaylistHistory records successfully validated playlists.
func WithPlaylistHistory(s *history.Store[models.PlaylistHistoryItem]) Option {
	return func(o *options) { o.playlists = s }
}

// WithUserHistory records successfully loaded profiles.
func WithUserHistory(s *history.Store[models.UserHistoryItem]) Option {
	return func(o *options) { o.users = s }
}

// errorMessage picks the text shown for a failed call: the backend's message, the local reason
// for a client-side refusal, or fallback.
func errorMessage(err error, fallback string) string {
	if errors.Is(err, shared.ErrRateLimited) || errors.Is(err, shared.ErrInvalidURL) {
		return err.Error()
	}
	return services.Message(err, fallback)
}
