package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/history"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	msgLoadProfileFailed   = "Failed to load profile"
	msgLoadPlaylistsFailed = "Failed to load playlists"
)

// ProfileSource fetches public profile data.
type ProfileSource interface {
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
	GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error)
}

// UserState is a snapshot of a [UserLoader].
type UserState struct {
	Username  string
	Profile   *models.Profile
	Playlists []models.Playlist
	Loading   bool
	Error     string
}

// UserLoader loads a profile together with its playlists.
type UserLoader struct {
	mu       sync.Mutex
	api      ProfileSource
	users    *history.Store[models.UserHistoryItem]
	progress chan<- ProgressUpdate
	logger   *log.Logger
	state    UserState
}

func NewUserLoader(api ProfileSource, opts ...Option) *UserLoader {
	o := newOptions(opts)
	return &UserLoader{api: api, users: o.users, progress: o.progress, logger: o.logger}
}

// State returns a snapshot.
func (l *UserLoader) State() UserState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load resolves input (a profile link or a username) and fetches the profile and its playlists
// in parallel. On failure the previous profile is kept but the username is cleared.
func (l *UserLoader) Load(ctx context.Context, input string) (UserState, error) {
	username, ok := links.ResolveUser(input)
	if !ok {
		return l.State(), fmt.Errorf("%w: %q is not a Spotify username or profile link", shared.ErrInvalidInput, input)
	}

	l.mu.Lock()
	l.state.Loading = true
	l.state.Error = ""
	l.state.Username = username
	l.mu.Unlock()
	sendProgress(l.progress, loadingProfileUpdate(username))

	var (
		profile   *models.Profile
		playlists []models.Playlist
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = l.api.GetProfile(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		playlists, err = l.api.GetPlaylists(gctx, username)
		return err
	})
	err := g.Wait()

	l.mu.Lock()
	l.state.Loading = false
	if err != nil {
		l.state.Error = errorMessage(err, msgLoadProfileFailed)
		l.state.Username = ""
		state := l.state
		l.mu.Unlock()

		l.logger.Warn("failed to load profile", "username", username, "error", err)
		sendProgress(l.progress, loadFailedUpdate(LoadProfile, state))
		return state, err
	}
	l.state.Profile = profile
	l.state.Playlists = playlists
	state := l.state
	l.mu.Unlock()

	if l.users != nil {
		item := models.UserHistoryItem{Username: username}
		if profile != nil {
			item.DisplayName = profile.DisplayName
		}
		if err := l.users.Push(item); err != nil {
			l.logger.Warn("failed to record user history", "error", err)
		}
	}

	sendProgress(l.progress, loadedProfileUpdate(state))
	return state, nil
}

// Refresh refetches the playlists of the loaded user. It does nothing when no user is loaded.
func (l *UserLoader) Refresh(ctx context.Context) (UserState, error) {
	l.mu.Lock()
	username := l.state.Username
	if username == "" {
		state := l.state
		l.mu.Unlock()
		return state, nil
	}
	l.state.Loading = true
	l.state.Error = ""
	l.mu.Unlock()

	playlists, err := l.api.GetPlaylists(ctx, username)

	l.mu.Lock()
	l.state.Loading = false
	if err != nil {
		l.state.Error = errorMessage(err, msgLoadPlaylistsFailed)
		state := l.state
		l.mu.Unlock()
		sendProgress(l.progress, loadFailedUpdate(LoadPlaylists, state))
		return state, err
	}
	l.state.Playlists = playlists
	state := l.state
	l.mu.Unlock()

	sendProgress(l.progress, refreshedPlaylistsUpdate(state))
	return state, nil
}

// Clear forgets the loaded user.
func (l *UserLoader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = UserState{}
}
