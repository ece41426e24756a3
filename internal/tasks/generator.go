package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Status is the phase of a generation request.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	msgSelectPlaylist   = "Please select a playlist first"
	msgEnterDescription = "Please enter a description first"
	msgGenerateFailed   = "Failed to generate playlist"
)

// GenerationState is the observable state of a [Generator].
//
// Result is set only in success and Error only in error.
type GenerationState struct {
	Status Status
	Result *models.GeneratedPlaylist
	Error  string
}

// PlaylistGenerator produces playlists on the backend.
type PlaylistGenerator interface {
	GenerateFromPlaylist(ctx context.Context, playlistID string) (*models.GeneratedPlaylist, error)
	GenerateFromText(ctx context.Context, description string) (*models.GeneratedPlaylist, error)
}

// Generator drives generation requests through idle, loading, success and error.
type Generator struct {
	mu          sync.Mutex
	api         PlaylistGenerator
	selection   *Selection
	progress    chan<- ProgressUpdate
	logger      *log.Logger
	description string
	state       GenerationState
	inFlight    bool
	epoch       uint64 // bumped by Reset so a response that lands afterwards is dropped
}

// NewGenerator creates an idle [Generator] seeded from selection.
func NewGenerator(api PlaylistGenerator, selection *Selection, opts ...Option) *Generator {
	o := newOptions(opts)
	if selection == nil {
		selection = NewSelection()
	}
	return &Generator{
		api:       api,
		selection: selection,
		progress:  o.progress,
		logger:    o.logger,
		state:     GenerationState{Status: StatusIdle},
	}
}

// Selection returns the selection generation reads from.
func (g *Generator) Selection() *Selection {
	return g.selection
}

// State returns the current state.
func (g *Generator) State() GenerationState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// SetDescription sets the text used by [Generator.GenerateFromText].
func (g *Generator) SetDescription(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.description = text
}

// Description returns the current description.
func (g *Generator) Description() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.description
}

// GenerateFromPlaylist generates from the selected playlist.
//
// With nothing selected the state becomes an error and no request is made.
func (g *Generator) GenerateFromPlaylist(ctx context.Context) (GenerationState, error) {
	return g.generate(ctx, func() (string, string, bool) {
		sel := g.selection.Get()
		return sel.ID, msgSelectPlaylist, !sel.Empty()
	}, g.api.GenerateFromPlaylist)
}

// GenerateFromText generates from the description.
//
// A blank description makes the state an error and no request is made.
func (g *Generator) GenerateFromText(ctx context.Context) (GenerationState, error) {
	return g.generate(ctx, func() (string, string, bool) {
		return g.description, msgEnterDescription, strings.TrimSpace(g.description) != ""
	}, g.api.GenerateFromText)
}

// generate runs one request. input is called with g.mu held and returns the request argument,
// the guard message, and whether the guard passed.
func (g *Generator) generate(
	ctx context.Context,
	input func() (arg, guard string, ok bool),
	call func(context.Context, string) (*models.GeneratedPlaylist, error),
) (GenerationState, error) {
	g.mu.Lock()
	if g.inFlight {
		state := g.state
		g.mu.Unlock()
		return state, shared.ErrGenerationInFlight
	}

	arg, guard, ok := input()
	if !ok {
		g.setStateLocked(GenerationState{Status: StatusError, Error: guard})
		state := g.state
		g.mu.Unlock()
		return state, fmt.Errorf("%w: %s", shared.ErrMissingInput, guard)
	}

	g.inFlight = true
	epoch := g.epoch
	g.setStateLocked(GenerationState{Status: StatusLoading})
	g.mu.Unlock()

	result, err := call(ctx, arg)

	g.mu.Lock()
	defer g.mu.Unlock()

	if epoch != g.epoch {
		g.logger.Debug("discarding generation result after reset")
		return g.state, nil
	}
	g.inFlight = false

	if err != nil {
		g.logger.Error("generation failed", "error", err)
		g.setStateLocked(GenerationState{Status: StatusError, Error: errorMessage(err, msgGenerateFailed)})
		return g.state, err
	}

	g.setStateLocked(GenerationState{Status: StatusSuccess, Result: result})
	return g.state, nil
}

// Reset returns to idle and clears the selection and description.
//
// A request still in flight is not canceled, but its response will be ignored.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.epoch++
	g.inFlight = false
	g.description = ""
	g.selection.Clear()
	g.setStateLocked(GenerationState{Status: StatusIdle})
}

func (g *Generator) setStateLocked(state GenerationState) {
	g.state = state
	sendProgress(g.progress, generationUpdate(state))
}
