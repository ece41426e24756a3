package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist generator.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	return r.runTUI(ctx, cmd.String("user"), cmd.String("playlist"))
}

// Open launches the TUI from an app link such as "?user=alice&playlist=37i9dQZF1DXcBWIGoYBM5M".
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	link := cmd.StringArg("link")
	if link == "" {
		return fmt.Errorf("%w: link is required", shared.ErrMissingArgument)
	}
	username, playlistID := links.ParseAppLink(link)
	if username == "" && playlistID == "" {
		return fmt.Errorf("%w: link has no user or playlist", shared.ErrInvalidInput)
	}
	return r.runTUI(ctx, username, playlistID)
}

func (r *Runner) runTUI(ctx context.Context, username, playlist string) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	var playlistID string
	if playlist != "" {
		id, ok := links.ResolvePlaylist(playlist)
		if !ok {
			return fmt.Errorf("%w: %q", shared.ErrInvalidURL, playlist)
		}
		playlistID = id
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Options{
		API:             r.api,
		History:         r.optionalHistory(),
		Debounce:        r.config.Validation.Debounce(),
		Screen:          r.screen(),
		Opener:          r.opener,
		Clipboard:       r.clipboard,
		PollInterval:    r.config.Guide.PollInterval(),
		AutoSubmitDelay: r.config.Guide.AutoSubmitDelay(),
		Username:        username,
		PlaylistID:      playlistID,
		Logger:          fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
