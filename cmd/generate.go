package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GeneratePlaylist generates a playlist seeded by an existing one.
//
// Links are validated first, so they land in the playlist history; bare IDs are used as-is.
func (r *Runner) GeneratePlaylist(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	input := strings.TrimSpace(cmd.StringArg("playlist"))
	selection := tasks.NewSelection()

	switch {
	case links.LooksLikePlaylist(input):
		status, err := r.validatePlaylist(ctx, input, selection)
		if err != nil {
			return err
		}
		r.logger.Info(status.Message)
	case input != "":
		id, ok := links.ResolvePlaylist(input)
		if !ok {
			return fmt.Errorf("%w: %q", shared.ErrInvalidURL, input)
		}
		selection.Set(tasks.SelectedPlaylist{ID: id, URL: links.PlaylistURL(id), Source: tasks.SourceURL})
	}

	generator := tasks.NewGenerator(r.api, selection, tasks.WithLogger(r.logger))
	state, err := generator.GenerateFromPlaylist(ctx)
	if err != nil {
		return failure(state.Error, err)
	}
	return r.writeGenerated(cmd, state.Result, format)
}

// GenerateText generates a playlist from a description given as the remaining arguments.
func (r *Runner) GenerateText(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	generator := tasks.NewGenerator(r.api, nil, tasks.WithLogger(r.logger))
	generator.SetDescription(strings.Join(cmd.Args().Slice(), " "))

	state, err := generator.GenerateFromText(ctx)
	if err != nil {
		return failure(state.Error, err)
	}
	return r.writeGenerated(cmd, state.Result, format)
}

func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	value := cmd.String("format")
	if value == "" {
		return "", nil
	}
	return formatter.ParseFormat(value)
}

// writeGenerated prints, saves and optionally opens a generation result.
func (r *Runner) writeGenerated(cmd *cli.Command, result *models.GeneratedPlaylist, format formatter.Format) error {
	if result == nil {
		return fmt.Errorf("%w: empty response", shared.ErrGenerationFailed)
	}

	switch {
	case format != "":
		files, err := formatter.Write(formatter.FromGenerated(result), format, cmd.String("output"))
		if err != nil {
			return fmt.Errorf("failed to save playlist: %w", err)
		}
		r.logger.Info("playlist saved", "format", format, "files", len(files))
		r.writePlain("✓ Generated %s (%s)\n", result.Title, shared.Pluralize(len(result.Tracks), "track"))
		for _, f := range files {
			r.writePlain("  Saved: %s\n", f)
		}
	case cmd.Bool("json"):
		if err := r.writeJSON(result, true); err != nil {
			return err
		}
	default:
		r.writePlainHeader(result.Title)
		if result.Description != "" {
			r.writePlain("%s\n", result.Description)
		}
		r.writePlain("Open in Spotify: %s\n\n", result.PlaylistURL)
		writeTracks(r, result.Tracks)
		if len(result.NotFound) > 0 {
			r.writePlainln("Not found on Spotify (%d):", len(result.NotFound))
			for _, song := range result.NotFound {
				r.writePlain("  • %s\n", song)
			}
		}
	}

	if cmd.Bool("open") && result.PlaylistURL != "" {
		if err := shared.OpenBrowser(result.PlaylistURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Open this link in your browser: %s\n", result.PlaylistURL)
		}
	}
	return nil
}

// failure attaches the user-facing message to err unless err already says it.
func failure(message string, err error) error {
	if message == "" || message == err.Error() {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}
