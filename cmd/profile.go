package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// loadProfile resolves input and loads the profile with its playlists, recording it in history.
func (r *Runner) loadProfile(ctx context.Context, input string) (tasks.UserState, error) {
	if err := r.requireAPI(); err != nil {
		return tasks.UserState{}, err
	}
	if input == "" {
		return tasks.UserState{}, fmt.Errorf("%w: username or profile link is required", shared.ErrMissingArgument)
	}

	opts := []tasks.Option{tasks.WithLogger(r.logger)}
	if set := r.optionalHistory(); set != nil {
		opts = append(opts, tasks.WithUserHistory(set.Users))
	}

	loader := tasks.NewUserLoader(r.api, opts...)
	state, err := loader.Load(ctx, input)
	if err != nil {
		return state, failure(state.Error, err)
	}
	return state, nil
}

// ProfileShow prints a public profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	state, err := r.loadProfile(ctx, cmd.StringArg("user"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(state.Profile, cmd.Bool("pretty"))
	}

	p := state.Profile
	r.writePlainHeader(displayName(p, state.Username))
	r.writePlain("Username: %s\n", state.Username)
	r.writePlain("Profile: %s\n", links.ProfileURL(state.Username))
	if img := models.FirstImageURL(p.Images); img != "" {
		r.writePlain("Image: %s\n", img)
	}
	r.writePlain("Public playlists: %d\n", len(state.Playlists))
	return nil
}

// ProfilePlaylists lists the public playlists of a profile.
func (r *Runner) ProfilePlaylists(ctx context.Context, cmd *cli.Command) error {
	state, err := r.loadProfile(ctx, cmd.StringArg("user"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(state.Playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s's playlists", displayName(state.Profile, state.Username)))
	if len(state.Playlists) == 0 {
		return r.writePlain("No public playlists.\n")
	}
	for i, pl := range state.Playlists {
		r.writePlain("%d. %s (%s)\n", i+1, pl.Name, shared.Pluralize(pl.TracksTotal, "track"))
		r.writePlain("   %s\n", links.PlaylistURL(pl.ID))
	}
	return nil
}

// ProfileExport writes the tracks of every public playlist on a profile to disk.
func (r *Runner) ProfileExport(ctx context.Context, cmd *cli.Command) error {
	format := formatter.FormatJSON
	if value := cmd.String("format"); value != "" {
		var err error
		if format, err = formatter.ParseFormat(value); err != nil {
			return err
		}
	}

	state, err := r.loadProfile(ctx, cmd.StringArg("user"))
	if err != nil {
		return err
	}
	if len(state.Playlists) == 0 {
		return r.writePlain("No public playlists to export.\n")
	}

	r.logger.Info("exporting playlists", "user", state.Username, "count", len(state.Playlists), "format", format)

	progress := make(chan tasks.ProgressUpdate, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			switch update.Phase {
			case tasks.FetchTracks:
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
			case tasks.ExportPlaylist:
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	exporter := tasks.NewExporter(r.api, tasks.WithProgress(progress), tasks.WithLogger(r.logger))
	result, err := exporter.BulkExport(ctx, state.Playlists, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  float64(cmd.Int("rate")),
	})
	close(progress)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("⚠ %d failed, see %s\n", result.FailedExports, result.ManifestPath)
	}
	return nil
}

func displayName(p *models.Profile, username string) string {
	if p != nil && p.DisplayName != "" {
		return p.DisplayName
	}
	return username
}
