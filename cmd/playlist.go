package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// validatePlaylist runs a pasted link through the validator without waiting out the
// interactive debounce. The selection is filled on success.
func (r *Runner) validatePlaylist(ctx context.Context, input string, selection *tasks.Selection) (tasks.ValidationStatus, error) {
	if err := r.requireAPI(); err != nil {
		return tasks.ValidationStatus{}, err
	}
	if strings.TrimSpace(input) == "" {
		return tasks.ValidationStatus{Type: tasks.ValidationIdle}, fmt.Errorf("%w: playlist link is required", shared.ErrMissingArgument)
	}
	if !links.LooksLikePlaylist(input) {
		return tasks.ValidationStatus{}, fmt.Errorf("%w: %q", shared.ErrInvalidURL, input)
	}

	opts := []tasks.Option{tasks.WithLogger(r.logger), tasks.WithDebounce(time.Millisecond)}
	if set := r.optionalHistory(); set != nil {
		opts = append(opts, tasks.WithPlaylistHistory(set.Playlists))
	}

	validator := tasks.NewValidator(r.api, selection, opts...)
	validator.Submit(ctx, input)
	if err := validator.Wait(ctx); err != nil {
		return validator.Status(), err
	}

	status := validator.Status()
	if status.Type != tasks.ValidationSuccess {
		return status, fmt.Errorf("%w: %s", shared.ErrLookupFailed, status.Message)
	}
	return status, nil
}

// PlaylistValidate checks that a pasted playlist link resolves.
func (r *Runner) PlaylistValidate(ctx context.Context, cmd *cli.Command) error {
	selection := tasks.NewSelection()
	status, err := r.validatePlaylist(ctx, cmd.StringArg("url"), selection)
	if err != nil {
		return err
	}

	selected := selection.Get()
	if cmd.Bool("json") {
		return r.writeJSON(selected, cmd.Bool("pretty"))
	}

	r.writePlain("✓ %s\n", status.Message)
	r.writePlain("  ID: %s\n", selected.ID)
	if selected.ImageURL != "" {
		r.writePlain("  Cover: %s\n", selected.ImageURL)
	}
	return nil
}

// PlaylistTracks lists the tracks of a playlist given as a link or an ID.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	id, ok := links.ResolvePlaylist(cmd.StringArg("playlist"))
	if !ok {
		return fmt.Errorf("%w: expected a playlist link or ID", shared.ErrInvalidURL)
	}

	tracks, err := r.api.GetPlaylistTracks(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(tracks.Name)
	r.writePlain("Tracks: %d\n\n", len(tracks.Tracks))
	writeTracks(r, tracks.Tracks)
	return nil
}

// PlaylistOwner finds who owns a playlist and prints a link that opens both in the TUI.
func (r *Runner) PlaylistOwner(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	url := cmd.StringArg("url")
	if !links.LooksLikePlaylist(url) {
		return fmt.Errorf("%w: %q", shared.ErrInvalidURL, url)
	}

	owner, err := r.api.GetPlaylistOwner(ctx, url)
	if err != nil {
		return err
	}

	if set := r.optionalHistory(); set != nil {
		item := models.PlaylistHistoryItem{URL: url, Name: owner.PlaylistName, PlaylistID: owner.PlaylistID}
		if err := set.Playlists.Push(item); err != nil {
			r.logger.Warn("failed to record playlist history", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(owner, cmd.Bool("pretty"))
	}

	name := owner.DisplayName
	if name == "" {
		name = owner.Username
	}
	r.writePlain("Playlist: %s\n", owner.PlaylistName)
	r.writePlain("Owner: %s (%s)\n", name, owner.Username)
	r.writePlain("Profile: %s\n", links.ProfileURL(owner.Username))
	r.writePlain("Open: mixtape open '%s'\n", links.AppLink(owner.Username, owner.PlaylistID))
	return nil
}

// PlaylistSearch searches public playlists and records the query.
func (r *Runner) PlaylistSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	results, err := r.api.SearchPlaylists(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if set := r.optionalHistory(); set != nil {
		if err := set.Searches.Push(models.SearchHistoryItem{Query: query}); err != nil {
			r.logger.Warn("failed to record search history", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if len(results.Playlists) == 0 {
		return r.writePlain("No playlists found for %q\n", query)
	}
	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	for i, pl := range results.Playlists {
		r.writePlain("%d. %s (%s)\n", i+1, pl.Name, shared.Pluralize(pl.TracksTotal, "track"))
		r.writePlain("   %s\n", links.PlaylistURL(pl.ID))
	}
	return nil
}

func writeTracks(r *Runner, tracks []models.Track) {
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Name)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
	}
}
