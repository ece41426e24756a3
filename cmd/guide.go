package main

import (
	"context"
	"time"

	"github.com/desertthunder/mixtape/internal/guide"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultGuideTimeout = 5 * time.Minute

// watchGuide opens target beside the terminal and waits for a matching link on the clipboard.
func (r *Runner) watchGuide(ctx context.Context, target guide.Target, timeout time.Duration) (string, error) {
	cfg := target.Config(r.screen(), r.opener, r.clipboard, nil)
	cfg.Logger = r.logger
	flow := guide.New(cfg)

	r.writePlainHeader(target.Title)
	r.writePlain("%s\n\n", target.Subtitle)
	for i, step := range target.Steps {
		r.writePlain("%d. %s\n   %s\n", i+1, step.Title, step.Description)
	}
	if target.Tip != "" {
		r.writePlainln("Tip: %s", target.Tip)
	}

	if err := flow.Open(); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		r.writePlain("\nOpen this page in your browser: %s\n", target.URL)
	}
	defer flow.Close()

	interval := r.config.Guide.PollInterval()
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = defaultGuideTimeout
	}

	r.writePlain("\n→ Waiting for a copied link (%s timeout)...\n", timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := flow.Watch(ctx, interval)
	if err != nil {
		return "", err
	}
	r.writePlain("✓ Detected %s\n", text)
	return text, nil
}

// GuidePlaylist finds a playlist link in Spotify and validates it.
func (r *Runner) GuidePlaylist(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	text, err := r.watchGuide(ctx, guide.PlaylistTarget(cmd.String("user")), cmd.Duration("timeout"))
	if err != nil {
		return err
	}

	status, err := r.validatePlaylist(ctx, text, nil)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", status.Message)
}

// GuideProfile finds a profile link in Spotify and loads it.
func (r *Runner) GuideProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	text, err := r.watchGuide(ctx, guide.ProfileTarget(), cmd.Duration("timeout"))
	if err != nil {
		return err
	}

	state, err := r.loadProfile(ctx, text)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Loaded %s (%s)\n", displayName(state.Profile, state.Username),
		shared.Pluralize(len(state.Playlists), "public playlist"))
}
