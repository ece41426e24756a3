package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/history"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyList is the kind-independent view of one history list.
type historyList struct {
	key    string
	items  func() any
	lines  func() []string
	remove func(key string) error
	clear  func() error
}

func (r *Runner) historyList(kind string) (*historyList, error) {
	set, err := r.historySet()
	if err != nil {
		return nil, err
	}

	switch kind {
	case "playlists", "playlist":
		s := set.Playlists
		return &historyList{
			key:   history.PlaylistKey,
			items: func() any { return s.Items() },
			lines: func() []string {
				var lines []string
				for _, item := range s.Items() {
					lines = append(lines, fmt.Sprintf("%s\n   %s", item.Name, item.URL))
				}
				return lines
			},
			remove: s.Remove,
			clear:  s.Clear,
		}, nil
	case "users", "user":
		s := set.Users
		return &historyList{
			key:   history.UserKey,
			items: func() any { return s.Items() },
			lines: func() []string {
				var lines []string
				for _, item := range s.Items() {
					name := item.DisplayName
					if name == "" {
						name = item.Username
					}
					lines = append(lines, fmt.Sprintf("%s (%s)", name, item.Username))
				}
				return lines
			},
			remove: s.Remove,
			clear:  s.Clear,
		}, nil
	case "searches", "search":
		s := set.Searches
		return &historyList{
			key:   history.SearchKey,
			items: func() any { return s.Items() },
			lines: func() []string {
				var lines []string
				for _, item := range s.Items() {
					lines = append(lines, item.Query)
				}
				return lines
			},
			remove: s.Remove,
			clear:  s.Clear,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown history kind %q (playlists, users, searches)", shared.ErrInvalidFlag, kind)
	}
}

// HistoryList prints one of the recent history lists, most recent first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.String("kind")
	list, err := r.historyList(kind)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(list.items(), true)
	}

	lines := list.lines()
	if len(lines) == 0 {
		return r.writePlain("No recent %s.\n", kind)
	}

	r.writePlainHeader("Recent " + kind)
	for i, line := range lines {
		r.writePlain("%d. %s\n", i+1, line)
	}
	if r.kv != nil {
		if at, ok, err := r.kv.UpdatedAt(list.key); err == nil && ok {
			r.writePlainln("Last updated %s", at.Local().Format(time.DateTime))
		}
	}
	return nil
}

// HistoryRemove drops one entry by key.
func (r *Runner) HistoryRemove(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	if key == "" {
		return fmt.Errorf("%w: key is required", shared.ErrMissingArgument)
	}

	list, err := r.historyList(cmd.String("kind"))
	if err != nil {
		return err
	}
	if err := list.remove(key); err != nil {
		return fmt.Errorf("failed to update history: %w", err)
	}

	r.logger.Info("removed history entry", "kind", cmd.String("kind"), "key", key)
	return r.writePlain("✓ Removed %s\n", key)
}

// HistoryClear empties one history list.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	list, err := r.historyList(cmd.String("kind"))
	if err != nil {
		return err
	}
	if err := list.clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return r.writePlain("✓ Cleared recent %s\n", cmd.String("kind"))
}
