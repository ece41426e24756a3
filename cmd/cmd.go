// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true}
}

func formatFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   usage + " (" + formatNames() + ")",
	}
}

func formatNames() string {
	names := ""
	for i, f := range formatter.Formats {
		if i > 0 {
			names += ", "
		}
		names += string(f)
	}
	return names
}

// setupCommand writes a config file and initialises the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// healthCommand checks the backend.
func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the recommendation backend is reachable",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Health,
	}
}

// profileCommand handles public profile lookups
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Aliases: []string{"user"},
		Usage:   "Public Spotify profile operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a profile",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user"}},
				Flags:     []cli.Flag{jsonFlag(), prettyFlag()},
				Action:    r.ProfileShow,
			},
			{
				Name:      "playlists",
				Usage:     "List a profile's public playlists",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user"}},
				Flags:     []cli.Flag{jsonFlag(), prettyFlag()},
				Action:    r.ProfilePlaylists,
			},
			{
				Name:      "export",
				Usage:     "Export the tracks of every public playlist on a profile",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user"}},
				Flags: []cli.Flag{
					formatFlag("Export format"),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: mixtape_export_<timestamp>)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent writers",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "rate",
						Usage: "Track lookups per second",
						Value: 5,
					},
				},
				Action: r.ProfileExport,
			},
		},
	}
}

// playlistCommand handles existing playlist lookups
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Existing playlist operations",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check that a pasted playlist link can be used",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags:     []cli.Flag{jsonFlag(), prettyFlag()},
				Action:    r.PlaylistValidate,
			},
			{
				Name:      "tracks",
				Usage:     "List the tracks of a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "playlist"}},
				Flags:     []cli.Flag{jsonFlag(), prettyFlag()},
				Action:    r.PlaylistTracks,
			},
			{
				Name:      "owner",
				Usage:     "Find the profile that owns a playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags:     []cli.Flag{jsonFlag(), prettyFlag()},
				Action:    r.PlaylistOwner,
			},
			{
				Name:      "search",
				Usage:     "Search public playlists",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.PlaylistSearch,
			},
		},
	}
}

// generateCommand handles playlist generation
func generateCommand(r *Runner) *cli.Command {
	flags := func() []cli.Flag {
		return []cli.Flag{
			formatFlag("Save the result in this format"),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path for --format (file, base name for csv, directory for markdown)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the generated playlist in the browser",
			},
			jsonFlag(),
		}
	}

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a new playlist",
		Commands: []*cli.Command{
			{
				Name:      "playlist",
				Usage:     "Generate from an existing playlist (link or ID)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "playlist"}},
				Flags:     flags(),
				Action:    r.GeneratePlaylist,
			},
			{
				Name:      "text",
				Usage:     "Generate from a description",
				ArgsUsage: "<description>",
				Flags:     flags(),
				Action:    r.GenerateText,
			},
		},
	}
}

// historyCommand manages the recent history lists
func historyCommand(r *Runner) *cli.Command {
	kind := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Usage:   "History list: playlists, users or searches",
			Value:   "playlists",
		}
	}

	return &cli.Command{
		Name:  "history",
		Usage: "Recently used playlists, profiles and searches",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show a history list",
				Flags:  []cli.Flag{kind(), jsonFlag()},
				Action: r.HistoryList,
			},
			{
				Name:      "remove",
				Usage:     "Remove one entry (by URL, username or query)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "key"}},
				Flags:     []cli.Flag{kind()},
				Action:    r.HistoryRemove,
			},
			{
				Name:   "clear",
				Usage:  "Clear a history list",
				Flags:  []cli.Flag{kind()},
				Action: r.HistoryClear,
			},
		},
	}
}

// guideCommand runs the find-it-in-Spotify flows from the command line
func guideCommand(r *Runner) *cli.Command {
	timeout := func() cli.Flag {
		return &cli.DurationFlag{
			Name:  "timeout",
			Usage: "Give up waiting for a copied link after this long",
			Value: defaultGuideTimeout,
		}
	}

	return &cli.Command{
		Name:  "guide",
		Usage: "Open Spotify and pick up a copied link from the clipboard",
		Commands: []*cli.Command{
			{
				Name:  "playlist",
				Usage: "Find a playlist link",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Start from this user's playlists",
					},
					timeout(),
				},
				Action: r.GuidePlaylist,
			},
			{
				Name:   "profile",
				Usage:  "Find a profile link",
				Flags:  []cli.Flag{timeout()},
				Action: r.GuideProfile,
			},
		},
	}
}

// openCommand launches the TUI from an app link
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open the TUI from a link carrying ?user= and ?playlist=",
		Arguments: []cli.Argument{&cli.StringArg{Name: "link"}},
		Action:    r.Open,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist generator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Load this profile on start",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Select this playlist on start",
			},
		},
		Action: r.TUI,
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the recommendation backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
