// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through one generation:
//  1. [InputView] : paste a playlist link (validated as you type) or describe a playlist in text
//  2. [UserView] : load a Spotify profile to pick from its public playlists
//  3. [PlaylistListView] : browse and select one of the profile's playlists
//  4. [GuideView] : open Spotify beside the terminal and pick up a copied link from the clipboard
//  5. [GeneratingView] : wait on the backend
//  6. [ResultView] : the generated playlist, with open/export/reset actions
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Validation, generation and profile loading publish state through one progress channel, which the
// model drains with a blocking command so updates arrive as ordinary messages.
//
// Terminal focus events stand in for browser page visibility: regaining focus while a guide is
// open checks the clipboard.
package ui
