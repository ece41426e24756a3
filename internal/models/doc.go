// Package models defines the wire types exchanged with the recommendation backend and the
// client-side records built from them.
//
// The package contains two categories of types:
//
// 1. Backend payloads, decoded as-is from JSON responses
//   - [Profile] : Public Spotify profile
//   - [Playlist] : Playlist summary as listed on a profile or in search results
//   - [Track] : Track as rendered in track lists and generated playlists
//   - [PlaylistInfo] : Result of validating a pasted playlist URL
//   - [PlaylistOwner] : Owner lookup used to jump from a playlist link to its profile
//   - [GeneratedPlaylist] : Opaque result of a generation request
//   - [APIError] : Body of every non-2xx response
//
// 2. History records, persisted locally through the history store
//   - [PlaylistHistoryItem] : Recently used playlist links, keyed by URL
//   - [UserHistoryItem] : Recently loaded profiles, keyed by username
//   - [SearchHistoryItem] : Recent profile searches, keyed by query
//
// Every history record implements [Keyed] so a single bounded store handles all three.
package models
