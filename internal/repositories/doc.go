// Package repositories implements SQLite persistence for local client state.
//
// The client keeps nothing but small JSON documents (recent playlists, profiles and searches),
// so persistence is a single key/value table managed by the embedded migrations in
// [github.com/desertthunder/mixtape/internal/shared].
//
// Key Implementations:
//   - [KVRepository] : upsert/read/delete of JSON documents by key; satisfies history.Storage
package repositories
