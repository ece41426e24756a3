// Package services implements the HTTP client for the playlist recommendation backend.
//
// # Recommender Interface
//
// [Recommender] lists every backend endpoint the client consumes. Callers in tasks and ui
// depend on narrower interfaces so tests can substitute fakes.
//
// # API Implementation
//
// [APIService] sends and accepts JSON under the /api prefix. Every request carries an
// X-Request-ID header so backend logs can be correlated with client logs.
//
// Generation requests pass through a client-side [rate.Limiter] mirroring the backend quota;
// when it is exhausted the call fails fast with [shared.ErrRateLimited].
//
// # Error Handling
//
// Non-2xx responses are decoded as {error, message} and returned as a [RequestError] whose kind is one of:
//   - [shared.ErrLookupFailed] : profile, playlist, validation, owner and search lookups
//   - [shared.ErrGenerationFailed] : generation endpoints
//   - [shared.ErrServiceUnavailable] : health check
//
// [Message] extracts the backend message for display, falling back to a caller-supplied string.
// Input that fails local checks (for example a pasted link that is not a playlist) returns
// [shared.ErrInvalidURL] or [shared.ErrMissingInput] without a request.
package services
