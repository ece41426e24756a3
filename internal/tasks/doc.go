// Package tasks holds the client-side state machines that sit between the terminal UI / CLI and
// the recommendation backend.
//
// # Components
//
//  1. [Selection] : the playlist chosen for generation, with its source (pasted URL or profile list)
//
//  2. [Validator] : debounced playlist URL validation
//     - Submit sets an immediate status (idle, error hint, or "Checking...")
//     - the request is issued once input has been quiet for the debounce period
//     - every scheduled request carries a token; a response is applied only if its token is
//     still the latest, so a slow earlier lookup can never overwrite a newer one
//
//  3. [Generator] : idle → loading → success | error for both generation modes, with guards
//     that fail locally (no request) when there is no selection or description, and at most
//     one generation in flight
//
//  4. [UserLoader] : loads a profile and its playlists in parallel
//
//  5. [Exporter] : exports many playlists concurrently through a rate-limited worker pool
//
// # Progress Reporting
//
// Components publish [ProgressUpdate] values on an optional channel. Sends use select with
// default so a slow or absent reader never blocks a state transition.
package tasks
