package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors, detected locally before any request is made
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidURL      = fmt.Errorf("invalid Spotify playlist URL")
	ErrMissingInput    = fmt.Errorf("missing input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// API and backend errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrLookupFailed       = fmt.Errorf("lookup failed")
	ErrGenerationFailed   = fmt.Errorf("generation failed")
	ErrGenerationInFlight = fmt.Errorf("generation already in progress")
	ErrRateLimited        = fmt.Errorf("generation rate limit reached")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Platform errors
	ErrClipboardUnavailable = fmt.Errorf("clipboard unavailable")
	ErrNoInputDetected      = fmt.Errorf("no input detected")
)
