// API service for the playlist recommendation backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/links"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "http://127.0.0.1:5000"
	apiPrefix          = "/api"
	defaultSearchLimit = 10
)

var _ Recommender = (*APIService)(nil)

// APIService talks JSON to the recommendation backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// APIOption configures an [APIService].
type APIOption func(*APIService)

// WithGenerationLimit caps generation requests per hour on the client side; zero disables the cap.
func WithGenerationLimit(perHour int) APIOption {
	return func(a *APIService) {
		if perHour <= 0 {
			a.limiter = nil
			return
		}
		a.limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) APIOption {
	return func(a *APIService) { a.logger = l }
}

// NewAPIService creates a new API service instance for the recommendation backend.
func NewAPIService(baseURL string, client *http.Client, opts ...APIOption) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    baseURL,
		httpClient: client,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	a.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// call sends a request and decodes a 2xx body into out.
//
// Transport failures and non-2xx responses become a [RequestError] of the given kind.
func (a *APIService) call(ctx context.Context, kind error, method, path string, payload, out any) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
		}
	}

	resp, err := a.do(ctx, method, apiPrefix+path, data)
	if err != nil {
		return &RequestError{Err: kind, cause: err}
	}

	if !resp.OK() {
		return newRequestError(kind, resp)
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Err: kind, cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// Health checks the backend.
func (a *APIService) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := a.call(ctx, shared.ErrServiceUnavailable, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile fetches a user's public profile.
func (a *APIService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrMissingInput)
	}

	var out models.Profile
	if err := a.call(ctx, shared.ErrLookupFailed, http.MethodGet, "/profile/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPlaylists fetches a user's public playlists.
func (a *APIService) GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrMissingInput)
	}

	var out models.PlaylistsResponse
	if err := a.call(ctx, shared.ErrLookupFailed, http.MethodGet, "/profile/"+url.PathEscape(username)+"/playlists", nil, &out); err != nil {
		return nil, err
	}
	return out.Playlists, nil
}

// GetPlaylistTracks fetches the tracks of an existing playlist.
func (a *APIService) GetPlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrMissingInput)
	}

	var out models.PlaylistTracks
	if err := a.call(ctx, shared.ErrLookupFailed, http.MethodGet, "/playlist/"+url.PathEscape(playlistID)+"/tracks", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidatePlaylist resolves a pasted playlist URL.
//
// Input that does not look like a playlist link fails with [shared.ErrInvalidURL] before any request is made.
func (a *APIService) ValidatePlaylist(ctx context.Context, playlistURL string) (*models.PlaylistInfo, error) {
	if !links.LooksLikePlaylist(playlistURL) {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidURL, playlistURL)
	}

	var out models.PlaylistInfo
	body := map[string]string{"playlist_url": playlistURL}
	if err := a.call(ctx, shared.ErrLookupFailed, http.MethodPost, "/playlist/validate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPlaylistOwner looks up who owns the playlist behind a URL.
func (a *APIService) GetPlaylistOwner(ctx context.Context, playlistURL string) (*models.PlaylistOwner, error) {
	if playlistURL == "" {
		return nil, fmt.Errorf("%w: playlist URL is required", shared.ErrMissingInput)
	}

	var out models.PlaylistOwner
	body := map[string]string{"playlist_url": playlistURL}
	if err := a.call(ctx, shared.ErrLookupFailed, http.MethodPost, "/playlist/owner", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPlaylists searches public playlists. A non-positive limit uses the backend default of 10.
func (a *APIService) SearchPlaylists(ctx context.Context, query string, limit int) (*models.SearchResults, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrMissingInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))

	var out models.SearchResults
	if err := a.call(ctx, shared.ErrLookupFailed, http.MethodGet, "/search/playlists?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateFromPlaylist asks the backend for a new playlist seeded by an existing one.
func (a *APIService) GenerateFromPlaylist(ctx context.Context, playlistID string) (*models.GeneratedPlaylist, error) {
	return a.generate(ctx, "/generate/from-playlist", map[string]string{"playlist_id": playlistID})
}

// GenerateFromText asks the backend for a new playlist matching a description.
func (a *APIService) GenerateFromText(ctx context.Context, description string) (*models.GeneratedPlaylist, error) {
	return a.generate(ctx, "/generate/from-text", map[string]string{"description": description})
}

func (a *APIService) generate(ctx context.Context, path string, payload map[string]string) (*models.GeneratedPlaylist, error) {
	if a.limiter != nil && !a.limiter.Allow() {
		return nil, fmt.Errorf("%w: try again later", shared.ErrRateLimited)
	}

	var out models.GeneratedPlaylist
	if err := a.call(ctx, shared.ErrGenerationFailed, http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestError is a failed backend call.
//
// Message carries the backend's human-readable message when the response had one.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error // kind: one of the shared sentinels
	cause      error
}

func newRequestError(kind error, resp *APIResponse) *RequestError {
	e := &RequestError{StatusCode: resp.StatusCode, Err: kind}

	var body models.APIError
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		e.Code = body.Error
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
	}
	return e
}

func (e *RequestError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.cause != nil:
		return fmt.Sprintf("%v: %v", e.Err, e.cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d", e.Err, e.StatusCode)
	default:
		return e.Err.Error()
	}
}

func (e *RequestError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

// Message returns the backend-supplied message carried by err, or fallback when there is none.
func Message(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
