package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/time/rate"
)

// TrackSource fetches the tracks of a playlist.
type TrackSource interface {
	GetPlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error)
}

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Base output directory (default: mixtape_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 5, max: 10)
	RateLimit  float64          // Track requests per second (default: 5)
}

// PlaylistExportResult is the outcome for one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	playlist models.Playlist
	tracks   *models.PlaylistTracks
}

// Exporter writes playlists and their tracks to disk.
type Exporter struct {
	api      TrackSource
	progress chan<- ProgressUpdate
	logger   *log.Logger
}

func NewExporter(api TrackSource, opts ...Option) *Exporter {
	o := newOptions(opts)
	return &Exporter{api: api, progress: o.progress, logger: o.logger}
}

// BulkExport exports playlists concurrently with rate limiting and progress tracking.
//
// A single producer fetches track listings through the limiter and hands them to a pool of
// writers. Failures are recorded per playlist; the manifest lists every outcome.
func (e *Exporter) BulkExport(ctx context.Context, playlists []models.Playlist, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("mixtape_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(playlists)
	result := &BulkExportResult{
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, total)
	results := make(chan PlaylistExportResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, pl := range playlists {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(e.progress, fetchingTracksUpdate(i+1, total, pl))
			tracks, err := e.api.GetPlaylistTracks(ctx, pl.ID)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   pl.ID,
					PlaylistName: pl.Name,
					Error:        fmt.Sprintf("failed to fetch tracks: %v", err),
				}
				continue
			}
			jobs <- exportJob{playlist: pl, tracks: tracks}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(e.progress, exportCompletedUpdate(completed, total, res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("playlist export failed", "playlist", res.PlaylistID, "error", res.Error)
			sendProgress(e.progress, exportFailedUpdate(completed, total, res.PlaylistName, fmt.Errorf("%s", res.Error)))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err == nil {
		err = os.WriteFile(manifestPath, data, 0644)
	}
	if err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes playlists from the jobs channel until it is closed.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes one playlist in the configured format.
func (e *Exporter) exportSinglePlaylist(j exportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.playlist.ID,
		PlaylistName: j.playlist.Name,
	}

	export := formatter.FromPlaylist(j.playlist, j.tracks)
	if result.PlaylistName == "" {
		result.PlaylistName = export.Name
	}

	var target string
	switch opts.Format {
	case formatter.FormatCSV:
		target = filepath.Join(opts.OutputDir, j.playlist.ID)
	case formatter.FormatMarkdown:
		target = filepath.Join(opts.OutputDir, j.playlist.ID)
	case formatter.FormatText:
		target = filepath.Join(opts.OutputDir, j.playlist.ID+"_tracks.txt")
	default:
		target = filepath.Join(opts.OutputDir, j.playlist.ID+".json")
	}

	files, err := formatter.Write(export, opts.Format, target)
	if err != nil {
		result.Error = fmt.Sprintf("%s export failed: %v", opts.Format, err)
		return result
	}
	result.Files = files
	result.Success = true
	return result
}
