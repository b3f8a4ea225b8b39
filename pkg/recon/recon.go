package recon

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"instarecon/pkg/config"
	"instarecon/pkg/errors"
	"instarecon/pkg/instagram"
	"instarecon/pkg/logger"
	"instarecon/pkg/ratelimit"
	"instarecon/pkg/report"
	"instarecon/pkg/storage"
	"instarecon/pkg/ui"

	"github.com/google/uuid"
)

// Recon runs the fetch, extract and render pipeline for one or more targets
type Recon struct {
	config      *config.Config
	fetcher     Fetcher
	pacer       ratelimit.Limiter
	term        *ui.Terminal
	out         io.Writer
	consoleOpts []report.ConsoleOption
	logger      logger.Logger
	now         func() time.Time
}

// Option configures a Recon
type Option func(*Recon)

// WithLimiter replaces the inter-target pacer
func WithLimiter(l ratelimit.Limiter) Option {
	return func(r *Recon) { r.pacer = l }
}

// WithTerminal sets where status lines and console reports go
func WithTerminal(t *ui.Terminal) Option {
	return func(r *Recon) {
		r.term = t
		r.out = t.Writer()
	}
}

// WithNoColor disables styling in the console report
func WithNoColor() Option {
	return func(r *Recon) { r.consoleOpts = append(r.consoleOpts, report.WithNoColor()) }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(r *Recon) { r.logger = l }
}

// WithClock sets the time source used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Recon) { r.now = now }
}

// New creates a Recon. Without options it paces batches with cfg.Batch.Delay
// and prints to stdout.
func New(cfg *config.Config, fetcher Fetcher, opts ...Option) *Recon {
	r := &Recon{
		config:  cfg,
		fetcher: fetcher,
		pacer:   ratelimit.NewFixedDelay(cfg.Batch.Delay),
		out:     os.Stdout,
		logger:  logger.GetLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.term == nil {
		r.term = ui.NewTerminal(r.out, false)
	}
	return r
}

// Result lists what was produced for one target
type Result struct {
	Username    string
	OutputDir   string
	PicturePath string
	JSONPath    string
	HTMLPath    string
	Profile     *instagram.Profile
}

// Run processes a single target. A fetch or JSON failure aborts the target
// before anything else is written; a picture failure is only logged; an
// HTML failure is logged and returned alongside the partial Result.
func (r *Recon) Run(ctx context.Context, username string) (*Result, error) {
	username = instagram.SanitizeUsername(username)
	if username == "" {
		err := errors.New(errors.ErrorTypeInput, 0, "empty username")
		r.term.PrintError("Skipping empty username")
		return nil, err
	}
	if !instagram.IsValidUsername(username) {
		err := errors.New(errors.ErrorTypeInput, 0, "invalid username %q", username)
		r.term.PrintError(fmt.Sprintf("Skipping '%s': not a valid Instagram username", username))
		logger.LogTarget(r.logger, username, err)
		return nil, err
	}

	r.term.PrintStatus(fmt.Sprintf("Fetching data for %s...", username))
	profile, err := r.fetcher.FetchProfile(ctx, username)
	if err != nil {
		r.reportFetchError(username, err)
		logger.LogTarget(r.logger, username, err)
		return nil, err
	}
	r.term.PrintSuccess("Data fetched successfully!")

	store, err := storage.NewTargetManager(r.config.Output.BaseDirectory, username)
	if err != nil {
		r.term.PrintError("Could not create output directory", err)
		logger.LogTarget(r.logger, username, err)
		return nil, err
	}
	r.term.PrintInfo("Saving recon files to", store.GetOutputDir()+string(os.PathSeparator))

	result := &Result{
		Username:  username,
		OutputDir: store.GetOutputDir(),
		Profile:   profile,
	}

	report.NewConsoleRenderer(r.out, r.config.Report, r.consoleOpts...).Render(profile)

	r.term.PrintStatus("Downloading profile picture...")
	picFile := report.DownloadProfilePicture(ctx, r.fetcher, store, profile, r.logger)
	if picFile != "" {
		result.PicturePath = store.Path(picFile)
		r.term.PrintSuccess("Profile picture saved to " + result.PicturePath)
	} else {
		r.term.PrintWarning("No profile picture saved")
	}

	jsonPath, err := report.WriteJSON(store, profile)
	if err != nil {
		r.term.PrintError("Failed to save JSON report", err)
		logger.LogTarget(r.logger, username, err)
		return nil, err
	}
	result.JSONPath = jsonPath
	logger.LogArtifact(r.logger, username, "json", jsonPath)
	r.term.PrintSuccess("Full JSON report saved to " + jsonPath)

	if !r.config.Output.NoHTML {
		r.term.PrintStatus("Generating HTML report...")
		htmlPath, err := report.WriteHTML(store, profile, picFile, r.now())
		if err != nil {
			r.term.PrintError("Failed to generate HTML report", err)
			logger.LogTarget(r.logger, username, err)
			return result, err
		}
		result.HTMLPath = htmlPath
		logger.LogArtifact(r.logger, username, "html", htmlPath)
		r.term.PrintSuccess("HTML report saved to " + htmlPath)
	}

	logger.LogTarget(r.logger, username, nil)
	return result, nil
}

// reportFetchError prints a message specific to the failure kind
func (r *Recon) reportFetchError(username string, err error) {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeNotFound:
		r.term.PrintError(fmt.Sprintf("Could not find user data for '%s'. Account may not exist.", username))
	case errors.ErrorTypeAuth:
		r.term.PrintError(fmt.Sprintf("Instagram requires login to view '%s'. Configure a session with 'instarecon auth login'.", username))
	case errors.ErrorTypeRateLimit:
		r.term.PrintError("Rate limited by Instagram. Increase --delay or try again later.")
	case errors.ErrorTypeServerError, errors.ErrorTypeHTTPStatus:
		r.term.PrintError("HTTP error occurred", err)
	case errors.ErrorTypeParsing:
		r.term.PrintError("Failed to parse JSON. API structure may have changed.")
	case errors.ErrorTypeNetwork:
		r.term.PrintError("Network error occurred", err)
	default:
		r.term.PrintError("Fetch failed", err)
	}
}

// TargetResult is the outcome of one batch entry
type TargetResult struct {
	Username string
	Result   *Result
	Err      error
}

// BatchSummary describes a finished batch
type BatchSummary struct {
	RunID     string
	Total     int
	Results   []TargetResult
	Waits     int
	Cancelled bool
	Duration  time.Duration
}

// Succeeded returns the targets that completed without error
func (b *BatchSummary) Succeeded() []TargetResult {
	var out []TargetResult
	for _, tr := range b.Results {
		if tr.Err == nil {
			out = append(out, tr)
		}
	}
	return out
}

// Failed returns the targets that returned an error
func (b *BatchSummary) Failed() []TargetResult {
	var out []TargetResult
	for _, tr := range b.Results {
		if tr.Err != nil {
			out = append(out, tr)
		}
	}
	return out
}

// RunBatch processes usernames in order. A failed target is recorded and
// skipped. The pacer runs between targets, never after the last one, and a
// cancelled context ends the batch at the next wait.
func (r *Recon) RunBatch(ctx context.Context, usernames []string) *BatchSummary {
	summary := &BatchSummary{
		RunID: uuid.NewString(),
		Total: len(usernames),
	}
	log := r.logger.WithFields(map[string]interface{}{
		"run_id":  summary.RunID,
		"targets": len(usernames),
	})
	log.Info("Batch started")

	tracker := ui.NewStatusTracker(r.term, len(usernames))
	for i, username := range usernames {
		if err := ctx.Err(); err != nil {
			summary.Cancelled = true
			break
		}

		tracker.StartTarget(i+1, username)
		result, err := r.Run(ctx, username)
		summary.Results = append(summary.Results, TargetResult{
			Username: username,
			Result:   result,
			Err:      err,
		})
		if err != nil {
			tracker.MarkFailed()
		} else {
			tracker.MarkSuccess()
		}

		if i < len(usernames)-1 {
			if fd, ok := r.pacer.(interface{ Delay() time.Duration }); ok {
				tracker.PrintWaiting(fd.Delay())
			}
			if err := r.pacer.Wait(ctx); err != nil {
				log.WithError(err).Warn("Batch interrupted")
				summary.Cancelled = true
				break
			}
			summary.Waits++
		}
	}

	summary.Duration = tracker.GetElapsedTime()
	tracker.PrintSummary()
	if summary.Cancelled {
		r.term.PrintWarning("Batch interrupted before all targets were processed")
	}

	log.InfoWithFields("Batch finished", map[string]interface{}{
		"succeeded": len(summary.Succeeded()),
		"failed":    len(summary.Failed()),
		"cancelled": summary.Cancelled,
		"duration":  summary.Duration,
	})
	return summary
}
