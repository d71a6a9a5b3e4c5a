// Package harvest drives one language run: fetch every listed URL, extract and
// dedup its records, append new ones and log each URL's outcome.
package harvest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/pmc-harvester/internal/dedup"
	"github.com/jonathan/pmc-harvester/internal/extraction"
	"github.com/jonathan/pmc-harvester/internal/fetch"
	"github.com/jonathan/pmc-harvester/internal/observability"
	"github.com/jonathan/pmc-harvester/internal/output"
	"github.com/jonathan/pmc-harvester/internal/types"
)

// ErrNoNewRecords fails a list attempt in which every item was already known.
var ErrNoNewRecords = errors.New("no new records in response")

// Job names the inputs and outputs of one language run.
type Job struct {
	Lang       types.Lang
	LinksFile  string
	OutputFile string
	LogDir     string
}

// ProgressFunc creates the progress reporter for a run of total URLs.
type ProgressFunc func(total int, label string) observability.Progress

// Deps holds the collaborators of a run. Zero values fall back to defaults.
type Deps struct {
	Client    *fetch.Client
	Policy    fetch.RetryPolicy
	Extractor *extraction.Extractor
	Logger    *zerolog.Logger
	Progress  ProgressFunc
}

func (d Deps) withDefaults() Deps {
	if d.Client == nil {
		d.Client = fetch.NewClient(nil)
	}
	if d.Policy.MaxAttempts < 1 {
		d.Policy.MaxAttempts = fetch.DefaultMaxAttempts
	}
	if d.Extractor == nil {
		d.Extractor = extraction.New(extraction.DefaultPatterns())
	}
	if d.Logger == nil {
		nop := zerolog.Nop()
		d.Logger = &nop
	}
	if d.Progress == nil {
		d.Progress = func(int, string) observability.Progress { return observability.NopProgress() }
	}
	return d
}

// harvester carries the per-run state shared by every URL.
type harvester struct {
	job      Job
	deps     Deps
	index    *dedup.Index
	appender *output.Appender
	logger   zerolog.Logger
}

// Run processes every URL of job.LinksFile in order and returns the run summary.
// URLs are handled one at a time. When ctx is cancelled the run stops before the
// next URL and returns the summary so far together with the context error; the
// in-flight URL is then left out of both logs unless it already succeeded.
// Output write failures end the run immediately.
func Run(ctx context.Context, job Job, deps Deps) (summary *types.RunSummary, err error) {
	if !job.Lang.Valid() {
		return nil, fmt.Errorf("unsupported language %q", job.Lang)
	}
	deps = deps.withDefaults()

	runID := uuid.NewString()
	logger := deps.Logger.With().Str("run_id", runID).Str("lang", string(job.Lang)).Logger()

	links, err := ReadLinks(job.LinksFile)
	if err != nil {
		return nil, err
	}

	index, err := dedup.Load(job.OutputFile)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("output", job.OutputFile).
		Int("known_records", index.Len()).
		Int("unreadable_lines", index.Skipped()).
		Int("links", len(links)).
		Msg("starting run")

	appender, err := output.OpenAppender(job.OutputFile)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, appender.Close()) }()

	runLog, err := output.CreateRunLog(job.LogDir, job.Lang)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, runLog.Close()) }()

	successPath, failurePath := runLog.Paths()
	summary = &types.RunSummary{
		RunID:      runID,
		Lang:       job.Lang,
		Total:      len(links),
		SuccessLog: successPath,
		FailureLog: failurePath,
	}

	h := &harvester{job: job, deps: deps, index: index, appender: appender, logger: logger}

	progress := deps.Progress(len(links), fmt.Sprintf("Processing %s links", job.Lang))
	defer progress.Finish()

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Int("processed", summary.Succeeded+summary.Failed).Msg("run interrupted")
			return summary, err
		}

		outcome, err := h.process(ctx, link)
		if err != nil {
			return summary, err
		}

		switch outcome.State {
		case types.URLStateSucceeded:
			err = runLog.Success(link)
		case types.URLStateFailed:
			err = runLog.Failure(link)
		}
		if err != nil {
			return summary, err
		}

		summary.Record(outcome)
		progress.Increment()
	}

	logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("written", appender.Written()).
		Str("output", appender.Path()).
		Msg("run complete")
	return summary, nil
}

// process runs the attempt loop for one URL. A non-nil error means the run must
// stop and the outcome is not terminal.
func (h *harvester) process(ctx context.Context, url string) (types.URLOutcome, error) {
	outcome := types.URLOutcome{URL: url, State: types.URLStatePending}

	attempts, err := fetch.Retry(ctx, h.deps.Policy, func(ctx context.Context, attempt int) error {
		outcome.State = types.URLStateAttempting
		written, duplicates, err := h.attempt(ctx, url)
		outcome.Written += written
		outcome.Duplicates = duplicates
		if err != nil {
			h.logger.Debug().Str("url", url).Int("attempt", attempt).Err(err).Msg("attempt failed")
		}
		return err
	})
	outcome.Attempts = attempts

	if err == nil {
		outcome.State = types.URLStateSucceeded
		return outcome, nil
	}

	var writeErr *output.WriteError
	if errors.As(err, &writeErr) {
		return outcome, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}

	outcome.State = types.URLStateFailed
	outcome.Error = err.Error()
	h.logger.Error().Str("url", url).Int("attempts", attempts).Err(err).Msg("giving up on url")
	return outcome, nil
}

// attempt fetches url once and stores the records it yields.
func (h *harvester) attempt(ctx context.Context, url string) (written, duplicates int, err error) {
	payload, err := h.deps.Client.GetJSON(ctx, url)
	if err != nil {
		return 0, 0, err
	}

	items, isList := listItems(payload)
	if !isList {
		added, err := h.store(payload, url)
		if err != nil {
			return 0, 0, err
		}
		if !added {
			return 0, 1, nil
		}
		return 1, 0, nil
	}

	for _, item := range items {
		added, err := h.store(item, url)
		if err != nil {
			return written, duplicates, err
		}
		if added {
			written++
		} else {
			duplicates++
		}
	}
	if written == 0 {
		return 0, duplicates, ErrNoNewRecords
	}
	return written, duplicates, nil
}

// store extracts a record from raw and appends it unless its hash is known.
func (h *harvester) store(raw any, url string) (bool, error) {
	rec, err := h.deps.Extractor.Extract(raw)
	if err != nil {
		return false, err
	}
	rec.SourceURL = url
	rec.Lang = h.job.Lang

	hash, err := dedup.RecordHash(rec)
	if err != nil {
		return false, err
	}
	if h.index.Contains(hash) {
		return false, nil
	}

	if err := h.appender.Append(rec); err != nil {
		return false, fetch.Permanent(err)
	}
	h.index.Add(hash)
	return true, nil
}

// listItems reports whether payload is an object whose "data" key holds an array.
func listItems(payload any) ([]any, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := obj["data"].([]any)
	return items, ok
}
