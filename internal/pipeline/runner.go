// Package pipeline orchestrates fetch, validation, and storage per symbol
// and aggregates the run outcome.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"StockVault/internal/fetcher"
	"StockVault/internal/model"
	"StockVault/internal/notifier"
	"StockVault/internal/quality"
	"StockVault/internal/recorder"
	"StockVault/internal/storage"
	"StockVault/internal/transform"
)

// Mode selects how much history a run fetches and persists.
type Mode string

const (
	// ModeDaily fetches the compact window and refreshes the rolling
	// artifacts.
	ModeDaily Mode = "daily"
	// ModeBulk fetches full history and additionally writes one object per
	// trading day.
	ModeBulk Mode = "bulk"
)

// Runner executes the pipeline for a list of symbols, strictly sequentially.
// Symbols are isolated: one symbol's failure never aborts the rest.
type Runner struct {
	client   fetcher.Client
	store    *storage.AtomicStore
	notifier notifier.Notifier
	recorder recorder.Recorder
	prefix   string
	limiter  *rate.Limiter
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunner wires the pipeline's collaborators together.
func NewRunner(client fetcher.Client, store *storage.AtomicStore, notif notifier.Notifier, rec recorder.Recorder, prefix string, log zerolog.Logger) *Runner {
	return &Runner{
		client:   client,
		store:    store,
		notifier: notif,
		recorder: rec,
		prefix:   prefix,
		log:      log.With().Str("component", "pipeline").Logger(),
		now:      time.Now,
	}
}

// SetRateLimit paces API requests in bulk mode to the given budget.
func (r *Runner) SetRateLimit(requestsPerMinute int) {
	if requestsPerMinute > 0 {
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
}

// Run processes every symbol, sends exactly one aggregate notification, and
// records the run. The returned summary carries the process exit code.
func (r *Runner) Run(ctx context.Context, symbols []string, mode Mode) *model.RunSummary {
	start := r.now()
	r.log.Info().Str("mode", string(mode)).Strs("symbols", symbols).Msg("run started")

	summary := &model.RunSummary{Mode: string(mode), StartedAt: start}
	for _, symbol := range symbols {
		res := r.runSymbol(ctx, symbol, mode)
		summary.Results = append(summary.Results, res)
		r.log.Info().Str("symbol", symbol).Str("outcome", string(res.Outcome)).Str("reason", res.Reason).Msg("symbol processed")
	}
	summary.Elapsed = r.now().Sub(start)

	success, warning, failure := summary.Counts()
	r.log.Info().
		Int("success", success).
		Int("warning", warning).
		Int("failure", failure).
		Dur("elapsed", summary.Elapsed).
		Msg("run finished")

	level, message := notifier.RunMessage(summary)
	if err := r.notifier.Notify(ctx, level, message, notifier.FormatRunReport(summary)); err != nil {
		r.log.Error().Err(err).Msg("notification failed")
	}

	if err := r.recorder.RecordRun(summary); err != nil {
		r.log.Error().Err(err).Msg("record run failed")
	}

	return summary
}

// runSymbol isolates one symbol's processing; a panic is recorded as that
// symbol's failure instead of escaping the batch loop.
func (r *Runner) runSymbol(ctx context.Context, symbol string, mode Mode) (res model.SymbolResult) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Str("symbol", symbol).Any("panic", p).Msg("unexpected error processing symbol")
			res = model.SymbolResult{Symbol: symbol, Outcome: model.OutcomeFailure, Reason: fmt.Sprintf("ERROR: %v", p)}
		}
	}()
	return r.processSymbol(ctx, symbol, mode)
}

func (r *Runner) processSymbol(ctx context.Context, symbol string, mode Mode) model.SymbolResult {
	fail := func(reason string) model.SymbolResult {
		return model.SymbolResult{Symbol: symbol, Outcome: model.OutcomeFailure, Reason: reason}
	}

	// Fetching
	size := fetcher.SizeCompact
	if mode == ModeBulk {
		size = fetcher.SizeFull
	}
	if mode == ModeBulk && r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fail(fmt.Sprintf("rate limit wait: %v", err))
		}
	}
	raw, err := r.client.FetchDaily(ctx, symbol, size)
	if err != nil {
		return fail(fmt.Sprintf("fetch failed: %v", err))
	}

	// Validating
	series, err := transform.BuildSeries(symbol, raw)
	if err != nil {
		return fail(fmt.Sprintf("transform failed: %v", err))
	}
	if qf := quality.Check(series); qf != nil {
		return fail(qf.Error())
	}

	// Storing. The latest pointer is load-bearing; everything after it only
	// downgrades the outcome to a warning.
	now := r.now()
	latestKey := storage.LatestKey(r.prefix, symbol)
	if err := r.store.UpdateJSON(ctx, latestKey, transform.LatestEnvelope(series, now)); err != nil {
		return fail(fmt.Sprintf("store latest failed: %v", err))
	}

	var warnings []string
	warn := func(what string, err error) {
		r.log.Warn().Str("symbol", symbol).Err(err).Msgf("%s failed, latest data was saved", what)
		warnings = append(warnings, fmt.Sprintf("%s failed: %v", what, err))
	}

	if err := r.store.UpdateJSON(ctx, storage.FullKey(r.prefix, symbol), transform.FullEnvelope(series, now)); err != nil {
		warn("store full", err)
	}
	if err := r.store.UpdateJSON(ctx, storage.MetadataKey(r.prefix, symbol), model.NewSeriesMetadata(series, now)); err != nil {
		warn("store metadata", err)
	}

	if mode == ModeBulk {
		if csvText, err := transform.CSV(series); err != nil {
			warn("render csv", err)
		} else if err := r.store.UpdateCSV(ctx, storage.FullCSVKey(r.prefix, symbol), csvText); err != nil {
			warn("store csv", err)
		}

		if failed := r.storeDaily(ctx, series, now); failed > 0 {
			warnings = append(warnings, fmt.Sprintf("%d daily writes failed", failed))
		}
	}

	if len(warnings) > 0 {
		return model.SymbolResult{Symbol: symbol, Outcome: model.OutcomeWarning, Reason: strings.Join(warnings, "; ")}
	}
	return model.SymbolResult{Symbol: symbol, Outcome: model.OutcomeSuccess}
}

// storeDaily writes one object per trading day and returns how many writes
// failed.
func (r *Runner) storeDaily(ctx context.Context, series *model.PriceSeries, now time.Time) int {
	failed := 0
	for i, p := range series.Points {
		key := storage.DailyKey(r.prefix, series.Symbol, p.DateString())
		if err := r.store.UpdateJSON(ctx, key, transform.DailyEnvelope(series, i, now)); err != nil {
			r.log.Warn().Str("symbol", series.Symbol).Str("date", p.DateString()).Err(err).Msg("daily write failed")
			failed++
		}
	}
	return failed
}
