package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-stock-briefing/internal/briefing/cadence"
	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/briefing/environment"
	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/briefing/scanner"
	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
	"go-stock-briefing/pkg/utils"
)

// Orchestrator drives one briefing run: cadence plan, parallel source
// fan-out, red-flag scan, triggered follow-up stage, guardrail evaluation,
// and report assembly. One run produces exactly one RunReport.
type Orchestrator struct {
	cfg         *config.Config
	log         *logger.Logger
	env         environment.Descriptor
	policy      *cadence.Policy
	calendar    repository.TradingCalendar
	sources     []source.DataSource
	flagScanner *scanner.Scanner
	history     repository.RunHistoryRepository
	priceCache  repository.PriceCacheRepository
}

// NewOrchestrator creates the briefing orchestrator. The history repository
// and the price cache may be nil when their backends are disabled.
func NewOrchestrator(
	cfg *config.Config,
	log *logger.Logger,
	env environment.Descriptor,
	policy *cadence.Policy,
	calendar repository.TradingCalendar,
	sources []source.DataSource,
	flagScanner *scanner.Scanner,
	history repository.RunHistoryRepository,
	priceCache repository.PriceCacheRepository,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		log:         log,
		env:         env,
		policy:      policy,
		calendar:    calendar,
		sources:     sources,
		flagScanner: flagScanner,
		history:     history,
		priceCache:  priceCache,
	}
}

// Run executes the briefing for the given date. The date is truncated to
// midnight; running twice on the same date produces an equivalent report.
func (o *Orchestrator) Run(ctx context.Context, date time.Time) (*entity.RunReport, error) {
	date = utils.Midnight(date)
	watchlist := o.cfg.WatchlistItems()
	o.hydrateLastKnown(ctx, watchlist)

	priorStatus := o.priorStatus(ctx, date)

	plan, err := o.policy.Evaluate(ctx, date, o.calendar, watchlist, priorStatus)
	if err != nil {
		return nil, err
	}

	report := &entity.RunReport{
		Date:            date,
		Environment:     o.env.Name,
		Tickers:         watchlist.Symbols(),
		TradingDay:      plan.TradingDay,
		Layers:          plan.Layers,
		Depth:           plan.Depth,
		Status:          entity.StatusAutoClear,
		EarningsTickers: plan.EarningsTickers,
		DueTasks:        plan.DueTasks,
		GeneratedAt:     time.Now().UTC(),
	}

	if !plan.TradingDay {
		o.log.Info("Markets closed, skipping data collection",
			logger.StringField("date", utils.FormatISODate(date)))
		report.ActionItems = buildActionItems(report)
		return report, nil
	}

	input := &source.RunInput{Date: date, Plan: plan, Watchlist: watchlist}

	results := o.runParallel(ctx, input)
	flags := o.flagScanner.Scan(results)

	results, followedUp := o.runTriggered(ctx, input, results, flags)
	if followedUp {
		flags = o.flagScanner.Scan(results)
	}

	report.Results = results
	report.RedFlags = flags
	report.GuardrailTriggers, report.Status = evaluateGuardrails(o.cfg.Guardrails, plan, results)

	depth := plan.Depth
	if len(flags) > 0 || snapshotUnavailable(results) || report.Status == entity.StatusManualReview {
		depth = depth.AtLeast(entity.DepthDetailed)
	}
	report.Depth = depth

	o.recordLastKnown(ctx, date, report)

	report.ActionItems = buildActionItems(report)

	o.log.Info("Briefing run complete",
		logger.StringField("date", utils.FormatISODate(date)),
		logger.StringField("environment", report.Environment),
		logger.StringField("status", string(report.Status)),
		logger.StringField("depth", string(report.Depth)),
		logger.Field("layers", report.Layers),
		logger.IntField("sources", len(report.Results)),
		logger.IntField("red_flags", len(flags)),
		logger.IntField("guardrail_triggers", len(report.GuardrailTriggers)),
		logger.IntField("action_items", len(report.ActionItems)),
	)
	return report, nil
}

// hydrateLastKnown fills each watchlist item's last-known price and status
// from the price cache so sources can fall back to them when today's data
// is missing. Cache misses and errors leave the item untouched.
func (o *Orchestrator) hydrateLastKnown(ctx context.Context, watchlist entity.Watchlist) {
	if o.priceCache == nil {
		return
	}
	for i := range watchlist {
		last, err := o.priceCache.GetLast(ctx, watchlist[i].Symbol)
		if err != nil {
			o.log.Warn("Failed to read last known price",
				logger.ErrorField(err),
				logger.StringField("ticker", watchlist[i].Symbol),
			)
			continue
		}
		if last == nil {
			continue
		}
		price := last.Price
		at := time.Unix(last.Timestamp, 0).UTC()
		watchlist[i].LastKnownPrice = &price
		watchlist[i].LastKnownStatus = last.Status
		watchlist[i].LastKnownAt = &at
	}
}

// recordLastKnown stamps each successfully quoted ticker with today's price
// and the run's final status, after the guardrails have settled it.
func (o *Orchestrator) recordLastKnown(ctx context.Context, date time.Time, report *entity.RunReport) {
	if o.priceCache == nil {
		return
	}
	result, ok := report.ResultFor(source.NameSnapshot)
	if !ok || result.Status != entity.SourceStatusOK {
		return
	}
	payload, ok := snapshotPayload([]entity.SourceResult{result})
	if !ok {
		return
	}
	for _, snap := range payload.Snapshots {
		if snap.Price == nil || snap.Error != "" {
			continue
		}
		err := o.priceCache.SetLast(ctx, snap.Ticker, repository.LastPrice{
			Price:     *snap.Price,
			Status:    report.Status,
			Timestamp: date.Unix(),
		})
		if err != nil {
			o.log.Warn("Failed to record last price",
				logger.ErrorField(err),
				logger.StringField("ticker", snap.Ticker),
			)
		}
	}
}

// priorStatus looks up the most recent stored run before the given date.
// History being unavailable never blocks a run.
func (o *Orchestrator) priorStatus(ctx context.Context, date time.Time) entity.RunStatus {
	if o.history == nil {
		return entity.StatusAutoClear
	}
	prev, err := o.history.FindLatestBefore(ctx, utils.FormatISODate(date))
	if err != nil {
		o.log.Warn("Failed to load prior run status", logger.ErrorField(err))
		return entity.StatusAutoClear
	}
	if prev == nil {
		return entity.StatusAutoClear
	}
	return entity.RunStatus(prev.Status)
}

// runParallel fans out the active sources concurrently and records a
// skipped result for the inactive ones. One source failing never affects
// another's result.
func (o *Orchestrator) runParallel(ctx context.Context, input *source.RunInput) []entity.SourceResult {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	byName := make(map[string]entity.SourceResult, len(o.sources))

	for _, src := range o.sources {
		if !src.ActiveFor(input) {
			byName[src.Name()] = entity.SourceResult{Source: src.Name(), Status: entity.SourceStatusSkipped}
			continue
		}
		wg.Add(1)
		s := src
		utils.GoSafe(func() {
			defer wg.Done()
			result := o.fetchOne(ctx, s, input)
			mu.Lock()
			byName[s.Name()] = result
			mu.Unlock()
		})
	}
	wg.Wait()

	return o.mergeResults(byName)
}

// runTriggered runs the sequenced follow-up stage: sources that were
// skipped in the parallel stage but are pulled in by the red flags found so
// far. Returns the updated results and whether anything ran.
func (o *Orchestrator) runTriggered(ctx context.Context, input *source.RunInput, results []entity.SourceResult, flags []entity.RedFlag) ([]entity.SourceResult, bool) {
	if len(flags) == 0 {
		return results, false
	}

	ran := false
	for _, src := range o.sources {
		if !src.TriggeredBy(flags) {
			continue
		}
		idx := indexOf(results, src.Name())
		if idx < 0 || results[idx].Status != entity.SourceStatusSkipped {
			continue
		}

		o.log.Info("Running follow-up source for red flags",
			logger.StringField("source", src.Name()),
			logger.IntField("red_flags", len(flags)),
		)
		results[idx] = o.fetchOne(ctx, src, input)
		ran = true
	}
	return results, ran
}

func (o *Orchestrator) fetchOne(ctx context.Context, s source.DataSource, input *source.RunInput) entity.SourceResult {
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.Sources.Timeout)
	defer cancel()

	start := time.Now()
	payload, err := s.Fetch(fetchCtx, input)
	elapsed := time.Since(start)

	if err != nil {
		o.log.Error("Data source failed",
			logger.ErrorField(err),
			logger.StringField("source", s.Name()),
			logger.DurationField("elapsed", elapsed),
		)
		return entity.SourceResult{
			Source:  s.Name(),
			Status:  entity.SourceStatusFailed,
			Error:   err.Error(),
			Elapsed: elapsed,
		}
	}

	o.log.DebugContext(ctx, "Data source completed",
		logger.StringField("source", s.Name()),
		logger.DurationField("elapsed", elapsed),
	)
	return entity.SourceResult{
		Source:  s.Name(),
		Status:  entity.SourceStatusOK,
		Payload: payload,
		Elapsed: elapsed,
	}
}

// mergeResults orders results by the configured source order regardless of
// completion order, so the report layout is stable run to run. Sources
// missing from the configured order sort alphabetically at the end.
func (o *Orchestrator) mergeResults(byName map[string]entity.SourceResult) []entity.SourceResult {
	results := make([]entity.SourceResult, 0, len(byName))
	seen := make(map[string]struct{}, len(byName))

	for _, name := range o.cfg.Sources.Order {
		if result, ok := byName[name]; ok {
			results = append(results, result)
			seen[name] = struct{}{}
		}
	}

	var rest []string
	for name := range byName {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		results = append(results, byName[name])
	}
	return results
}

func indexOf(results []entity.SourceResult, name string) int {
	for i, result := range results {
		if result.Source == name {
			return i
		}
	}
	return -1
}

func snapshotUnavailable(results []entity.SourceResult) bool {
	for _, result := range results {
		if result.Source == source.NameSnapshot {
			return result.Status == entity.SourceStatusFailed
		}
	}
	return false
}
