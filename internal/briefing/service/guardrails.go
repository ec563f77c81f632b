package service

import (
	"fmt"
	"strings"

	"go-stock-briefing/internal/briefing/cadence"
	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/utils"
)

// evaluateGuardrails runs the quantitative guardrail checks over the merged
// results. Any trigger flips the run to manual review; no trigger means
// auto clear. Triggers are ordered snapshot availability, missing data,
// staleness, price moves, earnings window.
func evaluateGuardrails(g config.Guardrails, plan cadence.Plan, results []entity.SourceResult) ([]string, entity.RunStatus) {
	var triggers []string

	payload, available := snapshotPayload(results)
	if !available {
		triggers = append(triggers, "quantitative snapshot unavailable, no price data this run")
	} else {
		missing := 0
		for _, snap := range payload.Snapshots {
			if snap.Missing() {
				missing++
			}
		}
		if missing > g.MaxMissingTickers {
			triggers = append(triggers, fmt.Sprintf("%d tickers missing quote data, max allowed %d", missing, g.MaxMissingTickers))
		}

		for _, snap := range payload.Snapshots {
			if snap.LastTradeDate == nil {
				continue
			}
			age := utils.DaysBetween(utils.Midnight(*snap.LastTradeDate), plan.Date)
			if age > g.StaleDataMaxDays {
				triggers = append(triggers, fmt.Sprintf("%s quote is %d days old, max allowed %d", snap.Ticker, age, g.StaleDataMaxDays))
			}
		}

		for _, snap := range payload.Snapshots {
			if snap.PriceChangePct == nil {
				continue
			}
			change := *snap.PriceChangePct
			if change < 0 {
				change = -change
			}
			if change > g.PriceMovePctThreshold {
				triggers = append(triggers, fmt.Sprintf("%s moved %+.2f%%, threshold %.1f%%", snap.Ticker, *snap.PriceChangePct, g.PriceMovePctThreshold))
			}
		}
	}

	if len(plan.EarningsTickers) > 0 {
		triggers = append(triggers, fmt.Sprintf("earnings window active for %s", strings.Join(plan.EarningsTickers, ", ")))
	}

	if len(triggers) > 0 {
		return triggers, entity.StatusManualReview
	}
	return nil, entity.StatusAutoClear
}

// snapshotPayload extracts the snapshot payload from the merged results.
// The second return is false when the source failed or never ran.
func snapshotPayload(results []entity.SourceResult) (entity.SnapshotPayload, bool) {
	for _, result := range results {
		if result.Source != source.NameSnapshot {
			continue
		}
		if !result.OK() {
			return entity.SnapshotPayload{}, false
		}
		switch payload := result.Payload.(type) {
		case entity.SnapshotPayload:
			return payload, true
		case *entity.SnapshotPayload:
			return *payload, true
		}
		return entity.SnapshotPayload{}, false
	}
	return entity.SnapshotPayload{}, false
}
