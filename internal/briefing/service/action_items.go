package service

import (
	"fmt"
	"strings"

	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
)

const (
	minActionItems = 3
	maxActionItems = 7
)

// buildActionItems synthesizes the action-item bullets for a report. The
// list is deterministic for a given report: bullets are emitted in fixed
// category priority, then padded to the minimum or truncated at the
// maximum.
func buildActionItems(report *entity.RunReport) []string {
	var items []string

	if !report.TradingDay {
		items = append(items,
			"Markets closed today, no data was collected",
			"Confirm the next scheduled run lands on a trading day",
			"Use the downtime to tidy the watchlist and earnings dates",
		)
		return items
	}

	if report.Status == entity.StatusManualReview && len(report.GuardrailTriggers) > 0 {
		items = append(items, fmt.Sprintf("Manually review this briefing: %s", report.GuardrailTriggers[0]))
	}

	for _, flag := range report.RedFlags {
		items = append(items, fmt.Sprintf("Investigate %s for %s: %s", strings.ToLower(flag.Category.Label()), flag.Ticker, flag.Evidence))
	}

	for _, ticker := range report.EarningsTickers {
		items = append(items, fmt.Sprintf("Prepare earnings notes for %s, the report window is open", ticker))
	}

	for _, result := range report.Results {
		if result.Status == entity.SourceStatusFailed {
			items = append(items, fmt.Sprintf("Retry the %s source, it failed this run", result.Source))
		}
	}

	if refresh, ok := earningsRefresh(report.Results); ok && len(refresh.Updated) > 0 {
		items = append(items, fmt.Sprintf("Apply %d proposed earnings-date updates from the watchlist proposal", len(refresh.Updated)))
	}

	fillers := []string{
		"Work through the due-task checklist for each active layer",
		"Confirm last prices against your broker before acting",
		"File the briefing, nothing else to chase today",
	}
	for _, filler := range fillers {
		if len(items) >= minActionItems {
			break
		}
		items = append(items, filler)
	}

	if len(items) > maxActionItems {
		items = items[:maxActionItems]
	}
	return items
}

// earningsRefresh pulls the earnings-refresh proposal out of the
// market-intel result, if that source ran.
func earningsRefresh(results []entity.SourceResult) (entity.EarningsRefresh, bool) {
	for _, result := range results {
		if result.Source != source.NameMarketIntel || !result.OK() {
			continue
		}
		switch payload := result.Payload.(type) {
		case entity.MarketIntelPayload:
			return payload.EarningsRefresh, true
		case *entity.MarketIntelPayload:
			return payload.EarningsRefresh, true
		}
	}
	return entity.EarningsRefresh{}, false
}
