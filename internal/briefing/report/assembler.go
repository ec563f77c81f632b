package report

import (
	"fmt"
	"sort"
	"strings"

	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
)

// Headline caps per depth tier.
const (
	conciseHeadlineLimit  = 3
	detailedHeadlineLimit = 10
)

// Render produces the markdown briefing for one run. The layout is fixed;
// depth only controls how much detail each section carries, so two runs at
// the same depth always produce the same section order.
func Render(report *entity.RunReport) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("# Daily Stock Briefing - %s", report.Date.Format("2006-01-02")))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Status: **%s**", statusLabel(report.Status)))
	lines = append(lines, fmt.Sprintf("Environment: %s | Depth: %s | Layers: %s", report.Environment, report.Depth, layerList(report.Layers)))
	lines = append(lines, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	lines = append(lines, "")

	if !report.TradingDay {
		lines = append(lines, "Markets are closed today. No data was collected.")
		lines = append(lines, "")
		lines = appendActionItems(lines, report)
		return strings.Join(lines, "\n")
	}

	lines = appendGuardrails(lines, report)
	lines = appendSnapshot(lines, report)
	lines = appendRedFlags(lines, report)
	lines = appendNews(lines, report)
	lines = appendFilings(lines, report)
	lines = appendInsider(lines, report)
	lines = appendMarketIntel(lines, report)
	lines = appendDueTasks(lines, report)
	lines = appendActionItems(lines, report)
	lines = appendNextAction(lines, report)

	return strings.Join(lines, "\n")
}

// Filename derives the report artifact name for a run date.
func Filename(report *entity.RunReport, format string) string {
	return report.Date.Format(format)
}

func statusLabel(status entity.RunStatus) string {
	switch status {
	case entity.StatusManualReview:
		return "MANUAL REVIEW"
	default:
		return "AUTO CLEAR"
	}
}

func layerList(layers []entity.CadenceLayer) string {
	if len(layers) == 0 {
		return "none"
	}
	names := make([]string, 0, len(layers))
	for _, layer := range layers {
		names = append(names, string(layer))
	}
	return strings.Join(names, ", ")
}

func appendGuardrails(lines []string, report *entity.RunReport) []string {
	// A triggered guardrail escalates depth, so a concise run has none to show.
	if report.Depth == entity.DepthConcise {
		return lines
	}
	lines = append(lines, "## Guardrail Triggers")
	if len(report.GuardrailTriggers) == 0 {
		lines = append(lines, "- No guardrails triggered.")
	} else {
		for _, trigger := range report.GuardrailTriggers {
			lines = append(lines, fmt.Sprintf("- %s", trigger))
		}
	}
	return append(lines, "")
}

func appendSnapshot(lines []string, report *entity.RunReport) []string {
	lines = append(lines, "## Market Snapshot")

	result, ok := report.ResultFor(source.NameSnapshot)
	if !ok || result.Status == entity.SourceStatusSkipped {
		lines = append(lines, "_Snapshot not scheduled this run._")
		return append(lines, "")
	}
	payload, ok := snapshotPayload(result)
	if !ok {
		lines = append(lines, fmt.Sprintf("_Snapshot unavailable: %s_", result.Error))
		return append(lines, "")
	}

	lines = append(lines, "| Ticker | Company | Price | 1D % | Market Cap | P/E TTM | P/E Fwd | EV/EBITDA | P/S | Last Trade | Data Status |")
	lines = append(lines, "|---|---|---:|---:|---:|---:|---:|---:|---:|---|---|")
	for _, snap := range payload.Snapshots {
		dataStatus := "ok"
		if snap.Error != "" {
			dataStatus = "error: " + snap.Error
		}
		lastTrade := "n/a"
		if snap.LastTradeDate != nil {
			lastTrade = snap.LastTradeDate.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |",
			snap.Ticker, snap.Company,
			Money(snap.Price), Pct(snap.PriceChangePct), MarketCap(snap.MarketCap),
			Ratio(snap.PETrailing), Ratio(snap.PEForward), Ratio(snap.EVEBITDA), Ratio(snap.PSRatio),
			lastTrade, dataStatus,
		))
	}
	return append(lines, "")
}

func appendRedFlags(lines []string, report *entity.RunReport) []string {
	if len(report.RedFlags) == 0 {
		return lines
	}
	lines = append(lines, "## Red Flags")
	for _, flag := range report.RedFlags {
		lines = append(lines, fmt.Sprintf("- **%s** (%s): %s", flag.Category.Label(), flag.Ticker, flag.Evidence))
	}
	return append(lines, "")
}

func appendNews(lines []string, report *entity.RunReport) []string {
	result, ok := report.ResultFor(source.NameNews)
	if !ok || result.Status == entity.SourceStatusSkipped {
		return lines
	}

	lines = append(lines, "## News Headlines")
	payload, ok := newsPayload(result)
	if !ok {
		lines = append(lines, fmt.Sprintf("_Headlines unavailable: %s_", result.Error))
		return append(lines, "")
	}
	if len(payload.Headlines) == 0 {
		lines = append(lines, "- No recent headlines matched the watchlist.")
		return append(lines, "")
	}

	limit := len(payload.Headlines)
	switch report.Depth {
	case entity.DepthConcise:
		limit = conciseHeadlineLimit
	case entity.DepthDetailed:
		limit = detailedHeadlineLimit
	}
	if limit > len(payload.Headlines) {
		limit = len(payload.Headlines)
	}

	for _, headline := range payload.Headlines[:limit] {
		published := ""
		if headline.Published != nil {
			published = " (" + headline.Published.Format("2006-01-02") + ")"
		}
		tickers := ""
		if len(headline.Tickers) > 0 {
			tickers = " [" + strings.Join(headline.Tickers, ", ") + "]"
		}
		lines = append(lines, fmt.Sprintf("- %s%s%s", headline.Title, tickers, published))
		if report.Depth == entity.DepthComprehensive && headline.Excerpt != "" {
			lines = append(lines, fmt.Sprintf("  - %s", headline.Excerpt))
		}
	}
	if limit < len(payload.Headlines) {
		lines = append(lines, fmt.Sprintf("- ...and %d more headlines omitted at %s depth.", len(payload.Headlines)-limit, report.Depth))
	}
	return append(lines, "")
}

func appendFilings(lines []string, report *entity.RunReport) []string {
	if report.Depth == entity.DepthConcise {
		return lines
	}
	result, ok := report.ResultFor(source.NameSECFilings)
	if !ok || result.Status == entity.SourceStatusSkipped {
		return lines
	}

	lines = append(lines, "## SEC Filings")
	payload, ok := filingsPayload(result)
	if !ok {
		lines = append(lines, fmt.Sprintf("_Filings search unavailable: %s_", result.Error))
		return append(lines, "")
	}

	total := 0
	for _, ticker := range sortedKeys(payload.Filings) {
		filings := payload.Filings[ticker]
		total += len(filings)
		if len(filings) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("### %s", ticker))
		for _, filing := range filings {
			items := ""
			if len(filing.Items) > 0 {
				items = " items " + strings.Join(filing.Items, ", ")
			}
			lines = append(lines, fmt.Sprintf("- %s filed %s%s: [%s](%s)", filing.FilingType, filing.FiledDate, items, filing.Title, filing.URL))
		}
	}
	if total == 0 {
		lines = append(lines, "- No filings in the lookback window.")
	}
	return append(lines, "")
}

func appendInsider(lines []string, report *entity.RunReport) []string {
	if report.Depth == entity.DepthConcise {
		return lines
	}
	result, ok := report.ResultFor(source.NameInsider)
	if !ok || result.Status == entity.SourceStatusSkipped {
		return lines
	}

	lines = append(lines, "## Insider Activity")
	payload, ok := insiderPayload(result)
	if !ok {
		lines = append(lines, fmt.Sprintf("_Insider screener unavailable: %s_", result.Error))
		return append(lines, "")
	}

	for _, ticker := range sortedKeys(payload.Activity) {
		activity := payload.Activity[ticker]
		alert := ""
		if activity.ClusterAlert {
			alert = " **cluster selling alert**"
		}
		lines = append(lines, fmt.Sprintf("### %s (%d transactions)%s", ticker, len(activity.Transactions), alert))
		if len(activity.Transactions) == 0 {
			continue
		}
		lines = append(lines, "| Filed | Traded | Insider | Title | Type | Price | Shares | Value |")
		lines = append(lines, "|---|---|---|---|---|---:|---:|---:|")
		for _, tx := range activity.Transactions {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |",
				tx.FilingDate, tx.TradeDate, tx.InsiderName, tx.Title, tx.TradeType,
				Money(tx.Price), Shares(tx.Shares), Money(tx.Value),
			))
		}
	}
	return append(lines, "")
}

func appendMarketIntel(lines []string, report *entity.RunReport) []string {
	if report.Depth == entity.DepthConcise {
		return lines
	}
	result, ok := report.ResultFor(source.NameMarketIntel)
	if !ok || result.Status == entity.SourceStatusSkipped {
		return lines
	}

	lines = append(lines, "## Market Intelligence")
	payload, ok := marketIntelPayload(result)
	if !ok {
		lines = append(lines, fmt.Sprintf("_Market intel unavailable: %s_", result.Error))
		return append(lines, "")
	}

	if len(payload.Ecosystem.Signals) > 0 {
		lines = append(lines, "### Demand Signals")
		for _, signal := range payload.Ecosystem.Signals {
			lines = append(lines, fmt.Sprintf("- %s", signal))
		}
	}

	if report.Depth.Rank() >= entity.DepthDetailed.Rank() && len(payload.ShortInterest) > 0 {
		lines = append(lines, "### Short Interest")
		lines = append(lines, "| Ticker | Shares Short | Prior Month | Change | Days to Cover | % of Float | Report Date |")
		lines = append(lines, "|---|---:|---:|---:|---:|---:|---|")
		for _, ticker := range sortedKeys(payload.ShortInterest) {
			si := payload.ShortInterest[ticker]
			reportDate := si.ReportDate
			if reportDate == "" {
				reportDate = "n/a"
			}
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |",
				ticker, Shares(si.SharesShort), Shares(si.SharesShortPriorMonth),
				Pct(si.ChangePct), Ratio(si.ShortRatio), Pct(si.ShortPctOfFloat), reportDate,
			))
		}
	}

	if report.Depth == entity.DepthComprehensive {
		if len(payload.Ecosystem.UpcomingEarnings) > 0 {
			lines = append(lines, "### Upcoming Ecosystem Earnings")
			for _, entry := range payload.Ecosystem.UpcomingEarnings {
				lines = append(lines, fmt.Sprintf("- %s (%s) reports %s, in %d day(s)", entry.Ticker, entry.Name, entry.NextEarnings, entry.DaysUntilEarnings))
			}
		}
		if len(payload.Ecosystem.RecentResults) > 0 {
			lines = append(lines, "### Recent Ecosystem Results")
			for _, entry := range payload.Ecosystem.RecentResults {
				growth := "n/a"
				if entry.RevenueGrowthYoY != nil {
					growth = fmt.Sprintf("%+.1f%% revenue YoY", *entry.RevenueGrowthYoY)
				}
				lines = append(lines, fmt.Sprintf("- %s (%s): %s", entry.Ticker, entry.Name, growth))
			}
		}
		if len(payload.EarningsRefresh.Updated) > 0 {
			lines = append(lines, "### Proposed Earnings Date Updates")
			for _, update := range payload.EarningsRefresh.Updated {
				lines = append(lines, fmt.Sprintf("- %s: %s -> %s", update.Ticker, update.OldDate, update.NewDate))
			}
		}
	}
	return append(lines, "")
}

func appendDueTasks(lines []string, report *entity.RunReport) []string {
	lines = append(lines, "## Checklist Tasks Due Today")
	sections := []struct {
		title string
		tasks []string
	}{
		{"Daily", report.DueTasks.Daily},
		{"Weekly", report.DueTasks.Weekly},
		{"Bi-Monthly", report.DueTasks.BiMonthly},
		{"Monthly", report.DueTasks.Monthly},
		{"Earnings Window", report.DueTasks.Earnings},
	}
	for _, section := range sections {
		if len(section.tasks) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("### %s", section.title))
		for _, task := range section.tasks {
			lines = append(lines, fmt.Sprintf("- [ ] %s", task))
		}
		lines = append(lines, "")
	}
	return lines
}

func appendActionItems(lines []string, report *entity.RunReport) []string {
	lines = append(lines, "## Action Items")
	for _, item := range report.ActionItems {
		lines = append(lines, fmt.Sprintf("- %s", item))
	}
	return append(lines, "")
}

func appendNextAction(lines []string, report *entity.RunReport) []string {
	lines = append(lines, "## Next Action")
	if report.Status == entity.StatusManualReview {
		lines = append(lines, "- Run a qualitative review before making position changes.")
	} else {
		lines = append(lines, "- Proceed with normal cadence and schedule the next daily check-in.")
	}
	return append(lines, "")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func snapshotPayload(result entity.SourceResult) (entity.SnapshotPayload, bool) {
	switch payload := result.Payload.(type) {
	case entity.SnapshotPayload:
		return payload, true
	case *entity.SnapshotPayload:
		return *payload, true
	}
	return entity.SnapshotPayload{}, false
}

func newsPayload(result entity.SourceResult) (entity.NewsPayload, bool) {
	switch payload := result.Payload.(type) {
	case entity.NewsPayload:
		return payload, true
	case *entity.NewsPayload:
		return *payload, true
	}
	return entity.NewsPayload{}, false
}

func filingsPayload(result entity.SourceResult) (entity.FilingsPayload, bool) {
	switch payload := result.Payload.(type) {
	case entity.FilingsPayload:
		return payload, true
	case *entity.FilingsPayload:
		return *payload, true
	}
	return entity.FilingsPayload{}, false
}

func insiderPayload(result entity.SourceResult) (entity.InsiderPayload, bool) {
	switch payload := result.Payload.(type) {
	case entity.InsiderPayload:
		return payload, true
	case *entity.InsiderPayload:
		return *payload, true
	}
	return entity.InsiderPayload{}, false
}

func marketIntelPayload(result entity.SourceResult) (entity.MarketIntelPayload, bool) {
	switch payload := result.Payload.(type) {
	case entity.MarketIntelPayload:
		return payload, true
	case *entity.MarketIntelPayload:
		return *payload, true
	}
	return entity.MarketIntelPayload{}, false
}
