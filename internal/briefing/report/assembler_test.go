package report

import (
	"strings"
	"testing"
	"time"

	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseReport(t *testing.T) *entity.RunReport {
	t.Helper()
	date, err := time.Parse("2006-01-02", "2026-06-16")
	require.NoError(t, err)
	trade := date
	return &entity.RunReport{
		Date:        date,
		Environment: "test",
		Tickers:     []string{"NVDA"},
		TradingDay:  true,
		Layers:      []entity.CadenceLayer{entity.LayerDaily},
		Depth:       entity.DepthConcise,
		Status:      entity.StatusAutoClear,
		DueTasks:    entity.DueTasks{Daily: []string{"Review red flags checklist."}},
		ActionItems: []string{"File the briefing, nothing else to chase today"},
		Results: []entity.SourceResult{{
			Source: source.NameSnapshot,
			Status: entity.SourceStatusOK,
			Payload: entity.SnapshotPayload{Snapshots: []entity.Snapshot{{
				Ticker: "NVDA", Company: "NVIDIA",
				Price:          utils.ToPointer(123.45),
				PriceChangePct: utils.ToPointer(1.25),
				MarketCap:      utils.ToPointer(int64(3_000_000_000_000)),
				LastTradeDate:  &trade,
			}}},
		}},
		GeneratedAt: date.Add(12 * time.Hour),
	}
}

func TestRender_SnapshotTable(t *testing.T) {
	markdown := Render(baseReport(t))

	assert.Contains(t, markdown, "# Daily Stock Briefing - 2026-06-16")
	assert.Contains(t, markdown, "Status: **AUTO CLEAR**")
	assert.Contains(t, markdown, "## Market Snapshot")
	assert.Contains(t, markdown, "| NVDA | NVIDIA | $123.45 | +1.25% | $3.00T |")
	assert.Contains(t, markdown, "- [ ] Review red flags checklist.")
	assert.Contains(t, markdown, "## Action Items")
	assert.Contains(t, markdown, "- Proceed with normal cadence and schedule the next daily check-in.")
}

func TestRender_ClosedDay(t *testing.T) {
	report := baseReport(t)
	report.TradingDay = false
	report.Results = nil

	markdown := Render(report)

	assert.Contains(t, markdown, "Markets are closed today. No data was collected.")
	assert.NotContains(t, markdown, "## Market Snapshot")
	assert.Contains(t, markdown, "## Action Items")
}

func TestRender_RedFlagsSection(t *testing.T) {
	report := baseReport(t)
	report.Status = entity.StatusManualReview
	report.Depth = entity.DepthDetailed
	report.GuardrailTriggers = []string{"NVDA moved -9.00%, threshold 7.0%"}
	report.RedFlags = []entity.RedFlag{
		{Category: entity.FlagLargePriceMove, Ticker: "NVDA", Evidence: "1-day move -9.00% exceeds 7.0% threshold"},
	}

	markdown := Render(report)

	assert.Contains(t, markdown, "Status: **MANUAL REVIEW**")
	assert.Contains(t, markdown, "## Guardrail Triggers")
	assert.Contains(t, markdown, "- NVDA moved -9.00%, threshold 7.0%")
	assert.Contains(t, markdown, "## Red Flags")
	assert.Contains(t, markdown, "- **Large price move** (NVDA):")
	assert.Contains(t, markdown, "- Run a qualitative review before making position changes.")
}

func TestRender_DepthControlsHeadlineCount(t *testing.T) {
	report := baseReport(t)
	headlines := make([]entity.Headline, 8)
	for i := range headlines {
		headlines[i] = entity.Headline{Title: "Headline", Tickers: []string{"NVDA"}}
	}
	report.Results = append(report.Results, entity.SourceResult{
		Source:  source.NameNews,
		Status:  entity.SourceStatusOK,
		Payload: entity.NewsPayload{Headlines: headlines},
	})

	concise := Render(report)
	assert.Equal(t, conciseHeadlineLimit, strings.Count(concise, "- Headline"))
	assert.Contains(t, concise, "5 more headlines omitted")

	report.Depth = entity.DepthComprehensive
	comprehensive := Render(report)
	assert.Equal(t, 8, strings.Count(comprehensive, "- Headline"))
}

func TestRender_SkippedSourcesProduceNoSection(t *testing.T) {
	report := baseReport(t)
	report.Results = append(report.Results,
		entity.SourceResult{Source: source.NameInsider, Status: entity.SourceStatusSkipped},
		entity.SourceResult{Source: source.NameMarketIntel, Status: entity.SourceStatusSkipped},
	)

	markdown := Render(report)

	assert.NotContains(t, markdown, "## Insider Activity")
	assert.NotContains(t, markdown, "## Market Intelligence")
}

func TestRender_FailedSourceShowsError(t *testing.T) {
	report := baseReport(t)
	report.Depth = entity.DepthDetailed
	report.Results = append(report.Results, entity.SourceResult{
		Source: source.NameSECFilings,
		Status: entity.SourceStatusFailed,
		Error:  "search unavailable",
	})

	markdown := Render(report)

	assert.Contains(t, markdown, "## SEC Filings")
	assert.Contains(t, markdown, "_Filings search unavailable: search unavailable_")
}

func TestRender_Deterministic(t *testing.T) {
	report := baseReport(t)
	report.Results = append(report.Results, entity.SourceResult{
		Source: source.NameInsider,
		Status: entity.SourceStatusOK,
		Payload: entity.InsiderPayload{Activity: map[string]entity.InsiderActivity{
			"NVDA": {}, "AVGO": {}, "TSM": {},
		}},
	})

	assert.Equal(t, Render(report), Render(report))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", Money(utils.ToPointer(1234567.89)))
	assert.Equal(t, "n/a", Money(nil))
	assert.Equal(t, "+3.25%", Pct(utils.ToPointer(3.25)))
	assert.Equal(t, "-0.50%", Pct(utils.ToPointer(-0.5)))
	assert.Equal(t, "31.5", Ratio(utils.ToPointer(31.52)))
	assert.Equal(t, "$3.00T", MarketCap(utils.ToPointer(int64(3_000_000_000_000))))
	assert.Equal(t, "$950.00B", MarketCap(utils.ToPointer(int64(950_000_000_000))))
	assert.Equal(t, "$12.50M", MarketCap(utils.ToPointer(int64(12_500_000))))
	assert.Equal(t, "12,345", Shares(utils.ToPointer(int64(12345))))
}
