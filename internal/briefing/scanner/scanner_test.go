package scanner

import (
	"testing"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		PriceMovePctThreshold: 7.0,
		ClusterMinSellers:     2,
		ClusterWindowDays:     7,
	}
}

func okResult(source string, payload interface{}) entity.SourceResult {
	return entity.SourceResult{Source: source, Status: entity.SourceStatusOK, Payload: payload}
}

func TestScan_LargePriceMove(t *testing.T) {
	s := New(testConfig())
	results := []entity.SourceResult{
		okResult("snapshot", entity.SnapshotPayload{Snapshots: []entity.Snapshot{
			{Ticker: "NVDA", PriceChangePct: utils.ToPointer(-9.0)},
			{Ticker: "AVGO", PriceChangePct: utils.ToPointer(3.2)},
			{Ticker: "TSM"},
		}}),
	}

	flags := s.Scan(results)

	assert.Len(t, flags, 1)
	assert.Equal(t, entity.FlagLargePriceMove, flags[0].Category)
	assert.Equal(t, "NVDA", flags[0].Ticker)
}

func TestScan_MoveAtThresholdIsNotFlagged(t *testing.T) {
	s := New(testConfig())
	results := []entity.SourceResult{
		okResult("snapshot", entity.SnapshotPayload{Snapshots: []entity.Snapshot{
			{Ticker: "NVDA", PriceChangePct: utils.ToPointer(7.0)},
		}}),
	}

	assert.Empty(t, s.Scan(results))
}

func TestScan_FailedResultsAreIgnored(t *testing.T) {
	s := New(testConfig())
	results := []entity.SourceResult{
		{Source: "snapshot", Status: entity.SourceStatusFailed, Error: "boom"},
		{Source: "news", Status: entity.SourceStatusSkipped},
	}

	assert.Empty(t, s.Scan(results))
}

func TestScan_FilingItems(t *testing.T) {
	s := New(testConfig())
	results := []entity.SourceResult{
		okResult("sec_filings", entity.FilingsPayload{Filings: map[string][]entity.Filing{
			"NVDA": {
				{FilingType: "8-K", FiledDate: "2026-06-10", Items: []string{"5.02", "9.01"}},
				{FilingType: "S-3ASR", FiledDate: "2026-06-11"},
			},
		}}),
	}

	flags := s.Scan(results)

	assert.Len(t, flags, 2)
	assert.Equal(t, entity.FlagLeadershipDeparture, flags[0].Category)
	assert.Equal(t, entity.FlagDilutiveOffering, flags[1].Category)
}

func TestScan_HeadlineKeywords(t *testing.T) {
	s := New(testConfig())
	results := []entity.SourceResult{
		okResult("news", entity.NewsPayload{Headlines: []entity.Headline{
			{Title: "Chipmaker cuts guidance after weak data center demand", Tickers: []string{"NVDA"}},
			{Title: "Quarterly results in line with expectations", Tickers: []string{"AVGO"}},
		}}),
	}

	flags := s.Scan(results)

	assert.Len(t, flags, 1)
	assert.Equal(t, entity.FlagGuidanceCut, flags[0].Category)
	assert.Equal(t, "NVDA", flags[0].Ticker)
}

func TestScan_DedupesAndOrdersByPriority(t *testing.T) {
	s := New(testConfig())
	results := []entity.SourceResult{
		okResult("snapshot", entity.SnapshotPayload{Snapshots: []entity.Snapshot{
			{Ticker: "NVDA", PriceChangePct: utils.ToPointer(12.0)},
		}}),
		okResult("news", entity.NewsPayload{Headlines: []entity.Headline{
			{Title: "CEO steps down effective immediately", Tickers: []string{"NVDA"}},
			{Title: "Board confirms CEO steps down", Tickers: []string{"NVDA"}},
		}}),
	}

	flags := s.Scan(results)

	// One leadership flag despite two matching headlines, and it outranks
	// the price move.
	assert.Len(t, flags, 2)
	assert.Equal(t, entity.FlagLeadershipDeparture, flags[0].Category)
	assert.Equal(t, entity.FlagLargePriceMove, flags[1].Category)
}

func TestDetectClusterSelling(t *testing.T) {
	transactions := []entity.InsiderTransaction{
		{TradeDate: "2026-06-01", InsiderName: "Alice Smith", TradeType: "S - Sale"},
		{TradeDate: "2026-06-05", InsiderName: "Bob Jones", TradeType: "S - Sale"},
		{TradeDate: "2026-06-20", InsiderName: "Carol White", TradeType: "P - Purchase"},
	}

	assert.True(t, DetectClusterSelling(transactions, 2, 7))
	assert.False(t, DetectClusterSelling(transactions, 3, 7))
	assert.False(t, DetectClusterSelling(transactions, 2, 2))
}

func TestDetectClusterSelling_SameSellerDoesNotCluster(t *testing.T) {
	transactions := []entity.InsiderTransaction{
		{TradeDate: "2026-06-01", InsiderName: "Alice Smith", TradeType: "S - Sale"},
		{TradeDate: "2026-06-02", InsiderName: "Alice Smith", TradeType: "S - Sale"},
	}

	assert.False(t, DetectClusterSelling(transactions, 2, 7))
}
