package delivery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestProposalSink_WritesSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.next.yaml")
	sink := NewProposalSink(testLogger(t), path)

	report := testReport(t)
	report.Results = []entity.SourceResult{{
		Source: source.NameMarketIntel,
		Status: entity.SourceStatusOK,
		Payload: entity.MarketIntelPayload{
			EarningsRefresh: entity.EarningsRefresh{
				Updated: []entity.EarningsUpdate{
					{Ticker: "NVDA", OldDate: "2026-05-27", NewDate: "2026-08-26"},
				},
				Unchanged: []string{"AVGO"},
			},
		},
	}}

	require.NoError(t, sink.Deliver(context.Background(), report, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var proposal struct {
		GeneratedAt string            `yaml:"generated_at"`
		Earnings    map[string]string `yaml:"earnings"`
	}
	require.NoError(t, yaml.Unmarshal(data, &proposal))
	assert.NotEmpty(t, proposal.GeneratedAt)
	assert.Equal(t, map[string]string{"NVDA": "2026-08-26"}, proposal.Earnings)
}

func TestProposalSink_NoUpdatesWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.next.yaml")
	sink := NewProposalSink(testLogger(t), path)

	report := testReport(t)
	report.Results = []entity.SourceResult{{
		Source:  source.NameMarketIntel,
		Status:  entity.SourceStatusOK,
		Payload: entity.MarketIntelPayload{},
	}}

	require.NoError(t, sink.Deliver(context.Background(), report, ""))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
