package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-stock-briefing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
app:
  name: stock-briefing
  env: test
watchlist:
  - ticker: NVDA
    company: NVIDIA Corporation
    earnings_date: "2026-08-26"
  - ticker: ""
    company: blank rows are ignored
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Guardrails.StaleDataMaxDays)
	assert.Equal(t, 7.0, cfg.Guardrails.PriceMovePctThreshold)
	assert.Equal(t, 1, cfg.Guardrails.EarningsWindowDays)
	assert.Equal(t, 2, cfg.Guardrails.InsiderClusterMinSellers)
	assert.Equal(t, []int{1, 15}, cfg.Cadence.BiMonthlyDays)
	assert.Equal(t, "America/New_York", cfg.Cadence.Timezone)
	assert.Equal(t, 90*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, []string{"snapshot", "news", "sec_filings", "market_intel", "insider_activity"}, cfg.Sources.Order)
	assert.Equal(t, []string{"MSFT", "GOOG", "META", "AMZN"}, cfg.Sources.Ecosystem.Hyperscalers)
	assert.Equal(t, "30 7 * * MON-FRI", cfg.Scheduler.CronSpec)
	assert.Equal(t, cfg.Cadence.Timezone, cfg.Scheduler.Timezone)
}

func TestWatchlistItems(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	items := cfg.WatchlistItems()
	require.Len(t, items, 1)
	assert.Equal(t, "NVDA", items[0].Symbol)
	assert.Equal(t, "NVIDIA Corporation", items[0].Company)
	require.NotNil(t, items[0].EarningsDate)
	assert.Equal(t, "2026-08-26", utils.FormatISODate(*items[0].EarningsDate))
}

func TestLoad_AppliesWatchlistProposal(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimalYAML)

	proposal := `
generated_at: "2026-08-20T12:00:00Z"
earnings:
  NVDA: "2026-11-18"
  UNKNOWN: "2026-12-01"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "watchlist.next.yaml"), []byte(proposal), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	items := cfg.WatchlistItems()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].EarningsDate)
	assert.Equal(t, "2026-11-18", utils.FormatISODate(*items[0].EarningsDate))
}

func TestLoad_NoProposalSidecar(t *testing.T) {
	path := writeConfig(t, t.TempDir(), minimalYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "watchlist.next.yaml"), cfg.ProposalPath())
}
