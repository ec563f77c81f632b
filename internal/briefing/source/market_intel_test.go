package source

import (
	"testing"
	"time"

	"go-stock-briefing/internal/briefing/dto"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intelDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := utils.ParseISODate(value)
	require.NoError(t, err)
	return d
}

func TestExtractShortInterest(t *testing.T) {
	info := &dto.TickerInfo{
		SharesShort:           utils.ToPointer(int64(220_000_000)),
		SharesShortPriorMonth: utils.ToPointer(int64(200_000_000)),
		ShortRatio:            utils.ToPointer(1.234),
		ShortPercentOfFloat:   utils.ToPointer(0.0123),
	}

	si := extractShortInterest(info)

	assert.True(t, si.Available)
	require.NotNil(t, si.ChangePct)
	assert.InDelta(t, 10.0, *si.ChangePct, 0.001)
	require.NotNil(t, si.ShortRatio)
	assert.Equal(t, 1.23, *si.ShortRatio)
	require.NotNil(t, si.ShortPctOfFloat)
	assert.Equal(t, 1.23, *si.ShortPctOfFloat)
}

func TestExtractShortInterest_NoData(t *testing.T) {
	si := extractShortInterest(nil)
	assert.False(t, si.Available)

	si = extractShortInterest(&dto.TickerInfo{})
	assert.False(t, si.Available)
	assert.Nil(t, si.ChangePct)
}

func TestNextEarningsDate(t *testing.T) {
	today := intelDate(t, "2026-06-16")
	past := intelDate(t, "2026-05-27").Unix()
	near := intelDate(t, "2026-08-26").Unix()
	far := intelDate(t, "2026-11-18").Unix()

	info := &dto.TickerInfo{EarningsTimestamps: []int64{far, past, near}}
	next := nextEarningsDate(info, today)

	require.NotNil(t, next)
	assert.Equal(t, "2026-08-26", utils.FormatISODate(*next))

	assert.Nil(t, nextEarningsDate(&dto.TickerInfo{EarningsTimestamps: []int64{past}}, today))
	assert.Nil(t, nextEarningsDate(nil, today))
}

func TestBuildEarningsRefresh(t *testing.T) {
	today := intelDate(t, "2026-06-16")
	stale := intelDate(t, "2026-05-27")
	current := intelDate(t, "2026-08-26")
	proposed := intelDate(t, "2026-08-26").Unix()

	input := &RunInput{
		Date: today,
		Watchlist: entity.Watchlist{
			{Symbol: "NVDA", EarningsDate: &stale},
			{Symbol: "AVGO", EarningsDate: &current},
			{Symbol: "TSM"},
		},
	}
	infoCache := map[string]*dto.TickerInfo{
		"NVDA": {EarningsTimestamps: []int64{proposed}},
	}

	refresh := buildEarningsRefresh(input, infoCache)

	require.Len(t, refresh.Updated, 1)
	assert.Equal(t, "NVDA", refresh.Updated[0].Ticker)
	assert.Equal(t, "2026-05-27", refresh.Updated[0].OldDate)
	assert.Equal(t, "2026-08-26", refresh.Updated[0].NewDate)

	// AVGO's date is still ahead; TSM has no proposal available.
	assert.ElementsMatch(t, []string{"AVGO", "TSM"}, refresh.Unchanged)
}
