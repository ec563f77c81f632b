package source

import (
	"context"
	"errors"
	"testing"

	"go-stock-briefing/internal/briefing/dto"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
	"go-stock-briefing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedQuotes answers from a fixed map and errors on everything else.
type scriptedQuotes struct {
	infos map[string]*dto.TickerInfo
	err   error
}

func (s scriptedQuotes) GetInfo(_ context.Context, symbol string) (*dto.TickerInfo, error) {
	if info, ok := s.infos[symbol]; ok {
		return info, nil
	}
	return nil, s.err
}

func sourceLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func TestSnapshotFetch_FallsBackToLastKnownPrice(t *testing.T) {
	date, err := utils.ParseISODate("2026-06-16")
	require.NoError(t, err)
	lastAt := date.AddDate(0, 0, -3)

	input := &RunInput{
		Date: date,
		Watchlist: entity.Watchlist{{
			Symbol:          "NVDA",
			Company:         "NVIDIA",
			LastKnownPrice:  utils.ToPointer(95.0),
			LastKnownStatus: entity.StatusAutoClear,
			LastKnownAt:     &lastAt,
		}},
	}
	src := NewSnapshotSource(sourceLogger(t), scriptedQuotes{err: errors.New("host unreachable")})

	payload, err := src.Fetch(context.Background(), input)
	require.NoError(t, err)

	snaps := payload.(entity.SnapshotPayload).Snapshots
	require.Len(t, snaps, 1)
	require.NotNil(t, snaps[0].Price)
	assert.Equal(t, 95.0, *snaps[0].Price)
	require.NotNil(t, snaps[0].LastTradeDate)
	assert.Equal(t, lastAt, *snaps[0].LastTradeDate)
	assert.Contains(t, snaps[0].Error, "showing last known price")

	// A fallback price is still missing data for the guardrails.
	assert.True(t, snaps[0].Missing())
}

func TestSnapshotFetch_AllTickersFailWithoutFallback(t *testing.T) {
	date, err := utils.ParseISODate("2026-06-16")
	require.NoError(t, err)

	input := &RunInput{
		Date:      date,
		Watchlist: entity.Watchlist{{Symbol: "NVDA", Company: "NVIDIA"}},
	}
	src := NewSnapshotSource(sourceLogger(t), scriptedQuotes{err: errors.New("host unreachable")})

	_, err = src.Fetch(context.Background(), input)
	require.Error(t, err)
}

func TestComputePriceChangePct(t *testing.T) {
	change := ComputePriceChangePct(utils.ToPointer(110.0), utils.ToPointer(100.0))
	require.NotNil(t, change)
	assert.InDelta(t, 10.0, *change, 0.001)

	change = ComputePriceChangePct(utils.ToPointer(95.5), utils.ToPointer(100.0))
	require.NotNil(t, change)
	assert.InDelta(t, -4.5, *change, 0.001)
}

func TestComputePriceChangePct_Guards(t *testing.T) {
	assert.Nil(t, ComputePriceChangePct(nil, utils.ToPointer(100.0)))
	assert.Nil(t, ComputePriceChangePct(utils.ToPointer(100.0), nil))
	assert.Nil(t, ComputePriceChangePct(utils.ToPointer(100.0), utils.ToPointer(0.0)))

	// Unchanged price reports no move.
	assert.Nil(t, ComputePriceChangePct(utils.ToPointer(100.0), utils.ToPointer(100.0)))

	// Off-scale previous closes are split or currency artifacts.
	assert.Nil(t, ComputePriceChangePct(utils.ToPointer(100.0), utils.ToPointer(0.5)))
	assert.Nil(t, ComputePriceChangePct(utils.ToPointer(1.0), utils.ToPointer(150.0)))
}

func TestComputePriceChangePct_Rounding(t *testing.T) {
	change := ComputePriceChangePct(utils.ToPointer(100.333), utils.ToPointer(100.0))
	require.NotNil(t, change)
	assert.Equal(t, 0.33, *change)
}
