package source

import (
	"context"
	"time"

	"go-stock-briefing/internal/briefing/cadence"
	"go-stock-briefing/internal/entity"
)

// Source names, which double as report section anchors. Results are merged
// in the configured order regardless of completion order.
const (
	NameSnapshot    = "snapshot"
	NameNews        = "news"
	NameSECFilings  = "sec_filings"
	NameMarketIntel = "market_intel"
	NameInsider     = "insider_activity"
)

// RunInput is the immutable per-run context handed to every source.
type RunInput struct {
	Date      time.Time
	Plan      cadence.Plan
	Watchlist entity.Watchlist
}

// DataSource is the uniform contract wrapping one external provider.
// ActiveFor gates the parallel stage; TriggeredBy gates the sequenced
// follow-up stage that runs after the first red-flag scan.
type DataSource interface {
	Name() string
	ActiveFor(input *RunInput) bool
	TriggeredBy(flags []entity.RedFlag) bool
	Fetch(ctx context.Context, input *RunInput) (interface{}, error)
}

// FallbackSource tries a primary source and falls back to a secondary on
// failure, surfacing one unified result.
type FallbackSource struct {
	primary   DataSource
	secondary DataSource
}

// NewFallbackSource composes a primary and a secondary provider.
func NewFallbackSource(primary, secondary DataSource) *FallbackSource {
	return &FallbackSource{primary: primary, secondary: secondary}
}

func (f *FallbackSource) Name() string { return f.primary.Name() }

func (f *FallbackSource) ActiveFor(input *RunInput) bool { return f.primary.ActiveFor(input) }

func (f *FallbackSource) TriggeredBy(flags []entity.RedFlag) bool {
	return f.primary.TriggeredBy(flags)
}

func (f *FallbackSource) Fetch(ctx context.Context, input *RunInput) (interface{}, error) {
	payload, err := f.primary.Fetch(ctx, input)
	if err == nil {
		return payload, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	return f.secondary.Fetch(ctx, input)
}
