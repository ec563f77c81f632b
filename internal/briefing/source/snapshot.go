package source

import (
	"context"
	"fmt"
	"math"
	"time"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
)

// SnapshotSource is the primary quantitative source: one quote fetch per
// watchlist ticker. When today's quote fails for a ticker, its last known
// price carried on the watchlist item stands in, dated by its own last
// trade so the stale-data guardrail sees it for what it is.
type SnapshotSource struct {
	log       *logger.Logger
	quoteRepo repository.QuoteRepository
}

// NewSnapshotSource creates the quantitative snapshot source.
func NewSnapshotSource(log *logger.Logger, quoteRepo repository.QuoteRepository) *SnapshotSource {
	return &SnapshotSource{
		log:       log,
		quoteRepo: quoteRepo,
	}
}

func (s *SnapshotSource) Name() string { return NameSnapshot }

// ActiveFor: the snapshot runs on every open day.
func (s *SnapshotSource) ActiveFor(input *RunInput) bool {
	return input.Plan.HasLayer(entity.LayerDaily)
}

func (s *SnapshotSource) TriggeredBy([]entity.RedFlag) bool { return false }

func (s *SnapshotSource) Fetch(ctx context.Context, input *RunInput) (interface{}, error) {
	payload := entity.SnapshotPayload{
		Snapshots: make([]entity.Snapshot, 0, len(input.Watchlist)),
	}
	failures := 0

	for _, item := range input.Watchlist {
		snap := entity.Snapshot{Ticker: item.Symbol, Company: item.Company}

		info, err := s.quoteRepo.GetInfo(ctx, item.Symbol)
		if err != nil {
			snap.Error = summarizeError(err)
			if item.LastKnownPrice != nil {
				snap.Price = item.LastKnownPrice
				snap.LastTradeDate = item.LastKnownAt
				snap.Error += "; showing last known price"
				s.log.Warn("Quote failed, falling back to last known price",
					logger.StringField("ticker", item.Symbol),
					logger.StringField("prior_status", string(item.LastKnownStatus)),
				)
			} else {
				failures++
			}
			payload.Snapshots = append(payload.Snapshots, snap)
			continue
		}

		price := info.Price
		if price == nil {
			price = info.PreviousClose
		}
		snap.Price = price
		snap.PriceChangePct = ComputePriceChangePct(info.Price, info.PreviousClose)
		snap.MarketCap = info.MarketCap
		snap.PETrailing = info.TrailingPE
		snap.PEForward = info.ForwardPE
		snap.EVEBITDA = info.EnterpriseToEbitda
		snap.PSRatio = info.PriceToSales
		if info.RegularMarketTime != nil {
			t := time.Unix(*info.RegularMarketTime, 0).UTC()
			snap.LastTradeDate = &t
		}
		payload.Snapshots = append(payload.Snapshots, snap)
	}

	if len(input.Watchlist) > 0 && failures == len(input.Watchlist) {
		return nil, fmt.Errorf("quote provider returned no data for any of %d tickers", len(input.Watchlist))
	}
	return payload, nil
}

// ComputePriceChangePct derives the 1-day move, guarding against split or
// currency artifacts where the previous close is wildly off scale.
func ComputePriceChangePct(current, previousClose *float64) *float64 {
	if current == nil || previousClose == nil || *previousClose == 0 {
		return nil
	}
	cur, prev := *current, *previousClose
	if cur == prev {
		return nil
	}
	if prev < cur*0.01 || prev > cur*100 {
		return nil
	}
	change := math.Round(((cur-prev)/prev)*100*100) / 100
	return &change
}

func summarizeError(err error) string {
	text := err.Error()
	if len(text) > 140 {
		text = text[:137] + "..."
	}
	return text
}
