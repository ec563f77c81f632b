package source

import (
	"context"
	"fmt"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
)

// FilingsSource collects recent SEC filings per watchlist ticker.
type FilingsSource struct {
	log          *logger.Logger
	filingsRepo  repository.FilingsRepository
	lookbackDays int
}

// NewFilingsSource creates the SEC filings source.
func NewFilingsSource(log *logger.Logger, filingsRepo repository.FilingsRepository, lookbackDays int) *FilingsSource {
	return &FilingsSource{
		log:          log,
		filingsRepo:  filingsRepo,
		lookbackDays: lookbackDays,
	}
}

func (s *FilingsSource) Name() string { return NameSECFilings }

func (s *FilingsSource) ActiveFor(input *RunInput) bool {
	return input.Plan.HasLayer(entity.LayerDaily)
}

func (s *FilingsSource) TriggeredBy([]entity.RedFlag) bool { return false }

func (s *FilingsSource) Fetch(ctx context.Context, input *RunInput) (interface{}, error) {
	payload := entity.FilingsPayload{
		Filings: make(map[string][]entity.Filing, len(input.Watchlist)),
	}
	start := input.Date.AddDate(0, 0, -s.lookbackDays)
	failures := 0

	for _, item := range input.Watchlist {
		filings, err := s.filingsRepo.GetFilings(ctx, item.Symbol, start, input.Date)
		if err != nil {
			s.log.Warn("Failed to fetch filings", logger.ErrorField(err), logger.StringField("ticker", item.Symbol))
			failures++
			payload.Filings[item.Symbol] = nil
			continue
		}
		payload.Filings[item.Symbol] = filings
	}

	if len(input.Watchlist) > 0 && failures == len(input.Watchlist) {
		return nil, fmt.Errorf("filings search unavailable for all %d tickers", len(input.Watchlist))
	}
	return payload, nil
}
