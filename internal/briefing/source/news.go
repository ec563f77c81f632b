package source

import (
	"context"
	"fmt"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
)

// NewsSource collects recent headlines per watchlist ticker.
type NewsSource struct {
	log      *logger.Logger
	newsRepo repository.NewsRepository
}

// NewNewsSource creates the news-headlines source.
func NewNewsSource(log *logger.Logger, newsRepo repository.NewsRepository) *NewsSource {
	return &NewsSource{log: log, newsRepo: newsRepo}
}

func (s *NewsSource) Name() string { return NameNews }

func (s *NewsSource) ActiveFor(input *RunInput) bool {
	return input.Plan.HasLayer(entity.LayerDaily)
}

func (s *NewsSource) TriggeredBy([]entity.RedFlag) bool { return false }

func (s *NewsSource) Fetch(ctx context.Context, input *RunInput) (interface{}, error) {
	payload := entity.NewsPayload{}
	failures := 0

	for _, item := range input.Watchlist {
		headlines, err := s.newsRepo.GetHeadlines(ctx, item.Symbol, item.Company, input.Date)
		if err != nil {
			s.log.Warn("Failed to fetch headlines", logger.ErrorField(err), logger.StringField("ticker", item.Symbol))
			failures++
			continue
		}
		payload.Headlines = append(payload.Headlines, headlines...)
	}

	if len(input.Watchlist) > 0 && failures == len(input.Watchlist) {
		return nil, fmt.Errorf("news feed unavailable for all %d tickers", len(input.Watchlist))
	}
	return payload, nil
}
