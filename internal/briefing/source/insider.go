package source

import (
	"context"
	"fmt"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/briefing/scanner"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
)

// InsiderSource collects open-market insider transactions. It runs on the
// weekly layer, and is also pulled in as a follow-up stage when the first
// scan raises any red flag on a day it was not scheduled.
type InsiderSource struct {
	log               *logger.Logger
	insiderRepo       repository.InsiderRepository
	clusterMinSellers int
	clusterWindowDays int
}

// NewInsiderSource creates the insider-activity source.
func NewInsiderSource(log *logger.Logger, insiderRepo repository.InsiderRepository, clusterMinSellers, clusterWindowDays int) *InsiderSource {
	return &InsiderSource{
		log:               log,
		insiderRepo:       insiderRepo,
		clusterMinSellers: clusterMinSellers,
		clusterWindowDays: clusterWindowDays,
	}
}

func (s *InsiderSource) Name() string { return NameInsider }

func (s *InsiderSource) ActiveFor(input *RunInput) bool {
	return input.Plan.HasLayer(entity.LayerWeekly)
}

func (s *InsiderSource) TriggeredBy(flags []entity.RedFlag) bool {
	return len(flags) > 0
}

func (s *InsiderSource) Fetch(ctx context.Context, input *RunInput) (interface{}, error) {
	payload := entity.InsiderPayload{
		Activity: make(map[string]entity.InsiderActivity, len(input.Watchlist)),
	}
	failures := 0

	for _, item := range input.Watchlist {
		transactions, err := s.insiderRepo.GetTransactions(ctx, item.Symbol)
		if err != nil {
			s.log.Warn("Failed to fetch insider transactions", logger.ErrorField(err), logger.StringField("ticker", item.Symbol))
			failures++
			payload.Activity[item.Symbol] = entity.InsiderActivity{}
			continue
		}
		payload.Activity[item.Symbol] = entity.InsiderActivity{
			Transactions: transactions,
			ClusterAlert: scanner.DetectClusterSelling(transactions, s.clusterMinSellers, s.clusterWindowDays),
		}
	}

	if len(input.Watchlist) > 0 && failures == len(input.Watchlist) {
		return nil, fmt.Errorf("insider screener unavailable for all %d tickers", len(input.Watchlist))
	}
	return payload, nil
}
