package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
	"go-stock-briefing/pkg/utils"
)

// HistorySink persists the run into the run-history database. Saving the
// same date twice replaces the stored row.
type HistorySink struct {
	log  *logger.Logger
	repo repository.RunHistoryRepository
}

// NewHistorySink creates the run-history sink.
func NewHistorySink(log *logger.Logger, repo repository.RunHistoryRepository) *HistorySink {
	return &HistorySink{log: log, repo: repo}
}

func (s *HistorySink) Name() string { return "run_history" }

func (s *HistorySink) Deliver(ctx context.Context, report *entity.RunReport, markdown string) error {
	layersJSON, err := json.Marshal(report.Layers)
	if err != nil {
		return fmt.Errorf("failed to marshal layers: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	run := &entity.BriefingRun{
		RunDate:     utils.FormatISODate(report.Date),
		Environment: report.Environment,
		Status:      string(report.Status),
		Depth:       string(report.Depth),
		TradingDay:  report.TradingDay,
		Layers:      layersJSON,
		Report:      reportJSON,
		Markdown:    markdown,
	}
	if err := s.repo.Save(ctx, run); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}

	s.log.DebugContext(ctx, "Persisted briefing run", logger.StringField("run_date", run.RunDate))
	return nil
}
