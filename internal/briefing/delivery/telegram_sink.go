package delivery

import (
	"context"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
	"go-stock-briefing/pkg/telegram"
)

// TelegramSink pushes the run summary to the configured chat. The full
// markdown stays on disk; Telegram only gets the condensed view.
type TelegramSink struct {
	log      *logger.Logger
	notifier telegram.Notifier
}

// NewTelegramSink creates the Telegram notification sink.
func NewTelegramSink(log *logger.Logger, notifier telegram.Notifier) *TelegramSink {
	return &TelegramSink{log: log, notifier: notifier}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(_ context.Context, report *entity.RunReport, _ string) error {
	// Nothing was collected on a closed market day; no one needs a ping.
	if !report.TradingDay {
		s.log.Debug("Markets closed, skipping notification")
		return nil
	}
	return s.notifier.SendMessage(telegram.FormatRunSummaryForTelegram(report))
}
