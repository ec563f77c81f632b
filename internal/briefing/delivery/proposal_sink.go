package delivery

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"

	"gopkg.in/yaml.v3"
)

// ProposalSink writes the earnings-refresh proposal sidecar next to the
// config file. The next config load overlays it onto the watchlist; the
// live config file is never rewritten.
type ProposalSink struct {
	log  *logger.Logger
	path string
}

// NewProposalSink creates the watchlist-proposal sink.
func NewProposalSink(log *logger.Logger, path string) *ProposalSink {
	return &ProposalSink{log: log, path: path}
}

func (s *ProposalSink) Name() string { return "watchlist_proposal" }

type proposalFile struct {
	GeneratedAt string            `yaml:"generated_at"`
	Earnings    map[string]string `yaml:"earnings"`
}

func (s *ProposalSink) Deliver(_ context.Context, report *entity.RunReport, _ string) error {
	refresh, ok := marketIntelRefresh(report.Results)
	if !ok || len(refresh.Updated) == 0 {
		return nil
	}

	proposal := proposalFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Earnings:    make(map[string]string, len(refresh.Updated)),
	}
	for _, update := range refresh.Updated {
		proposal.Earnings[update.Ticker] = update.NewDate
	}

	data, err := yaml.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal watchlist proposal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write watchlist proposal: %w", err)
	}

	s.log.Info("Wrote watchlist proposal",
		logger.StringField("path", s.path),
		logger.IntField("updates", len(refresh.Updated)),
	)
	return nil
}

func marketIntelRefresh(results []entity.SourceResult) (entity.EarningsRefresh, bool) {
	for _, result := range results {
		if result.Source != source.NameMarketIntel || !result.OK() {
			continue
		}
		switch payload := result.Payload.(type) {
		case entity.MarketIntelPayload:
			return payload.EarningsRefresh, true
		case *entity.MarketIntelPayload:
			return payload.EarningsRefresh, true
		}
	}
	return entity.EarningsRefresh{}, false
}
