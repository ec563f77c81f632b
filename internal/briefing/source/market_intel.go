package source

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/briefing/dto"
	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
	"go-stock-briefing/pkg/utils"
)

// MarketIntelSource covers the slower-moving layers: short interest for the
// watchlist, ecosystem demand signals, and the earnings-date refresh
// proposal. It reuses the quote repository's in-run cache, so a ticker is
// still fetched at most once per run.
type MarketIntelSource struct {
	log       *logger.Logger
	quoteRepo repository.QuoteRepository
	ecosystem config.Ecosystem
}

// NewMarketIntelSource creates the market-intel source.
func NewMarketIntelSource(log *logger.Logger, quoteRepo repository.QuoteRepository, ecosystem config.Ecosystem) *MarketIntelSource {
	return &MarketIntelSource{
		log:       log,
		quoteRepo: quoteRepo,
		ecosystem: ecosystem,
	}
}

func (s *MarketIntelSource) Name() string { return NameMarketIntel }

func (s *MarketIntelSource) ActiveFor(input *RunInput) bool {
	return input.Plan.HasLayer(entity.LayerWeekly) || input.Plan.HasLayer(entity.LayerBiMonthly)
}

func (s *MarketIntelSource) TriggeredBy([]entity.RedFlag) bool { return false }

func (s *MarketIntelSource) Fetch(ctx context.Context, input *RunInput) (interface{}, error) {
	infoCache := make(map[string]*dto.TickerInfo)
	var fetchErrors int

	for _, ticker := range s.allTickers(input.Watchlist) {
		info, err := s.quoteRepo.GetInfo(ctx, ticker)
		if err != nil {
			s.log.Warn("Failed to fetch market intel", logger.ErrorField(err), logger.StringField("ticker", ticker))
			fetchErrors++
			continue
		}
		infoCache[ticker] = info
	}
	if len(infoCache) == 0 {
		return nil, fmt.Errorf("market intel unavailable: %d fetch errors, no data", fetchErrors)
	}

	payload := entity.MarketIntelPayload{
		ShortInterest: make(map[string]entity.ShortInterest, len(input.Watchlist)),
	}
	for _, item := range input.Watchlist {
		payload.ShortInterest[item.Symbol] = extractShortInterest(infoCache[item.Symbol])
	}
	payload.Ecosystem = s.buildEcosystemSignals(input, infoCache)
	payload.EarningsRefresh = buildEarningsRefresh(input, infoCache)

	return payload, nil
}

func (s *MarketIntelSource) allTickers(watchlist entity.Watchlist) []string {
	set := make(map[string]struct{})
	for _, item := range watchlist {
		set[item.Symbol] = struct{}{}
		for _, peer := range s.ecosystem.Peers[item.Symbol] {
			set[peer] = struct{}{}
		}
	}
	for _, t := range s.ecosystem.Hyperscalers {
		set[t] = struct{}{}
	}
	for _, t := range s.ecosystem.SupplyChain {
		set[t] = struct{}{}
	}

	tickers := make([]string, 0, len(set))
	for t := range set {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func extractShortInterest(info *dto.TickerInfo) entity.ShortInterest {
	if info == nil {
		return entity.ShortInterest{}
	}

	si := entity.ShortInterest{
		SharesShort:           info.SharesShort,
		SharesShortPriorMonth: info.SharesShortPriorMonth,
		Available:             info.SharesShort != nil,
	}
	if info.ShortRatio != nil {
		si.ShortRatio = utils.ToPointer(roundTo(*info.ShortRatio, 2))
	}
	if info.ShortPercentOfFloat != nil {
		si.ShortPctOfFloat = utils.ToPointer(roundTo(*info.ShortPercentOfFloat*100, 2))
	}
	if info.SharesShort != nil && info.SharesShortPriorMonth != nil && *info.SharesShortPriorMonth > 0 {
		change := float64(*info.SharesShort-*info.SharesShortPriorMonth) / float64(*info.SharesShortPriorMonth) * 100
		si.ChangePct = utils.ToPointer(roundTo(change, 2))
	}
	if info.DateShortInterest != nil {
		si.ReportDate = time.Unix(*info.DateShortInterest, 0).UTC().Format("2006-01-02")
	}
	return si
}

func (s *MarketIntelSource) buildEcosystemSignals(input *RunInput, infoCache map[string]*dto.TickerInfo) entity.EcosystemSignals {
	tracked := make(map[string]struct{})
	for _, t := range s.ecosystem.Hyperscalers {
		tracked[t] = struct{}{}
	}
	for _, t := range s.ecosystem.SupplyChain {
		tracked[t] = struct{}{}
	}
	for _, item := range input.Watchlist {
		for _, peer := range s.ecosystem.Peers[item.Symbol] {
			tracked[peer] = struct{}{}
		}
	}

	var signals entity.EcosystemSignals
	hyperscalers := make(map[string]struct{}, len(s.ecosystem.Hyperscalers))
	for _, t := range s.ecosystem.Hyperscalers {
		hyperscalers[t] = struct{}{}
	}
	supplyChain := make(map[string]struct{}, len(s.ecosystem.SupplyChain))
	for _, t := range s.ecosystem.SupplyChain {
		supplyChain[t] = struct{}{}
	}

	tickers := make([]string, 0, len(tracked))
	for t := range tracked {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		info := infoCache[ticker]
		if info == nil {
			continue
		}
		entry := entity.EcosystemEntry{Ticker: ticker, Name: info.ShortName}
		if info.RevenueGrowth != nil {
			entry.RevenueGrowthYoY = utils.ToPointer(roundTo(*info.RevenueGrowth*100, 1))
		}
		if info.EarningsGrowth != nil {
			entry.EarningsGrowthYoY = utils.ToPointer(roundTo(*info.EarningsGrowth*100, 1))
		}
		if next := nextEarningsDate(info, input.Date); next != nil {
			entry.NextEarnings = next.Format("2006-01-02")
		}

		if entry.NextEarnings != "" {
			earningsDate, _ := utils.ParseISODate(entry.NextEarnings)
			entry.DaysUntilEarnings = utils.DaysBetween(input.Date, earningsDate)
			switch {
			case entry.DaysUntilEarnings >= 0 && entry.DaysUntilEarnings <= 30:
				signals.UpcomingEarnings = append(signals.UpcomingEarnings, entry)
			case entry.DaysUntilEarnings >= -14 && entry.DaysUntilEarnings < 0:
				signals.RecentResults = append(signals.RecentResults, entry)
			}
		}

		if _, isHyperscaler := hyperscalers[ticker]; isHyperscaler && entry.RevenueGrowthYoY != nil && *entry.RevenueGrowthYoY > 15 {
			signals.Signals = append(signals.Signals,
				fmt.Sprintf("%s revenue growing %.1f%% YoY, positive AI capex signal", ticker, *entry.RevenueGrowthYoY))
		}
		if _, isSupplyChain := supplyChain[ticker]; isSupplyChain && entry.RevenueGrowthYoY != nil {
			rg := *entry.RevenueGrowthYoY
			direction := "contracting"
			if rg > 10 {
				direction = "expanding"
			} else if rg > 0 {
				direction = "moderating"
			}
			signals.Signals = append(signals.Signals,
				fmt.Sprintf("%s revenue %s (%.1f%% YoY), semiconductor demand proxy", ticker, direction, rg))
		}
	}

	sort.Slice(signals.UpcomingEarnings, func(i, j int) bool {
		return signals.UpcomingEarnings[i].DaysUntilEarnings < signals.UpcomingEarnings[j].DaysUntilEarnings
	})
	sort.Slice(signals.RecentResults, func(i, j int) bool {
		return signals.RecentResults[i].DaysUntilEarnings > signals.RecentResults[j].DaysUntilEarnings
	})
	return signals
}

// buildEarningsRefresh proposes new earnings dates for watchlist items
// whose configured date is missing or already past. The proposal is
// applied between runs, never to the live config.
func buildEarningsRefresh(input *RunInput, infoCache map[string]*dto.TickerInfo) entity.EarningsRefresh {
	refresh := entity.EarningsRefresh{}

	for _, item := range input.Watchlist {
		needsUpdate := item.EarningsDate == nil || item.EarningsDate.Before(utils.Midnight(input.Date))
		if !needsUpdate {
			refresh.Unchanged = append(refresh.Unchanged, item.Symbol)
			continue
		}

		next := nextEarningsDate(infoCache[item.Symbol], input.Date)
		if next == nil {
			refresh.Unchanged = append(refresh.Unchanged, item.Symbol)
			continue
		}

		oldDate := "null"
		if item.EarningsDate != nil {
			oldDate = utils.FormatISODate(*item.EarningsDate)
		}
		refresh.Updated = append(refresh.Updated, entity.EarningsUpdate{
			Ticker:  item.Symbol,
			OldDate: oldDate,
			NewDate: utils.FormatISODate(*next),
		})
	}
	return refresh
}

func nextEarningsDate(info *dto.TickerInfo, today time.Time) *time.Time {
	if info == nil {
		return nil
	}
	var next *time.Time
	for _, ts := range info.EarningsTimestamps {
		d := utils.Midnight(time.Unix(ts, 0).UTC())
		if d.Before(utils.Midnight(today)) {
			continue
		}
		if next == nil || d.Before(*next) {
			next = &d
		}
	}
	return next
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow10(decimals)
	return math.Round(value*factor) / factor
}
