package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/briefing/dto"
	"go-stock-briefing/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const quoteSummaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,calendarEvents"

// QuoteRepository fetches the quantitative per-ticker picture. One upstream
// call per unique ticker per run; repeated lookups hit the in-memory cache.
type QuoteRepository interface {
	GetInfo(ctx context.Context, symbol string) (*dto.TickerInfo, error)
}

type quoteRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	infoCache      *cache.Cache
}

// NewQuoteRepository creates a new quote repository.
func NewQuoteRepository(cfg *config.Config, log *logger.Logger) QuoteRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Sources.Quote.MaxRequestPerMinute)
	return &quoteRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		infoCache:      cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (r *quoteRepository) GetInfo(ctx context.Context, symbol string) (*dto.TickerInfo, error) {
	if cached, found := r.infoCache.Get(symbol); found {
		return cached.(*dto.TickerInfo), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		r.cfg.Sources.Quote.BaseURL, url.PathEscape(symbol), url.QueryEscape(quoteSummaryModules))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request for %s returned status %d", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope dto.QuoteSummaryResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode quote response for %s: %w", symbol, err)
	}
	if envelope.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote provider error for %s: %s", symbol, envelope.QuoteSummary.Error.Description)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for %s", symbol)
	}

	info := flattenQuoteSummary(symbol, envelope.QuoteSummary.Result[0])
	r.infoCache.Set(symbol, info, cache.DefaultExpiration)

	r.log.DebugContext(ctx, "Fetched quote info", logger.StringField("symbol", symbol))
	return info, nil
}

func flattenQuoteSummary(symbol string, result dto.QuoteSummaryResult) *dto.TickerInfo {
	info := &dto.TickerInfo{Symbol: symbol, ShortName: symbol}

	if p := result.Price; p != nil {
		if p.ShortName != "" {
			info.ShortName = p.ShortName
		}
		info.Price = p.RegularMarketPrice.Raw
		info.PreviousClose = p.RegularMarketPreviousClose.Raw
		info.RegularMarketTime = p.RegularMarketTime
		info.MarketCap = p.MarketCap.Raw
	}
	if s := result.SummaryDetail; s != nil {
		info.TrailingPE = s.TrailingPE.Raw
		info.ForwardPE = s.ForwardPE.Raw
		info.PriceToSales = s.PriceToSalesTrailing12Mo.Raw
	}
	if k := result.DefaultKeyStatistics; k != nil {
		info.EnterpriseToEbitda = k.EnterpriseToEbitda.Raw
		info.SharesShort = k.SharesShort.Raw
		info.SharesShortPriorMonth = k.SharesShortPriorMonth.Raw
		info.ShortRatio = k.ShortRatio.Raw
		info.ShortPercentOfFloat = k.ShortPercentOfFloat.Raw
		info.DateShortInterest = k.DateShortInterest
	}
	if f := result.FinancialData; f != nil {
		info.RevenueGrowth = f.RevenueGrowth.Raw
		info.EarningsGrowth = f.EarningsGrowth.Raw
	}
	if c := result.CalendarEvents; c != nil {
		for _, d := range c.Earnings.EarningsDate {
			if d.Raw != nil {
				info.EarningsTimestamps = append(info.EarningsTimestamps, *d.Raw)
			}
		}
	}
	return info
}
