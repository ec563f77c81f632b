package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// InsiderRepository scrapes open-market insider transactions from the
// OpenInsider screener.
type InsiderRepository interface {
	GetTransactions(ctx context.Context, ticker string) ([]entity.InsiderTransaction, error)
}

type insiderRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewInsiderRepository creates a new insider-activity repository.
func NewInsiderRepository(cfg *config.Config, log *logger.Logger) InsiderRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Sources.Insider.MaxRequestPerMinute)
	return &insiderRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *insiderRepository) GetTransactions(ctx context.Context, ticker string) ([]entity.InsiderTransaction, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/screener?s=%s&o=&pl=&ph=&st=0&lt=0&td=%d&xp=1",
		r.cfg.Sources.Insider.BaseURL, ticker, r.cfg.Sources.Insider.LookbackDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.cfg.Sources.Insider.UserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openinsider request failed for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openinsider request for %s returned status %d", ticker, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openinsider page for %s: %w", ticker, err)
	}

	transactions := ParseInsiderTable(doc, r.cfg.Sources.Insider.MaxTransactions)
	r.log.DebugContext(ctx, "Fetched insider transactions",
		logger.StringField("ticker", ticker),
		logger.IntField("count", len(transactions)),
	)
	return transactions, nil
}

// ParseInsiderTable extracts transactions from the screener result table.
// A missing table means no transactions in the window, not an error.
func ParseInsiderTable(doc *goquery.Document, maxRows int) []entity.InsiderTransaction {
	var transactions []entity.InsiderTransaction

	doc.Find("table.tinytable tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || len(transactions) >= maxRows {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 13 {
			return
		}

		tx := entity.InsiderTransaction{
			FilingDate:  strings.TrimSpace(cells.Eq(1).Text()),
			TradeDate:   strings.TrimSpace(cells.Eq(2).Text()),
			InsiderName: strings.TrimSpace(cells.Eq(4).Text()),
			Title:       strings.TrimSpace(cells.Eq(5).Text()),
			TradeType:   strings.TrimSpace(cells.Eq(6).Text()),
			Price:       ParseMoney(cells.Eq(8).Text()),
			Shares:      ParseShares(cells.Eq(9).Text()),
			Value:       ParseMoney(cells.Eq(12).Text()),
		}

		if href, ok := cells.Eq(1).Find("a").Attr("href"); ok && strings.HasPrefix(href, "/") {
			tx.FilingURL = "https://www.sec.gov" + href
		}

		transactions = append(transactions, tx)
	})

	return transactions
}

var moneyCleaner = regexp.MustCompile(`[,$]`)

// ParseMoney parses dollar amounts like "$1,234,567" or "-$500".
func ParseMoney(text string) *float64 {
	cleaned := moneyCleaner.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

var sharesCleaner = regexp.MustCompile(`[,+]`)

// ParseShares parses share counts like "+1,234" or "-500".
func ParseShares(text string) *int64 {
	cleaned := sharesCleaner.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}
