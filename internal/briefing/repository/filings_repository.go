package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/briefing/dto"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"

	"golang.org/x/time/rate"
)

// FilingsRepository queries SEC EDGAR full-text search for recent filings.
type FilingsRepository interface {
	GetFilings(ctx context.Context, ticker string, start, end time.Time) ([]entity.Filing, error)
}

type filingsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFilingsRepository creates a new EDGAR filings repository.
func NewFilingsRepository(cfg *config.Config, log *logger.Logger) FilingsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Sources.Filings.MaxRequestPerMinute)
	return &filingsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *filingsRepository) GetFilings(ctx context.Context, ticker string, start, end time.Time) ([]entity.Filing, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?q=%s&forms=%s&dateRange=custom&startdt=%s&enddt=%s",
		r.cfg.Sources.Filings.BaseURL,
		url.QueryEscape(fmt.Sprintf("%q", ticker)),
		url.QueryEscape(strings.Join(r.cfg.Sources.Filings.FormTypes, ",")),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// EDGAR rejects anonymous clients; the user agent must carry a contact.
	req.Header.Set("User-Agent", r.cfg.Sources.Filings.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edgar request failed for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edgar request for %s returned status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var search dto.EdgarSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("failed to decode edgar response for %s: %w", ticker, err)
	}

	filings := ParseEdgarHits(search.Hits.Hits)
	r.log.DebugContext(ctx, "Fetched EDGAR filings",
		logger.StringField("ticker", ticker),
		logger.IntField("count", len(filings)),
	)
	return filings, nil
}

// ParseEdgarHits converts raw search hits into filings, deduplicating by
// accession number.
func ParseEdgarHits(hits []dto.EdgarHit) []entity.Filing {
	var filings []entity.Filing
	seen := make(map[string]struct{})

	for _, hit := range hits {
		src := hit.Source
		if _, dup := seen[src.Adsh]; dup && src.Adsh != "" {
			continue
		}
		seen[src.Adsh] = struct{}{}

		formType := src.Form
		if formType == "" {
			formType = src.FileType
		}
		if formType == "" && len(src.RootForms) > 0 {
			formType = src.RootForms[0]
		}

		filedDate := src.FileDate
		if filedDate == "" {
			filedDate = src.DateFiled
		}

		title := strings.Join(src.DisplayNames, "; ")
		if title == "" {
			title = src.EntityName
		}

		var archiveURL string
		if src.Adsh != "" && len(src.Ciks) > 0 {
			archiveURL = fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/", src.Ciks[0], src.Adsh)
		}

		filings = append(filings, entity.Filing{
			FilingType: strings.TrimSpace(formType),
			FiledDate:  strings.TrimSpace(filedDate),
			Title:      strings.TrimSpace(title),
			URL:        archiveURL,
			Items:      src.Items,
		})
	}
	return filings
}
