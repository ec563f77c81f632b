package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// NewsRepository fetches recent headlines for a ticker from the Google News
// RSS feed, optionally extracting article text for keyword scanning.
type NewsRepository interface {
	GetHeadlines(ctx context.Context, ticker, company string, now time.Time) ([]entity.Headline, error)
}

type newsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewNewsRepository creates a new news repository.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (r *newsRepository) GetHeadlines(ctx context.Context, ticker, company string, now time.Time) ([]entity.Headline, error) {
	query := fmt.Sprintf("%s %s stock", ticker, company)
	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", url.QueryEscape(query))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed for %s: %w", ticker, err)
	}

	sort.Slice(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	maxAge := time.Duration(r.cfg.Sources.News.MaxAgeDays) * 24 * time.Hour
	headlines := make([]entity.Headline, 0, r.cfg.Sources.News.MaxItems)

	for _, item := range feed.Items {
		if len(headlines) >= r.cfg.Sources.News.MaxItems {
			break
		}
		if item.PublishedParsed != nil && now.Sub(*item.PublishedParsed) > maxAge {
			continue
		}
		if r.blacklisted(item.Link) {
			continue
		}

		headline := entity.Headline{
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Published: item.PublishedParsed,
			Tickers:   []string{ticker},
		}
		if item.Custom != nil {
			headline.Source = item.Custom["source"]
		}
		if headline.Source == "" && feed.Title != "" {
			headline.Source = feed.Title
		}

		if r.cfg.Sources.News.ExtractContent {
			headline.Excerpt = r.extractExcerpt(ctx, item.Link)
		}

		headlines = append(headlines, headline)
	}

	r.log.DebugContext(ctx, "Fetched headlines",
		logger.StringField("ticker", ticker),
		logger.IntField("count", len(headlines)),
	)
	return headlines, nil
}

func (r *newsRepository) blacklisted(link string) bool {
	for _, domain := range r.cfg.Sources.News.BlacklistedDomains {
		if strings.Contains(link, domain) {
			return true
		}
	}
	return false
}

// extractExcerpt pulls a short readable snippet from the article body.
// Extraction failures are tolerated; the headline alone still counts.
func (r *newsRepository) extractExcerpt(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return ""
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return ""
	}

	docHTML, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content()))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(docHTML.Text()), " ")
	if len(text) > 500 {
		text = text[:500]
	}
	return text
}
