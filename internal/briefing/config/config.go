package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/config"
	"go-stock-briefing/pkg/utils"

	"gopkg.in/yaml.v3"
)

// WatchlistEntry is one configured ticker as written in yaml.
type WatchlistEntry struct {
	Ticker             string `mapstructure:"ticker"`
	Company            string `mapstructure:"company"`
	FiscalYearEndMonth int    `mapstructure:"fiscal_year_end_month"`
	EarningsDate       string `mapstructure:"earnings_date"`
}

// Guardrails holds the quantitative guardrail thresholds.
type Guardrails struct {
	MaxMissingTickers        int     `mapstructure:"max_missing_tickers"`
	StaleDataMaxDays         int     `mapstructure:"stale_data_max_days"`
	PriceMovePctThreshold    float64 `mapstructure:"price_move_pct_threshold"`
	EarningsWindowDays       int     `mapstructure:"earnings_window_days"`
	InsiderClusterMinSellers int     `mapstructure:"insider_cluster_min_sellers"`
	InsiderClusterWindowDays int     `mapstructure:"insider_cluster_window_days"`
}

// Cadence holds the recurrence configuration.
type Cadence struct {
	Timezone      string `mapstructure:"timezone"`
	BiMonthlyDays []int  `mapstructure:"bi_monthly_days"`
}

// Quote holds the quote provider configuration.
type Quote struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Filings holds the SEC EDGAR full-text search configuration.
type Filings struct {
	BaseURL             string   `mapstructure:"base_url"`
	UserAgent           string   `mapstructure:"user_agent"`
	LookbackDays        int      `mapstructure:"lookback_days"`
	FormTypes           []string `mapstructure:"form_types"`
	MaxRequestPerMinute int      `mapstructure:"max_request_per_minute"`
}

// Insider holds the insider-activity screener configuration.
type Insider struct {
	BaseURL             string `mapstructure:"base_url"`
	UserAgent           string `mapstructure:"user_agent"`
	MaxTransactions     int    `mapstructure:"max_transactions"`
	LookbackDays        int    `mapstructure:"lookback_days"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// News holds the news-headlines configuration.
type News struct {
	MaxItems           int      `mapstructure:"max_items"`
	MaxAgeDays         int      `mapstructure:"max_age_days"`
	BlacklistedDomains []string `mapstructure:"blacklisted_domains"`
	ExtractContent     bool     `mapstructure:"extract_content"`
}

// Ecosystem lists the tracked non-watchlist tickers feeding demand signals:
// hyperscaler buyers, supply-chain proxies, and per-ticker peers.
type Ecosystem struct {
	Hyperscalers []string            `mapstructure:"hyperscalers"`
	SupplyChain  []string            `mapstructure:"supply_chain"`
	Peers        map[string][]string `mapstructure:"peers"`
}

// Calendar holds the market-calendar provider configuration. An empty base
// URL disables the primary provider; the weekday heuristic is always the
// fallback.
type Calendar struct {
	BaseURL string `mapstructure:"base_url"`
}

// Sources holds the per-source execution settings.
type Sources struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Order     []string      `mapstructure:"order"`
	Quote     Quote         `mapstructure:"quote"`
	Filings   Filings       `mapstructure:"filings"`
	Insider   Insider       `mapstructure:"insider"`
	News      News          `mapstructure:"news"`
	Calendar  Calendar      `mapstructure:"calendar"`
	Ecosystem Ecosystem     `mapstructure:"ecosystem"`
}

// Output holds the report artifact configuration.
type Output struct {
	ReportDir      string `mapstructure:"report_dir"`
	FilenameFormat string `mapstructure:"filename_format"`
	StdoutOnly     bool   `mapstructure:"stdout_only"`
}

// Scheduler holds the serve-mode cron configuration.
type Scheduler struct {
	CronSpec string `mapstructure:"cron_spec"`
	Timezone string `mapstructure:"timezone"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the briefing service.
type Config struct {
	App        config.App       `mapstructure:"app"`
	Logger     config.Logger    `mapstructure:"logger"`
	Database   config.Database  `mapstructure:"database"`
	Redis      config.Redis     `mapstructure:"redis"`
	API        config.API       `mapstructure:"api"`
	Watchlist  []WatchlistEntry `mapstructure:"watchlist"`
	Guardrails Guardrails       `mapstructure:"guardrails"`
	Cadence    Cadence          `mapstructure:"cadence"`
	Sources    Sources          `mapstructure:"sources"`
	Output     Output           `mapstructure:"output"`
	Scheduler  Scheduler        `mapstructure:"scheduler"`
	Telegram   Telegram         `mapstructure:"telegram"`

	// Path is the resolved config file location, kept so the earnings
	// proposal sidecar can be written next to it.
	Path string `mapstructure:"-"`
}

// Load loads the briefing configuration from the given path, applies
// defaults, and overlays any pending watchlist proposal sidecar.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.applyDefaults()

	if err := cfg.applyWatchlistProposal(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Guardrails.StaleDataMaxDays == 0 {
		c.Guardrails.StaleDataMaxDays = 1
	}
	if c.Guardrails.PriceMovePctThreshold == 0 {
		c.Guardrails.PriceMovePctThreshold = 7.0
	}
	if c.Guardrails.EarningsWindowDays == 0 {
		c.Guardrails.EarningsWindowDays = 1
	}
	if c.Guardrails.InsiderClusterMinSellers == 0 {
		c.Guardrails.InsiderClusterMinSellers = 2
	}
	if c.Guardrails.InsiderClusterWindowDays == 0 {
		c.Guardrails.InsiderClusterWindowDays = 7
	}
	if len(c.Cadence.BiMonthlyDays) == 0 {
		c.Cadence.BiMonthlyDays = []int{1, 15}
	}
	if c.Cadence.Timezone == "" {
		c.Cadence.Timezone = "America/New_York"
	}
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = 90 * time.Second
	}
	if len(c.Sources.Order) == 0 {
		c.Sources.Order = []string{"snapshot", "news", "sec_filings", "market_intel", "insider_activity"}
	}
	if c.Sources.Quote.BaseURL == "" {
		c.Sources.Quote.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Sources.Quote.MaxRequestPerMinute == 0 {
		c.Sources.Quote.MaxRequestPerMinute = 120
	}
	if c.Sources.Filings.BaseURL == "" {
		c.Sources.Filings.BaseURL = "https://efts.sec.gov/LATEST/search-index"
	}
	if c.Sources.Filings.LookbackDays == 0 {
		c.Sources.Filings.LookbackDays = 7
	}
	if len(c.Sources.Filings.FormTypes) == 0 {
		c.Sources.Filings.FormTypes = []string{"8-K", "10-Q", "10-K", "4", "SC 13D", "SC 13G"}
	}
	if c.Sources.Filings.MaxRequestPerMinute == 0 {
		c.Sources.Filings.MaxRequestPerMinute = 60
	}
	if c.Sources.Insider.BaseURL == "" {
		c.Sources.Insider.BaseURL = "https://www.openinsider.com"
	}
	if c.Sources.Insider.MaxTransactions == 0 {
		c.Sources.Insider.MaxTransactions = 20
	}
	if c.Sources.Insider.LookbackDays == 0 {
		c.Sources.Insider.LookbackDays = 7
	}
	if c.Sources.Insider.MaxRequestPerMinute == 0 {
		c.Sources.Insider.MaxRequestPerMinute = 30
	}
	if len(c.Sources.Ecosystem.Hyperscalers) == 0 {
		c.Sources.Ecosystem.Hyperscalers = []string{"MSFT", "GOOG", "META", "AMZN"}
	}
	if len(c.Sources.Ecosystem.SupplyChain) == 0 {
		c.Sources.Ecosystem.SupplyChain = []string{"TSM"}
	}
	if c.Sources.News.MaxItems == 0 {
		c.Sources.News.MaxItems = 10
	}
	if c.Sources.News.MaxAgeDays == 0 {
		c.Sources.News.MaxAgeDays = 2
	}
	if c.Output.ReportDir == "" {
		c.Output.ReportDir = "output"
	}
	if c.Output.FilenameFormat == "" {
		c.Output.FilenameFormat = "2006-01-02.md"
	}
	if c.Scheduler.CronSpec == "" {
		c.Scheduler.CronSpec = "30 7 * * MON-FRI"
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = c.Cadence.Timezone
	}
}

// WatchlistItems converts the configured entries into domain items,
// skipping blank tickers the same way blank rows are ignored in the yaml.
func (c *Config) WatchlistItems() entity.Watchlist {
	items := make(entity.Watchlist, 0, len(c.Watchlist))
	for _, raw := range c.Watchlist {
		if raw.Ticker == "" {
			continue
		}
		item := entity.WatchlistItem{
			Symbol:          raw.Ticker,
			Company:         raw.Company,
			LastKnownStatus: entity.StatusAutoClear,
		}
		if item.Company == "" {
			item.Company = raw.Ticker
		}
		if raw.FiscalYearEndMonth >= 1 && raw.FiscalYearEndMonth <= 12 {
			item.FiscalYearEndMonth = time.Month(raw.FiscalYearEndMonth)
		}
		if raw.EarningsDate != "" {
			if d, err := utils.ParseISODate(raw.EarningsDate); err == nil {
				item.EarningsDate = &d
			}
		}
		items = append(items, item)
	}
	return items
}

// ProposalPath is where the earnings-refresh proposal sidecar lives.
func (c *Config) ProposalPath() string {
	return filepath.Join(filepath.Dir(c.Path), "watchlist.next.yaml")
}

// watchlistProposal mirrors the sidecar written by the delivery gateway.
type watchlistProposal struct {
	GeneratedAt string            `yaml:"generated_at"`
	Earnings    map[string]string `yaml:"earnings"`
}

// applyWatchlistProposal overlays refreshed earnings dates from the sidecar
// onto the loaded watchlist. The sidecar is applied between runs only; a
// running orchestrator never touches the live config.
func (c *Config) applyWatchlistProposal() error {
	data, err := os.ReadFile(c.ProposalPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read watchlist proposal: %w", err)
	}

	var proposal watchlistProposal
	if err := yaml.Unmarshal(data, &proposal); err != nil {
		return fmt.Errorf("failed to parse watchlist proposal: %w", err)
	}

	for i := range c.Watchlist {
		if next, ok := proposal.Earnings[c.Watchlist[i].Ticker]; ok && next != "" {
			c.Watchlist[i].EarningsDate = next
		}
	}
	return nil
}
