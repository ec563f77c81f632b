package entity

// ShortInterest is the per-ticker short-interest picture.
type ShortInterest struct {
	SharesShort           *int64   `json:"shares_short"`
	SharesShortPriorMonth *int64   `json:"shares_short_prior_month"`
	ShortRatio            *float64 `json:"short_ratio"`
	ShortPctOfFloat       *float64 `json:"short_pct_of_float"`
	ChangePct             *float64 `json:"change_pct"`
	ReportDate            string   `json:"report_date,omitempty"`
	Available             bool     `json:"available"`
}

// EcosystemEntry is one tracked peer, hyperscaler or supply-chain ticker.
type EcosystemEntry struct {
	Ticker            string   `json:"ticker"`
	Name              string   `json:"name"`
	NextEarnings      string   `json:"next_earnings,omitempty"`
	DaysUntilEarnings int      `json:"days_until_earnings"`
	RevenueGrowthYoY  *float64 `json:"revenue_growth_yoy"`
	EarningsGrowthYoY *float64 `json:"earnings_growth_yoy"`
}

// EcosystemSignals groups tracked tickers into upcoming / recent earnings
// plus derived demand signals.
type EcosystemSignals struct {
	UpcomingEarnings []EcosystemEntry `json:"upcoming_earnings"`
	RecentResults    []EcosystemEntry `json:"recent_results"`
	Signals          []string         `json:"signals"`
}

// EarningsUpdate is one proposed earnings-date refresh.
type EarningsUpdate struct {
	Ticker  string `json:"ticker"`
	OldDate string `json:"old_date"`
	NewDate string `json:"new_date"`
}

// EarningsRefresh is the earnings-refresh proposal emitted by the
// market-intel source. It never mutates the live configuration mid-run.
type EarningsRefresh struct {
	Updated   []EarningsUpdate `json:"updated"`
	Unchanged []string         `json:"unchanged"`
}

// MarketIntelPayload is the payload of the market-intel source.
type MarketIntelPayload struct {
	ShortInterest   map[string]ShortInterest `json:"short_interest"`
	Ecosystem       EcosystemSignals         `json:"ecosystem_signals"`
	EarningsRefresh EarningsRefresh          `json:"earnings_refresh"`
}
