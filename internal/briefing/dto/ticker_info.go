package dto

// RawValue is Yahoo's {raw, fmt} number wrapper.
type RawValue struct {
	Raw *float64 `json:"raw"`
}

// Int64Value is Yahoo's wrapper for integer quantities.
type Int64Value struct {
	Raw *int64 `json:"raw"`
}

// QuoteSummaryResponse models the subset of the quoteSummary envelope the
// briefing consumes.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult is one ticker's module set.
type QuoteSummaryResult struct {
	Price *struct {
		Symbol                     string     `json:"symbol"`
		ShortName                  string     `json:"shortName"`
		RegularMarketPrice         RawValue   `json:"regularMarketPrice"`
		RegularMarketPreviousClose RawValue   `json:"regularMarketPreviousClose"`
		RegularMarketTime          *int64     `json:"regularMarketTime"`
		MarketCap                  Int64Value `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		TrailingPE               RawValue `json:"trailingPE"`
		ForwardPE                RawValue `json:"forwardPE"`
		PriceToSalesTrailing12Mo RawValue `json:"priceToSalesTrailing12Months"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		EnterpriseToEbitda    RawValue   `json:"enterpriseToEbitda"`
		SharesShort           Int64Value `json:"sharesShort"`
		SharesShortPriorMonth Int64Value `json:"sharesShortPriorMonth"`
		ShortRatio            RawValue   `json:"shortRatio"`
		ShortPercentOfFloat   RawValue   `json:"shortPercentOfFloat"`
		DateShortInterest     *int64     `json:"dateShortInterest"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		RevenueGrowth  RawValue `json:"revenueGrowth"`
		EarningsGrowth RawValue `json:"earningsGrowth"`
	} `json:"financialData"`
	CalendarEvents *struct {
		Earnings struct {
			EarningsDate []Int64Value `json:"earningsDate"`
		} `json:"earnings"`
	} `json:"calendarEvents"`
}

// TickerInfo is the flattened per-ticker quote picture, one fetch per
// unique ticker per run.
type TickerInfo struct {
	Symbol                string
	ShortName             string
	Price                 *float64
	PreviousClose         *float64
	MarketCap             *int64
	TrailingPE            *float64
	ForwardPE             *float64
	EnterpriseToEbitda    *float64
	PriceToSales          *float64
	RegularMarketTime     *int64
	EarningsTimestamps    []int64
	SharesShort           *int64
	SharesShortPriorMonth *int64
	ShortRatio            *float64
	ShortPercentOfFloat   *float64
	DateShortInterest     *int64
	RevenueGrowth         *float64
	EarningsGrowth        *float64
}
