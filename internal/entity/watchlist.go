package entity

import (
	"strings"
	"time"
)

// WatchlistItem is one configured ticker. Items are loaded from the
// configuration snapshot at run start and are never deleted within a run;
// only the earnings date may be refreshed by a data source.
type WatchlistItem struct {
	Symbol             string
	Company            string
	FiscalYearEndMonth time.Month
	EarningsDate       *time.Time
	LastKnownPrice     *float64
	LastKnownStatus    RunStatus
	LastKnownAt        *time.Time
}

// Watchlist is the ordered set of configured tickers.
type Watchlist []WatchlistItem

// Symbols returns the ticker symbols in configured order.
func (w Watchlist) Symbols() []string {
	symbols := make([]string, 0, len(w))
	for _, item := range w {
		symbols = append(symbols, item.Symbol)
	}
	return symbols
}

// Find returns the item for a symbol, case-insensitive.
func (w Watchlist) Find(symbol string) (WatchlistItem, bool) {
	for _, item := range w {
		if strings.EqualFold(item.Symbol, symbol) {
			return item, true
		}
	}
	return WatchlistItem{}, false
}
