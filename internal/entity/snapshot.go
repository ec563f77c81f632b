package entity

import "time"

// Snapshot is the quantitative per-ticker picture from the quote provider.
// Pointer fields are nil when the provider had no usable value.
type Snapshot struct {
	Ticker         string     `json:"ticker"`
	Company        string     `json:"company"`
	Price          *float64   `json:"price"`
	PriceChangePct *float64   `json:"price_change_pct"`
	MarketCap      *int64     `json:"market_cap"`
	PETrailing     *float64   `json:"pe_trailing"`
	PEForward      *float64   `json:"pe_forward"`
	EVEBITDA       *float64   `json:"ev_ebitda"`
	PSRatio        *float64   `json:"ps_ratio"`
	LastTradeDate  *time.Time `json:"last_trade_date"`
	Error          string     `json:"error,omitempty"`
}

// Missing reports whether the snapshot lacks critical data.
func (s Snapshot) Missing() bool {
	return s.Error != "" || s.Price == nil
}

// SnapshotPayload is the payload of the quantitative snapshot source.
type SnapshotPayload struct {
	Snapshots []Snapshot `json:"snapshots"`
}
