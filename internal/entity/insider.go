package entity

// InsiderTransaction is one open-market insider trade.
type InsiderTransaction struct {
	FilingDate  string   `json:"filing_date"`
	TradeDate   string   `json:"trade_date"`
	InsiderName string   `json:"insider_name"`
	Title       string   `json:"title"`
	TradeType   string   `json:"trade_type"`
	Price       *float64 `json:"price"`
	Shares      *int64   `json:"shares"`
	Value       *float64 `json:"value"`
	FilingURL   string   `json:"filing_url,omitempty"`
}

// InsiderActivity is the per-ticker insider picture.
type InsiderActivity struct {
	Transactions []InsiderTransaction `json:"transactions"`
	ClusterAlert bool                 `json:"cluster_alert"`
}

// InsiderPayload is the payload of the insider-activity source.
type InsiderPayload struct {
	Activity map[string]InsiderActivity `json:"activity"`
}
