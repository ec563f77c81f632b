package entity

// Filing is one SEC EDGAR filing record.
type Filing struct {
	FilingType string   `json:"filing_type"`
	FiledDate  string   `json:"filed_date"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Items      []string `json:"items,omitempty"`
}

// FilingsPayload is the payload of the SEC filings source, keyed by ticker.
type FilingsPayload struct {
	Filings map[string][]Filing `json:"filings"`
}
