package entity

import "time"

// Headline is one news item matched to the watchlist.
type Headline struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Source    string     `json:"source,omitempty"`
	Published *time.Time `json:"published,omitempty"`
	Tickers   []string   `json:"tickers,omitempty"`
	Excerpt   string     `json:"excerpt,omitempty"`
}

// NewsPayload is the payload of the news-headlines source.
type NewsPayload struct {
	Headlines []Headline `json:"headlines"`
}
