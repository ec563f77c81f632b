package entity

import "time"

// SourceStatus is the outcome of one data-source invocation.
type SourceStatus string

const (
	SourceStatusOK      SourceStatus = "ok"
	SourceStatusFailed  SourceStatus = "failed"
	SourceStatusSkipped SourceStatus = "skipped"
)

// SourceResult captures the outcome of one data source in one run. It is
// immutable after creation.
type SourceResult struct {
	Source  string        `json:"source"`
	Status  SourceStatus  `json:"status"`
	Payload interface{}   `json:"payload,omitempty"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed_ms"`
}

// OK reports whether the source produced a usable payload.
func (r SourceResult) OK() bool {
	return r.Status == SourceStatusOK
}
