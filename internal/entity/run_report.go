package entity

import "time"

// RunReport is the full outcome of one orchestrator run. It is owned by
// exactly one run, written once, and never mutated after assembly; a later
// run on the same date overwrites the stored artifact.
type RunReport struct {
	Date              time.Time      `json:"date"`
	Environment       string         `json:"environment"`
	Tickers           []string       `json:"tickers"`
	TradingDay        bool           `json:"trading_day"`
	Layers            []CadenceLayer `json:"layers"`
	Depth             Depth          `json:"depth"`
	Status            RunStatus      `json:"status"`
	GuardrailTriggers []string       `json:"guardrail_triggers,omitempty"`
	EarningsTickers   []string       `json:"earnings_tickers,omitempty"`
	DueTasks          DueTasks       `json:"due_tasks"`
	Results           []SourceResult `json:"results"`
	RedFlags          []RedFlag      `json:"red_flags,omitempty"`
	ActionItems       []string       `json:"action_items"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// HasLayer reports whether the given cadence layer is active on this run.
func (r *RunReport) HasLayer(layer CadenceLayer) bool {
	for _, l := range r.Layers {
		if l == layer {
			return true
		}
	}
	return false
}

// ResultFor returns the result for the named source.
func (r *RunReport) ResultFor(source string) (SourceResult, bool) {
	for _, res := range r.Results {
		if res.Source == source {
			return res, true
		}
	}
	return SourceResult{}, false
}
