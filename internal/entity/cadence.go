package entity

// CadenceLayer is a recurrence tier controlling which data sources run on a
// given date.
type CadenceLayer string

const (
	LayerDaily     CadenceLayer = "daily"
	LayerWeekly    CadenceLayer = "weekly"
	LayerBiMonthly CadenceLayer = "bi_monthly"
	LayerMonthly   CadenceLayer = "monthly"
	LayerEarnings  CadenceLayer = "earnings"
)

// Depth is the report verbosity tier. Within a run it only ever escalates.
type Depth string

const (
	DepthConcise       Depth = "concise"
	DepthDetailed      Depth = "detailed"
	DepthComprehensive Depth = "comprehensive"
)

var depthRank = map[Depth]int{
	DepthConcise:       0,
	DepthDetailed:      1,
	DepthComprehensive: 2,
}

// Rank returns the ordering of a depth. Unknown depths rank below concise.
func (d Depth) Rank() int {
	rank, ok := depthRank[d]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast returns the deeper of d and min, so escalation never downgrades.
func (d Depth) AtLeast(min Depth) Depth {
	if d.Rank() >= min.Rank() {
		return d
	}
	return min
}

// RunStatus is the binary run status from the quantitative guardrail check.
type RunStatus string

const (
	StatusAutoClear    RunStatus = "auto_clear"
	StatusManualReview RunStatus = "manual_review"
)

// DueTasks holds the checklist tasks due per active cadence layer.
type DueTasks struct {
	Daily     []string `json:"daily"`
	Weekly    []string `json:"weekly"`
	BiMonthly []string `json:"bi_monthly"`
	Monthly   []string `json:"monthly"`
	Earnings  []string `json:"earnings"`
}
