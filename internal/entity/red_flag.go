package entity

// RedFlagCategory is an adverse-event category requiring prominent surfacing
// and depth escalation. The set is closed.
type RedFlagCategory string

const (
	FlagLeadershipDeparture   RedFlagCategory = "leadership_departure"
	FlagAuditorChange         RedFlagCategory = "auditor_change"
	FlagGuidanceCut           RedFlagCategory = "guidance_cut"
	FlagCustomerLoss          RedFlagCategory = "customer_loss"
	FlagRegulatorySetback     RedFlagCategory = "regulatory_setback"
	FlagDebtCovenantDowngrade RedFlagCategory = "debt_covenant_downgrade"
	FlagDilutiveOffering      RedFlagCategory = "dilutive_offering"
	FlagInsiderClusterSelling RedFlagCategory = "insider_cluster_selling"
	FlagShortSellerReport     RedFlagCategory = "short_seller_report"
	FlagLargePriceMove        RedFlagCategory = "large_price_move"
)

// RedFlagCategories lists every category in action-item priority order.
// Action-item synthesis sorts by this order, so two flags never compete for
// a bullet slot nondeterministically.
var RedFlagCategories = []RedFlagCategory{
	FlagLeadershipDeparture,
	FlagAuditorChange,
	FlagGuidanceCut,
	FlagCustomerLoss,
	FlagRegulatorySetback,
	FlagDebtCovenantDowngrade,
	FlagDilutiveOffering,
	FlagInsiderClusterSelling,
	FlagShortSellerReport,
	FlagLargePriceMove,
}

var redFlagPriority = func() map[RedFlagCategory]int {
	m := make(map[RedFlagCategory]int, len(RedFlagCategories))
	for i, c := range RedFlagCategories {
		m[c] = i
	}
	return m
}()

// Priority returns the category's action-item priority; lower is more
// urgent. Unknown categories sort last.
func (c RedFlagCategory) Priority() int {
	p, ok := redFlagPriority[c]
	if !ok {
		return len(RedFlagCategories)
	}
	return p
}

var redFlagLabels = map[RedFlagCategory]string{
	FlagLeadershipDeparture:   "Leadership departure",
	FlagAuditorChange:         "Auditor change",
	FlagGuidanceCut:           "Guidance cut",
	FlagCustomerLoss:          "Customer loss",
	FlagRegulatorySetback:     "Regulatory setback",
	FlagDebtCovenantDowngrade: "Debt covenant / downgrade",
	FlagDilutiveOffering:      "Dilutive offering",
	FlagInsiderClusterSelling: "Insider cluster selling",
	FlagShortSellerReport:     "Short-seller report",
	FlagLargePriceMove:        "Large price move",
}

// Label returns the human-readable category name.
func (c RedFlagCategory) Label() string {
	if label, ok := redFlagLabels[c]; ok {
		return label
	}
	return string(c)
}

// RedFlag is a detected adverse event. It is always a derived view over
// source results, never persisted independently.
type RedFlag struct {
	Category RedFlagCategory `json:"category"`
	Ticker   string          `json:"ticker"`
	Evidence string          `json:"evidence"`
}
