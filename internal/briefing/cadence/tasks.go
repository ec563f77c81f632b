package cadence

import "go-stock-briefing/internal/entity"

// buildDueTasks assembles the checklist tasks for each active layer.
func buildDueTasks(plan Plan) entity.DueTasks {
	tasks := entity.DueTasks{
		Daily: []string{
			"Review red flags checklist for all watchlist names.",
			"Scan 8-K filings and material company announcements.",
			"Check sell-side estimate revisions and target changes.",
			"Check hyperscaler AI capex commentary deltas.",
		},
	}

	if plan.HasLayer(entity.LayerWeekly) {
		tasks.Weekly = []string{
			"Review Form 4 insider buy/sell activity.",
			"Review sector flow and relative performance signals.",
			"Review valuation drift versus your baseline thesis assumptions.",
		}
	}

	if plan.HasLayer(entity.LayerBiMonthly) {
		tasks.BiMonthly = []string{
			"Check short-interest updates and changes in crowding risk.",
			"Review options implied volatility into the next earnings windows.",
		}
	}

	if plan.HasLayer(entity.LayerMonthly) {
		tasks.Monthly = []string{
			"Review macro layer: fed path, 10Y yield, and cost-of-capital pressure.",
			"Review policy/regulation changes: export controls, tariff and energy policy updates.",
		}
	}

	if plan.HasLayer(entity.LayerEarnings) {
		tasks.Earnings = []string{
			"Run earnings workflow: pre-read release, call notes, guidance delta, and post-call thesis check.",
		}
	}

	return tasks
}
