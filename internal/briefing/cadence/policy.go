package cadence

import (
	"context"
	"fmt"
	"time"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/utils"
)

// Plan is the cadence decision for one run: which layers are due, the
// initial depth guess, and the earnings tickers that triggered the
// earnings layer. The depth is a floor; later stages may only escalate.
type Plan struct {
	Date            time.Time
	TradingDay      bool
	Layers          []entity.CadenceLayer
	Depth           entity.Depth
	EarningsTickers []string
	DueTasks        entity.DueTasks
	PriorStatus     entity.RunStatus
}

// HasLayer reports whether the given layer is active.
func (p Plan) HasLayer(layer entity.CadenceLayer) bool {
	for _, l := range p.Layers {
		if l == layer {
			return true
		}
	}
	return false
}

// Policy computes the active cadence layers for a date.
type Policy struct {
	biMonthlyDays      []int
	earningsWindowDays int
}

// NewPolicy creates a cadence policy.
func NewPolicy(biMonthlyDays []int, earningsWindowDays int) *Policy {
	return &Policy{
		biMonthlyDays:      biMonthlyDays,
		earningsWindowDays: earningsWindowDays,
	}
}

// Evaluate computes the plan for a date. It consults the calendar for the
// date itself and, when the monthly layer is in reach, for the earlier days
// of the month.
func (p *Policy) Evaluate(ctx context.Context, date time.Time, calendar repository.TradingCalendar, items entity.Watchlist, priorStatus entity.RunStatus) (Plan, error) {
	plan := Plan{
		Date:        date,
		Depth:       entity.DepthConcise,
		PriorStatus: priorStatus,
	}

	open, err := calendar.IsTradingDay(ctx, date)
	if err != nil {
		return plan, fmt.Errorf("failed to resolve trading calendar: %w", err)
	}
	plan.TradingDay = open
	if !open {
		return plan, nil
	}

	plan.Layers = append(plan.Layers, entity.LayerDaily)

	if date.Weekday() == time.Monday {
		plan.Layers = append(plan.Layers, entity.LayerWeekly)
	}

	for _, day := range p.biMonthlyDays {
		if date.Day() == day {
			plan.Layers = append(plan.Layers, entity.LayerBiMonthly)
			break
		}
	}

	monthly, err := p.firstTradingDayOfMonth(ctx, date, calendar)
	if err != nil {
		return plan, err
	}
	if monthly {
		plan.Layers = append(plan.Layers, entity.LayerMonthly)
	}

	plan.EarningsTickers = p.earningsDue(date, items)
	if len(plan.EarningsTickers) > 0 {
		plan.Layers = append(plan.Layers, entity.LayerEarnings)
	}

	// Initial depth guess; the scanner may escalate further but nothing
	// ever downgrades it.
	if date.Weekday() == time.Monday {
		plan.Depth = entity.DepthComprehensive
	} else if len(plan.EarningsTickers) > 0 || priorStatus == entity.StatusManualReview {
		plan.Depth = entity.DepthDetailed
	}

	plan.DueTasks = buildDueTasks(plan)
	return plan, nil
}

// firstTradingDayOfMonth reports whether date is the month's first trading
// day: day-of-month at most 3 with no earlier trading day this month.
func (p *Policy) firstTradingDayOfMonth(ctx context.Context, date time.Time, calendar repository.TradingCalendar) (bool, error) {
	if date.Day() > 3 {
		return false, nil
	}
	for day := 1; day < date.Day(); day++ {
		earlier := time.Date(date.Year(), date.Month(), day, 0, 0, 0, 0, date.Location())
		open, err := calendar.IsTradingDay(ctx, earlier)
		if err != nil {
			return false, fmt.Errorf("failed to resolve trading calendar: %w", err)
		}
		if open {
			return false, nil
		}
	}
	return true, nil
}

// earningsDue returns the tickers whose earnings date falls within the
// window, inclusive in both directions.
func (p *Policy) earningsDue(date time.Time, items entity.Watchlist) []string {
	var due []string
	for _, item := range items {
		if item.EarningsDate == nil {
			continue
		}
		delta := utils.DaysBetween(date, *item.EarningsDate)
		if delta < 0 {
			delta = -delta
		}
		if delta <= p.earningsWindowDays {
			due = append(due, item.Symbol)
		}
	}
	return due
}
