package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-stock-briefing/internal/briefing/config"
	"go-stock-briefing/pkg/logger"
)

// TradingCalendar answers whether a given date is a trading day.
type TradingCalendar interface {
	IsTradingDay(ctx context.Context, date time.Time) (bool, error)
}

// NewTradingCalendar builds the calendar chain: the HTTP provider when
// configured, always backed by the built-in weekday/holiday heuristic.
func NewTradingCalendar(cfg *config.Config, log *logger.Logger) TradingCalendar {
	fallback := NewHeuristicCalendar()
	if cfg.Sources.Calendar.BaseURL == "" {
		return fallback
	}
	return &compositeCalendar{
		log:      log,
		primary:  newHTTPCalendar(cfg),
		fallback: fallback,
	}
}

// compositeCalendar tries the primary provider and falls back on failure,
// surfacing a single unified answer.
type compositeCalendar struct {
	log      *logger.Logger
	primary  TradingCalendar
	fallback TradingCalendar
}

func (c *compositeCalendar) IsTradingDay(ctx context.Context, date time.Time) (bool, error) {
	open, err := c.primary.IsTradingDay(ctx, date)
	if err == nil {
		return open, nil
	}
	c.log.Warn("Market calendar provider unavailable, using heuristic fallback", logger.ErrorField(err))
	return c.fallback.IsTradingDay(ctx, date)
}

type httpCalendar struct {
	cfg        *config.Config
	httpClient *http.Client
}

func newHTTPCalendar(cfg *config.Config) TradingCalendar {
	return &httpCalendar{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *httpCalendar) IsTradingDay(ctx context.Context, date time.Time) (bool, error) {
	endpoint := fmt.Sprintf("%s/calendar?date=%s", c.cfg.Sources.Calendar.BaseURL, date.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("calendar request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var payload struct {
		Open bool `json:"open"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return payload.Open, nil
}

// heuristicCalendar is the offline fallback: weekdays minus fixed US market
// holidays. Good Friday is deliberately omitted; the primary provider owns
// movable feasts.
type heuristicCalendar struct{}

// NewHeuristicCalendar returns the offline weekday/holiday calendar.
func NewHeuristicCalendar() TradingCalendar {
	return heuristicCalendar{}
}

func (heuristicCalendar) IsTradingDay(_ context.Context, date time.Time) (bool, error) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false, nil
	}
	return !isMarketHoliday(date), nil
}

func isMarketHoliday(date time.Time) bool {
	fixed := []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},   // New Year's Day
		{time.June, 19},     // Juneteenth
		{time.July, 4},      // Independence Day
		{time.December, 25}, // Christmas
	}
	for _, h := range fixed {
		if observedMatches(date, h.month, h.day) {
			return true
		}
	}

	switch {
	case nthWeekdayOfMonth(date, time.Monday, 3) && date.Month() == time.January: // MLK Day
		return true
	case nthWeekdayOfMonth(date, time.Monday, 3) && date.Month() == time.February: // Presidents' Day
		return true
	case lastWeekdayOfMonth(date, time.Monday) && date.Month() == time.May: // Memorial Day
		return true
	case nthWeekdayOfMonth(date, time.Monday, 1) && date.Month() == time.September: // Labor Day
		return true
	case nthWeekdayOfMonth(date, time.Thursday, 4) && date.Month() == time.November: // Thanksgiving
		return true
	}
	return false
}

// observedMatches reports whether date is the observed weekday for a fixed
// holiday: Friday before a Saturday holiday, Monday after a Sunday one.
func observedMatches(date time.Time, month time.Month, day int) bool {
	holiday := time.Date(date.Year(), month, day, 0, 0, 0, 0, date.Location())
	switch holiday.Weekday() {
	case time.Saturday:
		holiday = holiday.AddDate(0, 0, -1)
	case time.Sunday:
		holiday = holiday.AddDate(0, 0, 1)
	}
	return date.Month() == holiday.Month() && date.Day() == holiday.Day()
}

func nthWeekdayOfMonth(date time.Time, weekday time.Weekday, n int) bool {
	if date.Weekday() != weekday {
		return false
	}
	return (date.Day()-1)/7 == n-1
}

func lastWeekdayOfMonth(date time.Time, weekday time.Weekday) bool {
	if date.Weekday() != weekday {
		return false
	}
	return date.AddDate(0, 0, 7).Month() != date.Month()
}
