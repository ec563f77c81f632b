package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/pkg/logger"
	"go-stock-briefing/pkg/utils"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves stored briefing runs over HTTP.
type ReportHandler struct {
	historyRepo repository.RunHistoryRepository
	logger      *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(historyRepo repository.RunHistoryRepository, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{historyRepo: historyRepo, logger: logger}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListRuns)
	g.GET("/:date", h.GetRunByDate)
}

// runSummary is the list-view projection of a stored run.
type runSummary struct {
	RunDate     string `json:"run_date"`
	Environment string `json:"environment"`
	Status      string `json:"status"`
	Depth       string `json:"depth"`
	TradingDay  bool   `json:"trading_day"`
}

// ListRuns returns recent runs, newest first.
func (h *ReportHandler) ListRuns(c echo.Context) error {
	limit := 30
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	runs, err := h.historyRepo.List(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	summaries := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, runSummary{
			RunDate:     run.RunDate,
			Environment: run.Environment,
			Status:      run.Status,
			Depth:       run.Depth,
			TradingDay:  run.TradingDay,
		})
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetRunByDate returns one stored run. With ?format=markdown the raw
// report text is returned instead of JSON.
func (h *ReportHandler) GetRunByDate(c echo.Context) error {
	date := c.Param("date")
	if _, err := utils.ParseISODate(date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	run, err := h.historyRepo.FindByDate(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("Failed to load run", logger.ErrorField(err), logger.StringField("run_date", date))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if run == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No run for that date"})
	}

	if c.QueryParam("format") == "markdown" {
		return c.String(http.StatusOK, run.Markdown)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"run_date":    run.RunDate,
		"environment": run.Environment,
		"status":      run.Status,
		"depth":       run.Depth,
		"trading_day": run.TradingDay,
		"report":      json.RawMessage(run.Report),
	})
}
