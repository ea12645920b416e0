package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jortegar/agroscout/internal/grid"
	"github.com/jortegar/agroscout/internal/model"
)

// Derived-view endpoints.  Each one loads a fresh snapshot, applies the
// optional day filter and recomputes the view; nothing is cached, so the
// views always agree with the authoritative record set.

// GetRows handles GET /v1/grid/rows and returns the row selector data: one
// entry per row with its record count, peak level and severity band.
func (h *GridHandler) GetRows(c echo.Context) error {
	day, err := parseDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
	}
	state, err := h.Grid.State(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load grid"})
	}
	filtered := grid.FilterByDay(state, day)

	type rowEntry struct {
		ID          int                `json:"id"`
		Name        string             `json:"name"`
		RecordCount int                `json:"recordCount"`
		MaxLevel    int                `json:"maxLevel"`
		Band        model.SeverityBand `json:"band"`
	}
	out := make([]rowEntry, len(filtered.Rows))
	for i, row := range filtered.Rows {
		max := 0
		for _, rec := range row.Records {
			if rec.Level > max {
				max = rec.Level
			}
		}
		out[i] = rowEntry{
			ID:          row.ID,
			Name:        row.Name,
			RecordCount: len(row.Records),
			MaxLevel:    max,
			Band:        model.Band(max),
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GetHeatmap handles GET /v1/grid/heatmap and returns the level matrix plus
// the geometry needed to render it.
func (h *GridHandler) GetHeatmap(c echo.Context) error {
	day, err := parseDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
	}
	state, err := h.Grid.State(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load grid"})
	}
	filtered := grid.FilterByDay(state, day)
	geom := h.Grid.Geometry()
	return c.JSON(http.StatusOK, echo.Map{
		"rows":        len(filtered.Rows),
		"positions":   geom.Positions,
		"matrix":      grid.Heatmap(filtered.Rows, geom.Positions),
		"lastUpdated": filtered.LastUpdated,
	})
}

// GetRowSubsections handles GET /v1/grid/rows/:id/subsections and returns
// the subsection summary table for one row.
func (h *GridHandler) GetRowSubsections(c echo.Context) error {
	rowID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid row id"})
	}
	day, err := parseDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
	}
	state, err := h.Grid.State(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load grid"})
	}
	filtered := grid.FilterByDay(state, day)
	row, err := grid.FindRow(filtered.Rows, rowID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "row not found"})
	}

	type subsectionEntry struct {
		Subsection int                 `json:"subsection"`
		Level      *float64            `json:"level"`
		Band       *model.SeverityBand `json:"band"`
	}
	summaries := grid.SubsectionSummaries(row, h.Grid.Geometry())
	out := make([]subsectionEntry, len(summaries))
	for i, s := range summaries {
		entry := subsectionEntry{Subsection: s.Subsection, Level: s.Level}
		if s.Level != nil {
			band := model.Band(int(math.Round(*s.Level)))
			entry.Band = &band
		}
		out[i] = entry
	}
	return c.JSON(http.StatusOK, out)
}

// GetStats handles GET /v1/grid/stats and returns grid-wide statistics.
func (h *GridHandler) GetStats(c echo.Context) error {
	day, err := parseDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
	}
	state, err := h.Grid.State(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load grid"})
	}
	filtered := grid.FilterByDay(state, day)
	stats := grid.Statistics(filtered.Rows, h.Grid.Geometry().Positions)
	return c.JSON(http.StatusOK, echo.Map{
		"mean":            stats.Mean,
		"max":             stats.Max,
		"coveragePercent": stats.CoveragePercent,
		"band":            model.Band(stats.Max),
	})
}
