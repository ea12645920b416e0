package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jortegar/agroscout/internal/grid"
)

// GetExport handles GET /v1/grid/export?date=YYYY-MM-DD&format=csv|xlsx and
// streams the flattened grid as a download.  The export always serializes
// the in-memory filtered snapshot; the filename carries the filtered day as
// an ISO date or "completo" when unfiltered.
func (h *GridHandler) GetExport(c echo.Context) error {
	day, err := parseDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
	}
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be csv or xlsx"})
	}

	state, err := h.Grid.State(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load grid"})
	}
	filtered := grid.FilterByDay(state, day)

	res := c.Response()
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, grid.ExportFilename(day, format)))

	if format == "xlsx" {
		f, err := grid.BuildWorkbook(filtered)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
		}
		res.Header().Set(echo.HeaderContentType,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		res.WriteHeader(http.StatusOK)
		return f.Write(res)
	}

	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	return grid.WriteCSV(res, filtered)
}
