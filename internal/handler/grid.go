package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jortegar/agroscout/internal/grid"
)

// GridHandler exposes the incidence grid: record lifecycle, derived views
// and exports.  Every read loads a fresh snapshot through the service; no
// derived state is cached between requests.
type GridHandler struct {
	Grid *grid.Service
}

// NewGridHandler constructs a GridHandler and panics on a nil service.
func NewGridHandler(svc *grid.Service) *GridHandler {
	if svc == nil {
		panic("nil grid service passed to NewGridHandler")
	}
	return &GridHandler{Grid: svc}
}

// GetGrid handles GET /v1/grid and returns the full (optionally day-scoped)
// grid state.
func (h *GridHandler) GetGrid(c echo.Context) error {
	day, err := parseDay(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
	}
	state, err := h.Grid.State(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load grid"})
	}
	return c.JSON(http.StatusOK, grid.FilterByDay(state, day))
}

// CreateRecord handles POST /v1/grid/records and appends an observation to
// the selected row.
func (h *GridHandler) CreateRecord(c echo.Context) error {
	var body struct {
		RowID    int    `json:"row_id"`
		Position int    `json:"position"`
		Level    *int   `json:"level"`
		Notes    string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if status, msg := h.validateLevelAndPosition(body.Level, &body.Position); status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	row, err := h.Grid.AddRecord(c.Request().Context(), body.RowID, body.Position, *body.Level, body.Notes)
	if err != nil && !errors.Is(err, grid.ErrPersistenceWriteFailed) {
		return gridError(c, err)
	}
	if errors.Is(err, grid.ErrPersistenceWriteFailed) {
		// Mutation accepted but not durable; the caller decides what to do.
		return c.JSON(http.StatusCreated, echo.Map{"row": row, "warning": "persistence write failed"})
	}
	return c.JSON(http.StatusCreated, row)
}

// UpdateRecord handles PATCH /v1/grid/records/:id and replaces level and
// notes of an existing record.  Position and row are immutable.
func (h *GridHandler) UpdateRecord(c echo.Context) error {
	recordID := c.Param("id")
	var body struct {
		RowID int    `json:"row_id"`
		Level *int   `json:"level"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if status, msg := h.validateLevelAndPosition(body.Level, nil); status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	row, err := h.Grid.UpdateRecord(c.Request().Context(), body.RowID, recordID, *body.Level, body.Notes)
	if err != nil && !errors.Is(err, grid.ErrPersistenceWriteFailed) {
		return gridError(c, err)
	}
	if errors.Is(err, grid.ErrPersistenceWriteFailed) {
		return c.JSON(http.StatusOK, echo.Map{"row": row, "warning": "persistence write failed"})
	}
	return c.JSON(http.StatusOK, row)
}

// DeleteRecord handles DELETE /v1/grid/records/:id?row_id=N.  Deleting an
// already-absent record succeeds: deletion is idempotent.
func (h *GridHandler) DeleteRecord(c echo.Context) error {
	recordID := c.Param("id")
	var rowID int
	if _, err := fmt.Sscanf(c.QueryParam("row_id"), "%d", &rowID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "row_id query parameter is required"})
	}

	row, err := h.Grid.DeleteRecord(c.Request().Context(), rowID, recordID)
	if err != nil && !errors.Is(err, grid.ErrPersistenceWriteFailed) {
		return gridError(c, err)
	}
	if errors.Is(err, grid.ErrPersistenceWriteFailed) {
		return c.JSON(http.StatusOK, echo.Map{"row": row, "warning": "persistence write failed"})
	}
	return c.JSON(http.StatusOK, row)
}

// validateLevelAndPosition applies the caller-facing bounds checks: level in
// [0, MaxLevel], position in [1, positions].  Out-of-range input is rejected
// here, never clamped.  position may be nil when the operation does not take
// one.  Returns (0, "") when valid.
func (h *GridHandler) validateLevelAndPosition(level *int, position *int) (int, string) {
	if level == nil {
		return http.StatusBadRequest, "level is required"
	}
	if *level < 0 || *level > grid.MaxLevel {
		return http.StatusBadRequest, fmt.Sprintf("level must be between 0 and %d", grid.MaxLevel)
	}
	if position != nil {
		if max := h.Grid.Geometry().Positions; *position < 1 || *position > max {
			return http.StatusBadRequest, fmt.Sprintf("position must be between 1 and %d", max)
		}
	}
	return 0, ""
}

// gridError translates engine error kinds into HTTP responses.
func gridError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, grid.ErrNoRowSelected):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no row selected"})
	case errors.Is(err, grid.ErrRowNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "row not found"})
	case errors.Is(err, grid.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "record not found"})
	case errors.Is(err, grid.ErrDuplicatePosition):
		return c.JSON(http.StatusConflict, map[string]string{"error": "position already holds a record"})
	case errors.Is(err, grid.ErrRowCapacityExceeded):
		return c.JSON(http.StatusConflict, map[string]string{"error": "row is full"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "grid operation failed"})
	}
}

// parseDay reads the optional ?date=YYYY-MM-DD query parameter as a local
// calendar day.  Returns nil when absent.
func parseDay(c echo.Context) (*time.Time, error) {
	v := c.QueryParam("date")
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
