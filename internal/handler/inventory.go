package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jortegar/agroscout/internal/collection"
	"github.com/jortegar/agroscout/internal/inventory"
	"github.com/jortegar/agroscout/internal/model"
)

// InventoryHandler exposes the CRUD surfaces over the referential
// collections: activities, supplies, tools, locations and users.  The
// mutation/uniqueness/guard logic lives in the generic collection; the
// handlers only bind bodies, preserve immutable fields on update and map
// error kinds to status codes.
type InventoryHandler struct {
	Inv *inventory.Service
}

// NewInventoryHandler constructs an InventoryHandler and panics on a nil
// service.
func NewInventoryHandler(inv *inventory.Service) *InventoryHandler {
	if inv == nil {
		panic("nil inventory service passed to NewInventoryHandler")
	}
	return &InventoryHandler{Inv: inv}
}

// inventoryError translates collection error kinds into HTTP responses.
func inventoryError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, collection.ErrDuplicateItem):
		return c.JSON(http.StatusConflict, map[string]string{"error": "item already exists"})
	case errors.Is(err, collection.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "item not found"})
	case errors.Is(err, collection.ErrItemReferenced):
		return c.JSON(http.StatusConflict, map[string]string{"error": "item is still referenced"})
	case errors.Is(err, inventory.ErrUnknownLocation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown location"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "inventory operation failed"})
	}
}

// --- locations ---

func (h *InventoryHandler) ListLocations(c echo.Context) error {
	items, err := h.Inv.Locations.List(c.Request().Context())
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CreateLocation(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
		Area string `json:"area"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	loc, err := h.Inv.CreateLocation(c.Request().Context(), body.Name, body.Area)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusCreated, loc)
}

func (h *InventoryHandler) UpdateLocation(c echo.Context) error {
	ctx := c.Request().Context()
	cur, err := h.Inv.Locations.Get(ctx, c.Param("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	var body struct {
		Name string `json:"name"`
		Area string `json:"area"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	cur.Name = body.Name
	cur.Area = body.Area
	if err := h.Inv.UpdateLocation(ctx, cur); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *InventoryHandler) DeleteLocation(c echo.Context) error {
	if err := h.Inv.Locations.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return inventoryError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) ExportLocations(c echo.Context) error {
	return h.exportCSV(c, "ubicaciones.csv", h.Inv.WriteLocationsCSV)
}

// --- activities ---

func (h *InventoryHandler) ListActivities(c echo.Context) error {
	items, err := h.Inv.Activities.List(c.Request().Context())
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CreateActivity(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Date  int64  `json:"date"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	act, err := h.Inv.CreateActivity(c.Request().Context(), body.Name, body.Date, body.Notes)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusCreated, act)
}

func (h *InventoryHandler) UpdateActivity(c echo.Context) error {
	ctx := c.Request().Context()
	cur, err := h.Inv.Activities.Get(ctx, c.Param("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	var body struct {
		Name  string `json:"name"`
		Date  int64  `json:"date"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	cur.Name = body.Name
	cur.Date = body.Date
	cur.Notes = body.Notes
	if err := h.Inv.UpdateActivity(ctx, cur); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *InventoryHandler) DeleteActivity(c echo.Context) error {
	if err := h.Inv.Activities.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return inventoryError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) ExportActivities(c echo.Context) error {
	return h.exportCSV(c, "actividades.csv", h.Inv.WriteActivitiesCSV)
}

// --- supplies ---

func (h *InventoryHandler) ListSupplies(c echo.Context) error {
	items, err := h.Inv.Supplies.List(c.Request().Context())
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CreateSupply(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		Quantity   int    `json:"quantity"`
		Unit       string `json:"unit"`
		LocationID string `json:"location_id"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	sup, err := h.Inv.CreateSupply(c.Request().Context(), body.Name, body.Quantity, body.Unit, body.LocationID)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusCreated, sup)
}

func (h *InventoryHandler) UpdateSupply(c echo.Context) error {
	ctx := c.Request().Context()
	cur, err := h.Inv.Supplies.Get(ctx, c.Param("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	var body struct {
		Name       string `json:"name"`
		Quantity   int    `json:"quantity"`
		Unit       string `json:"unit"`
		LocationID string `json:"location_id"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	cur.Name = body.Name
	cur.Quantity = body.Quantity
	cur.Unit = body.Unit
	cur.LocationID = body.LocationID
	if err := h.Inv.UpdateSupply(ctx, cur); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *InventoryHandler) DeleteSupply(c echo.Context) error {
	if err := h.Inv.Supplies.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return inventoryError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) ExportSupplies(c echo.Context) error {
	return h.exportCSV(c, "insumos.csv", h.Inv.WriteSuppliesCSV)
}

// --- tools ---

func (h *InventoryHandler) ListTools(c echo.Context) error {
	items, err := h.Inv.Tools.List(c.Request().Context())
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) CreateTool(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		Serial     string `json:"serial"`
		LocationID string `json:"location_id"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" || body.Serial == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and serial are required"})
	}
	tool, err := h.Inv.CreateTool(c.Request().Context(), body.Name, body.Serial, body.LocationID)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusCreated, tool)
}

func (h *InventoryHandler) UpdateTool(c echo.Context) error {
	ctx := c.Request().Context()
	cur, err := h.Inv.Tools.Get(ctx, c.Param("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	var body struct {
		Name       string `json:"name"`
		Serial     string `json:"serial"`
		LocationID string `json:"location_id"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" || body.Serial == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and serial are required"})
	}
	cur.Name = body.Name
	cur.Serial = body.Serial
	cur.LocationID = body.LocationID
	if err := h.Inv.UpdateTool(ctx, cur); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(http.StatusOK, cur)
}

func (h *InventoryHandler) DeleteTool(c echo.Context) error {
	if err := h.Inv.Tools.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return inventoryError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) ExportTools(c echo.Context) error {
	return h.exportCSV(c, "herramientas.csv", h.Inv.WriteToolsCSV)
}

// --- users ---

// ListUsers returns user records with password hashes stripped.
func (h *InventoryHandler) ListUsers(c echo.Context) error {
	items, err := h.Inv.Users.List(c.Request().Context())
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]model.User, len(items))
	for i, u := range items {
		u.PasswordHash = ""
		out[i] = u
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) CreateUser(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		Password   string `json:"password"`
		LocationID string `json:"location_id"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" || body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name, email and password are required"})
	}
	if body.Role == "" {
		body.Role = "SCOUT"
	}
	u, err := h.Inv.CreateUser(c.Request().Context(), body.Name, body.Email, body.Role, body.Password, body.LocationID)
	if err != nil {
		return inventoryError(c, err)
	}
	u.PasswordHash = ""
	return c.JSON(http.StatusCreated, u)
}

func (h *InventoryHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	cur, err := h.Inv.Users.Get(ctx, c.Param("id"))
	if err != nil {
		return inventoryError(c, err)
	}
	var body struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		Password   string `json:"password"`
		LocationID string `json:"location_id"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" || body.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name and email are required"})
	}
	cur.Name = body.Name
	cur.Email = body.Email
	if body.Role != "" {
		cur.Role = body.Role
	}
	cur.LocationID = body.LocationID
	if err := h.Inv.UpdateUser(ctx, cur, body.Password); err != nil {
		return inventoryError(c, err)
	}
	cur.PasswordHash = ""
	return c.JSON(http.StatusOK, cur)
}

func (h *InventoryHandler) DeleteUser(c echo.Context) error {
	if err := h.Inv.Users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return inventoryError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) ExportUsers(c echo.Context) error {
	return h.exportCSV(c, "usuarios.csv", h.Inv.WriteUsersCSV)
}

// exportCSV streams one collection as a CSV download.
func (h *InventoryHandler) exportCSV(c echo.Context, filename string, write func(ctx context.Context, w io.Writer) error) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	return write(c.Request().Context(), res)
}
