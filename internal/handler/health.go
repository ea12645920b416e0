// Package handler implements the HTTP surface: grid record lifecycle,
// derived views, exports and the inventory CRUD.  Handlers bind and validate
// input, call the engine and translate its error kinds into status codes;
// user-facing messages are produced here, never inside the engine.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds 200 with a tiny JSON body.  Used by load balancers and
// monitoring to verify the service is up.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
