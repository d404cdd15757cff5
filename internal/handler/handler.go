package handler // handler defines the HTTP handlers of the entry service

import (
    "context"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stadium-entry/internal/service"
)

// storeTimeout bounds the storage work of a single request.
const storeTimeout = 5 * time.Second

// Handler exposes the ticketing operations over HTTP.  Each method binds
// the request, makes one service call and shapes the response.
type Handler struct {
    Svc *service.Ticketing
}

// New constructs a Handler and panics if svc is nil.
func New(svc *service.Ticketing) *Handler {
    if svc == nil {
        panic("nil service passed to handler.New")
    }
    return &Handler{Svc: svc}
}

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    return id, err == nil && id > 0
}
