package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
)

type createStadiumReq struct {
    Name     string `json:"name" validate:"required,max=255"`
    NumGates int    `json:"num_gates" validate:"gte=1"`
    NumSeats int    `json:"num_seats" validate:"gte=1"`
}

// CreateStadium handles POST /stadiums.
func (h *Handler) CreateStadium(c echo.Context) error {
    var req createStadiumReq
    if msg, ok := bindAndValidate(c, &req); !ok {
        return badRequest(c, msg)
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    st, err := h.Svc.CreateStadium(ctx, strings.TrimSpace(req.Name), req.NumGates, req.NumSeats)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, st)
}

// ListStadiums handles GET /stadiums.
func (h *Handler) ListStadiums(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()

    items, err := h.Svc.ListStadiums(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items)
}

// GetStadium handles GET /stadiums/:id.
func (h *Handler) GetStadium(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    st, err := h.Svc.GetStadium(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, st)
}
