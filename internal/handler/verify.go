package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
)

type verifyReq struct {
    NationalID   string `json:"national_id"`
    TicketNumber string `json:"ticket_number"`
}

// Verify handles POST /verify, the gate check.  An unknown national id
// yields 404; a ticket number the user does not hold yields 401.
func (h *Handler) Verify(c echo.Context) error {
    var req verifyReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    res, err := h.Svc.Verify(ctx, strings.TrimSpace(req.NationalID), req.TicketNumber)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}
