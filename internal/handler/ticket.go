package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/skip2/go-qrcode"

    "github.com/iliyamo/stadium-entry/internal/service"
)

// qrSize is the edge length in pixels of ticket QR images.
const qrSize = 256

// createTicketReq leaves gate_number, user_id and stadium_id untagged:
// their failures are domain errors reported by the service.
type createTicketReq struct {
    Number     *string `json:"number" validate:"omitempty,max=64"`
    SeatNumber int     `json:"seat_number" validate:"gte=1"`
    RowNumber  int     `json:"row_number" validate:"gte=1"`
    ColNumber  int     `json:"col_number" validate:"gte=1"`
    GateNumber int     `json:"gate_number"`
    UserID     uint64  `json:"user_id"`
    StadiumID  uint64  `json:"stadium_id"`
}

// CreateTicket handles POST /tickets.  When number is omitted a random
// one is generated.
func (h *Handler) CreateTicket(c echo.Context) error {
    var req createTicketReq
    if msg, ok := bindAndValidate(c, &req); !ok {
        return badRequest(c, msg)
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    t, err := h.Svc.CreateTicket(ctx, service.TicketInput{
        Number:     service.NumberFromRequest(req.Number),
        SeatNumber: req.SeatNumber,
        RowNumber:  req.RowNumber,
        ColNumber:  req.ColNumber,
        GateNumber: req.GateNumber,
        UserID:     req.UserID,
        StadiumID:  req.StadiumID,
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, t)
}

// ListTickets handles GET /tickets.
func (h *Handler) ListTickets(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()

    items, err := h.Svc.ListTickets(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, items)
}

// GetTicket handles GET /tickets/:id.
func (h *Handler) GetTicket(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    t, err := h.Svc.GetTicket(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, t)
}

// GetTicketQR handles GET /tickets/:id/qr.  The PNG encodes the ticket
// number so a gate scanner can feed it straight into /verify.
func (h *Handler) GetTicketQR(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    t, err := h.Svc.GetTicket(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    png, err := qrcode.Encode(t.Number, qrcode.Medium, qrSize)
    if err != nil {
        return writeError(c, err)
    }
    return c.Blob(http.StatusOK, "image/png", png)
}
