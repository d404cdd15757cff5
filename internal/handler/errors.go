package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stadium-entry/internal/service"
)

// Error codes returned alongside the message in every failure body.
const (
    CodeInvalidRequest      = "INVALID_REQUEST"
    CodeDuplicateNationalID = "DUPLICATE_NATIONAL_ID"
    CodeUserNotFound        = "USER_NOT_FOUND"
    CodeStadiumNotFound     = "STADIUM_NOT_FOUND"
    CodeTicketNotFound      = "TICKET_NOT_FOUND"
    CodeInvalidGateNumber   = "INVALID_GATE_NUMBER"
    CodeInvalidTicket       = "INVALID_TICKET"
    CodeInternal            = "INTERNAL"
)

type errorMapping struct {
    err    error
    status int
    code   string
    msg    string
}

var errorTable = []errorMapping{
    {service.ErrDuplicateNationalID, http.StatusBadRequest, CodeDuplicateNationalID, "National ID already exists"},
    {service.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound, "User not found"},
    {service.ErrStadiumNotFound, http.StatusNotFound, CodeStadiumNotFound, "Stadium not found"},
    {service.ErrTicketNotFound, http.StatusNotFound, CodeTicketNotFound, "Ticket not found"},
    {service.ErrInvalidGateNumber, http.StatusBadRequest, CodeInvalidGateNumber, "Invalid gate number"},
    {service.ErrInvalidTicket, http.StatusUnauthorized, CodeInvalidTicket, "Invalid ticket number"},
}

// writeError maps a service error to its status and body.  Anything not
// in errorTable is logged and reported as 500.
func writeError(c echo.Context, err error) error {
    for _, m := range errorTable {
        if errors.Is(err, m.err) {
            return c.JSON(m.status, echo.Map{"error": m.msg, "code": m.code})
        }
    }
    c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "code": CodeInternal})
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": CodeInvalidRequest})
}
