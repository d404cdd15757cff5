package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
)

// Limits match the users table columns.
type createUserReq struct {
    Name       string `json:"name" validate:"required,max=255"`
    NationalID string `json:"national_id" validate:"required,max=64"`
}

// CreateUser handles POST /users.  A taken national id yields 400.
func (h *Handler) CreateUser(c echo.Context) error {
    var req createUserReq
    if msg, ok := bindAndValidate(c, &req); !ok {
        return badRequest(c, msg)
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    u, err := h.Svc.CreateUser(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.NationalID))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, u)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()

    users, err := h.Svc.ListUsers(ctx)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c echo.Context) error {
    id, ok := pathID(c)
    if !ok {
        return badRequest(c, "invalid id")
    }
    ctx, cancel := requestCtx(c)
    defer cancel()

    u, err := h.Svc.GetUser(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}

// GetUserByNationalID handles GET /users/national/:national_id and
// returns the user together with the tickets it holds.
func (h *Handler) GetUserByNationalID(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()

    u, err := h.Svc.GetUserWithTickets(ctx, c.Param("national_id"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, u)
}
