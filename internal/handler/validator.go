package handler

import (
    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
    v *validator.Validate
}

func NewValidator() *RequestValidator {
    return &RequestValidator{v: validator.New()}
}

func (rv *RequestValidator) Validate(i any) error {
    return rv.v.Struct(i)
}

// bindAndValidate decodes the body into dst and runs the struct tags.
func bindAndValidate(c echo.Context, dst any) (string, bool) {
    if err := c.Bind(dst); err != nil {
        return "invalid request body", false
    }
    if err := c.Validate(dst); err != nil {
        return err.Error(), false
    }
    return "", true
}
