package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// getUserID extracts the user_id JWTAuth stored in context and converts
// it to uint64.  jwt.MapClaims decodes numeric claims as float64, but the
// other types are accepted too so tests can set the value directly.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive uint64 path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// CustomValidator plugs go-playground/validator into Echo's c.Validate.
type CustomValidator struct {
    validator *validator.Validate
}

// NewValidator returns a validator for struct tags on request DTOs.
func NewValidator() *CustomValidator {
    return &CustomValidator{validator: validator.New()}
}

// Validate runs struct validation and maps failures to 400 responses.
func (cv *CustomValidator) Validate(i interface{}) error {
    if err := cv.validator.Struct(i); err != nil {
        return echo.NewHTTPError(400, err.Error())
    }
    return nil
}
