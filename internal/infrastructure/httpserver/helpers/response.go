package helpers

import "github.com/labstack/echo/v4"

// FieldError carries field-level validation detail in error envelopes.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK writes a success envelope: {"success": true, ...payload}.
func OK(c echo.Context, code int, payload map[string]interface{}) error {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(code, body)
}

// Fail writes an error envelope: {"success": false, "error": msg}.
func Fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// FailWithDetails writes an error envelope with field-level details.
func FailWithDetails(c echo.Context, code int, msg string, details []FieldError) error {
	return c.JSON(code, map[string]interface{}{
		"success": false,
		"error":   msg,
		"details": details,
	})
}
