package handler

import "github.com/labstack/echo/v4"

// envelope is the canonical success body: a top-level status plus
// optional message (mutations), count (lists), and data payload.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Status: "success", Data: data})
}

func respondMsg(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, envelope{Status: "success", Message: msg, Data: data})
}

func respondCount(c echo.Context, code, count int, data any) error {
	return c.JSON(code, envelope{Status: "success", Count: &count, Data: data})
}
