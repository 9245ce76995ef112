package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope wraps every successful response body.
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page      int   `json:"page"`
	Size      int   `json:"size"`
	TotalData int64 `json:"total_data"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{StatusCode: code, Message: message, Data: data})
}

func ok(c echo.Context, message string, data any) error {
	return respond(c, http.StatusOK, message, data)
}

func created(c echo.Context, message string, data any) error {
	return respond(c, http.StatusCreated, message, data)
}

func page(c echo.Context, message string, data any, p Pagination) error {
	return c.JSON(http.StatusOK, Envelope{StatusCode: http.StatusOK, Message: message, Data: data, Pagination: &p})
}
