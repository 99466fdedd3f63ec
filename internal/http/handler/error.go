package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"foldertoword/internal/http/middleware"
)

type errorBody struct {
	RequestID string     `json:"request_id"`
	Error     errorField `json:"error"`
}

type errorField struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusText struct{ code, message string }

var knownStatus = map[int]statusText{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "upload exceeds the size limit"},
}

var internalStatus = statusText{"INTERNAL_ERROR", "internal server error"}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.RequestIDLocalKey).(string)
	return id
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorBody{
		RequestID: requestID(c),
		Error:     errorField{Code: code, Message: message},
	})
}

// plainError answers browser form requests with a text body.
func plainError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).SendString(message)
}

// ErrorHandler maps errors escaping the routes onto the JSON error body.
// Unknown statuses are reported as internal errors.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		text, ok := knownStatus[status]
		if !ok {
			text = internalStatus
		}
		return writeError(c, status, text.code, text.message)
	}
}
