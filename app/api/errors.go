package api

import (
	"errors"
	"innervoice/app/service/peer"
	"innervoice/app/service/session"
	"innervoice/app/service/transcribe"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func statusFromError(err error) int {
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrTurnInProgress):
		return fiber.StatusConflict
	case errors.Is(err, session.ErrEmptyMessage),
		errors.Is(err, peer.ErrEmptyPost),
		errors.Is(err, peer.ErrPostTooLong),
		errors.Is(err, transcribe.ErrNoSpeech):
		return fiber.StatusBadRequest
	case errors.Is(err, transcribe.ErrDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func codeFromStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	message := err.Error()

	if status == fiber.StatusInternalServerError {
		slog.Error("Request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		message = "internal server error"
	}

	return c.Status(status).JSON(errorResponse{
		Error: errorDetail{
			Code:      codeFromStatus(status),
			Message:   message,
			RequestID: c.GetRespHeader(fiber.HeaderXRequestID),
		},
	})
}
