package conversation

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sashabaranov/go-openai"
)

// ServiceError is returned when the completion endpoint could not produce a
// reply: transport failure, timeout or a non-2xx status. Body holds the raw
// response body of a non-2xx reply.
type ServiceError struct {
	StatusCode int
	Body       string
	Timeout    bool
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("completion service timed out: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("completion service error: status %d: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("completion service unreachable: %v", e.Err)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Kind is a short label for logs and metrics.
func (e *ServiceError) Kind() string {
	switch {
	case e.Timeout:
		return "timeout"
	case e.StatusCode != 0:
		return "status"
	default:
		return "transport"
	}
}

// toServiceError classifies err. raw is the response body as received; when
// empty, Body falls back to what the openai client parsed.
func toServiceError(err error, raw []byte) *ServiceError {
	result := &ServiceError{Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var netErr net.Error

	switch {
	case errors.As(err, &apiErr):
		result.StatusCode = apiErr.HTTPStatusCode
		result.Body = apiErr.Message
	case errors.As(err, &reqErr):
		result.StatusCode = reqErr.HTTPStatusCode
		result.Body = string(reqErr.Body)
	case errors.Is(err, context.DeadlineExceeded):
		result.Timeout = true
	case errors.As(err, &netErr) && netErr.Timeout():
		result.Timeout = true
	}

	if len(raw) > 0 && result.StatusCode != 0 {
		result.Body = string(raw)
	}

	return result
}
