package issuanceapi

import (
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Error     *Problem  `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

type Problem struct {
	Code    string         `json:"code"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
	Cause   string         `json:"cause,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

// ErrorHandler renders errors in the response envelope. Only *errx.Error
// values keep their code and status; anything else becomes IAM_INTERNAL.
// With debug set the wrapped cause is included.
func ErrorHandler(logger *logx.Logger, debug bool) fiber.ErrorHandler {
	logger = logger.With(logx.Fields{"component": "http"})

	return func(c *fiber.Ctx, err error) error {
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)
		entry := logger.WithFields(logx.Fields{
			"path":   c.Path(),
			"method": c.Method(),
			"ip":     c.IP(),
		}).WithContext(c.UserContext())

		if fe, ok := err.(*fiber.Error); ok {
			entry.WithField("status", fe.Code).Debug("request rejected")
			return c.Status(fe.Code).JSON(Response{
				Message:   fe.Message,
				Timestamp: time.Now().UTC(),
				Error:     &Problem{Code: "HTTP_ERROR", Type: string(errx.TypeValidation)},
				RequestID: requestID,
			})
		}

		var e *errx.Error
		if !errx.As(err, &e) || e.HTTPStatus == 0 {
			entry.WithError(err).Error("unhandled request error")
			e = iam.ErrInternal()
		} else if e.HTTPStatus >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithField("code", e.Code).Debug("request failed")
		}

		problem := &Problem{Code: e.Code, Type: string(e.Type), Details: e.Details}
		if debug && e.Err != nil {
			problem.Cause = e.Err.Error()
		}
		return c.Status(e.HTTPStatus).JSON(Response{
			Message:   e.Message,
			Timestamp: time.Now().UTC(),
			Error:     problem,
			RequestID: requestID,
		})
	}
}

// NotFound answers unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(Response{
		Message:   "route not found",
		Timestamp: time.Now().UTC(),
		Error:     &Problem{Code: "ROUTE_NOT_FOUND", Type: string(errx.TypeNotFound)},
		RequestID: c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
