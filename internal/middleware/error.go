package middleware

import (
	"errors"

	"examdrill/internal/domain"
	"examdrill/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the envelope written by the centralized error
// handler for validation failures.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorHandler is the global fiber error handler. Handlers may return
// domain errors directly; this maps them to HTTP statuses and a JSON
// body with a single "error" field, which is what API consumers parse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appLogger := logger.Get()

	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		appLogger.Debug("Validation failed",
			zap.String("path", c.Path()),
			zap.Error(validationErrs),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErrs.Error(),
		})
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := mapDomainErrorToHTTPStatus(domainErr.Code)
		logFields := []zap.Field{
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("code", string(domainErr.Code)),
		}
		if domainErr.Cause != nil {
			logFields = append(logFields, zap.Error(domainErr.Cause))
		}
		if status >= fiber.StatusInternalServerError {
			appLogger.Error("Request failed", logFields...)
		} else {
			appLogger.Warn("Request rejected", logFields...)
		}
		return c.Status(status).JSON(fiber.Map{
			"error": domainErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	appLogger.Error("Unhandled error",
		zap.String("path", c.Path()),
		zap.String("method", c.Method()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

func mapDomainErrorToHTTPStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeQuestionNotFound, domain.CodeExamNotFound:
		return fiber.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange:
		return fiber.StatusBadRequest
	case domain.CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
