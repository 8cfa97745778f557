package handler

import "github.com/gofiber/fiber/v3"

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrAnalysisUnavailable is returned when no ledger executor is configured.
var ErrAnalysisUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "contract analysis is not configured")

// ErrAnalysisTimeout is returned when an analysis outlives the handler's
// deadline.
var ErrAnalysisTimeout = fiber.NewError(fiber.StatusGatewayTimeout, "analysis timed out")

// ErrComputationFailedInternal signals a generic server-side failure.
var ErrComputationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "computation failed")

// NewParamRequired returns a 400 Bad Request for a missing query parameter.
func NewParamRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" is required")
}

// NewInvalidParam returns a 400 Bad Request for a malformed query parameter.
func NewInvalidParam(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field)
}

// NewBadRequest wraps a validation error into a 400 Bad Request.
func NewBadRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

// NewUnprocessable wraps a domain or solver error into a 422 response.
func NewUnprocessable(err error) error {
	return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
}
