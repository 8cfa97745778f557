// Package handler defines HTTP request handlers and related utilities.
package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nulln0ne/normal-curve-oracle/internal/service"
	"github.com/nulln0ne/normal-curve-oracle/pkg/bisection"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger *slog.Logger
}

func (h *BaseHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidStep),
		errors.Is(err, service.ErrUnknownSubtype),
		errors.Is(err, service.ErrUnknownAnalysis),
		errors.Is(err, normalcurve.ErrInvalidAmount):
		return NewBadRequest(err)
	case errors.Is(err, normalcurve.ErrDomain),
		errors.Is(err, bisection.ErrInvalidBracket),
		errors.Is(err, bisection.ErrNoConvergence),
		errors.Is(err, bisection.ErrNotFinite),
		errors.Is(err, bisection.ErrInvalidTolerance):
		return NewUnprocessable(err)
	case errors.Is(err, service.ErrNoOracle):
		return ErrAnalysisUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return ErrAnalysisTimeout
	default:
		h.logger.Error("service call failed", "err", err)
		return ErrComputationFailedInternal
	}
}
