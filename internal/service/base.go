// Package service contains the curve solver and oracle analysis logic backing
// the HTTP handlers and the CLI.
package service

import (
	"log/slog"

	"github.com/nulln0ne/normal-curve-oracle/internal/metrics"
)

// BaseService provides common dependencies for service types.
type BaseService struct {
	logger  *slog.Logger
	metrics *metrics.SolverMetrics
}
