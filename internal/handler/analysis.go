package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/normal-curve-oracle/internal/service"
)

// DefaultAnalysisTimeout bounds one analysis request.
const DefaultAnalysisTimeout = 2 * time.Minute

type AnalysisHandler struct {
	BaseHandler
	service *service.AnalysisService
	timeout time.Duration
}

func NewAnalysisHandler(logger *slog.Logger, svc *service.AnalysisService, timeout time.Duration) *AnalysisHandler {
	return &AnalysisHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
		timeout: timeout,
	}
}

type AnalysisRequest struct {
	Subtype string `query:"subtype" json:"subtype"`
}

// Run handles GET /analysis/:name, e.g. /analysis/trading-function. The
// sweep stops when the request context ends or the handler timeout passes.
func (h *AnalysisHandler) Run() fiber.Handler {
	return func(c fiber.Ctx) error {
		name := strings.ReplaceAll(strings.ToLower(c.Params("name")), "-", "_")

		var req AnalysisRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		subtype, err := service.ParseSubtype(req.Subtype)
		if err != nil {
			return h.handleServiceError(err)
		}

		ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
		defer cancel()
		report, err := h.service.Run(ctx, name, subtype)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(report)
	}
}
