package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cast"

	"github.com/nulln0ne/normal-curve-oracle/internal/service"
	"github.com/nulln0ne/normal-curve-oracle/pkg/normalcurve"
)

type CurveHandler struct {
	BaseHandler
	service *service.CurveService
}

func NewCurveHandler(logger *slog.Logger, svc *service.CurveService) *CurveHandler {
	return &CurveHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// CurveRequest carries a curve state as query parameters. Values are kept as
// strings so a missing parameter can be told apart from zero.
type CurveRequest struct {
	X        string `query:"x" json:"x"`
	Y        string `query:"y" json:"y"`
	Strike   string `query:"strike" json:"strike"`
	Vol      string `query:"vol" json:"vol"`
	Tau      string `query:"tau" json:"tau"`
	K        string `query:"k" json:"k"`
	Sell     string `query:"sell" json:"sell"`
	AmountIn string `query:"amount_in" json:"amount_in"`
	Step     string `query:"step" json:"step"`
}

// Invariant handles GET /invariant.
func (h *CurveHandler) Invariant() fiber.Handler {
	return func(c fiber.Ctx) error {
		curve, _, err := h.parseCurve(c, "x", "y")
		if err != nil {
			return err
		}
		k, err := h.service.Invariant(curve)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(fiber.Map{"invariant": k})
	}
}

// SolveY handles GET /solve/y.
func (h *CurveHandler) SolveY() fiber.Handler {
	return func(c fiber.Ctx) error {
		curve, _, err := h.parseCurve(c, "x")
		if err != nil {
			return err
		}
		y, err := h.service.SolveY(curve)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(fiber.Map{"y": y})
	}
}

// SolveX handles GET /solve/x. x is needed to fix the invariant.
func (h *CurveHandler) SolveX() fiber.Handler {
	return func(c fiber.Ctx) error {
		curve, _, err := h.parseCurve(c, "x", "y")
		if err != nil {
			return err
		}
		x, err := h.service.SolveX(curve)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(fiber.Map{"x": x})
	}
}

// AmountOut handles GET /amount-out. sell=true swaps x in for y out.
func (h *CurveHandler) AmountOut() fiber.Handler {
	return func(c fiber.Ctx) error {
		curve, req, err := h.parseCurve(c, "x", "y", "sell", "amount_in")
		if err != nil {
			return err
		}
		sell, err := cast.ToBoolE(strings.TrimSpace(req.Sell))
		if err != nil {
			return NewInvalidParam("sell")
		}
		amountIn, err := parseFloat("amount_in", req.AmountIn)
		if err != nil {
			return err
		}

		out, err := h.service.AmountOut(curve, sell, amountIn)
		if err != nil {
			return h.handleServiceError(err)
		}
		h.logger.Debug("amount out computed", "sell", sell, "in", amountIn, "out", out)
		return c.JSON(fiber.Map{"amount_out": out})
	}
}

// Coordinates handles GET /coordinates.
func (h *CurveHandler) Coordinates() fiber.Handler {
	return func(c fiber.Ctx) error {
		curve, req, err := h.parseCurve(c)
		if err != nil {
			return err
		}
		step := normalcurve.DefaultStep
		if req.Step != "" {
			if step, err = parseFloat("step", req.Step); err != nil {
				return err
			}
		}
		points, err := h.service.Coordinates(curve, step)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(points)
	}
}

// parseCurve binds the query and builds a curve. strike, vol and tau are
// always required; required names the other parameters the route needs.
func (h *CurveHandler) parseCurve(c fiber.Ctx, required ...string) (normalcurve.Curve, *CurveRequest, error) {
	var req CurveRequest
	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return normalcurve.Curve{}, nil, ErrInvalidQueryParameters
	}

	values := map[string]string{
		"x": req.X, "y": req.Y, "strike": req.Strike, "vol": req.Vol,
		"tau": req.Tau, "sell": req.Sell, "amount_in": req.AmountIn,
	}
	for _, field := range append([]string{"strike", "vol", "tau"}, required...) {
		if strings.TrimSpace(values[field]) == "" {
			return normalcurve.Curve{}, nil, NewParamRequired(field)
		}
	}

	var (
		curve normalcurve.Curve
		err   error
	)
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"x", req.X, &curve.ReserveXPerLiquidity},
		{"y", req.Y, &curve.ReserveYPerLiquidity},
		{"strike", req.Strike, &curve.StrikePrice},
		{"vol", req.Vol, &curve.Volatility},
		{"tau", req.Tau, &curve.TimeRemainingSeconds},
		{"k", req.K, &curve.Invariant},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		if *f.dst, err = parseFloat(f.name, f.raw); err != nil {
			return normalcurve.Curve{}, nil, err
		}
	}
	return curve, &req, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil {
		return 0, NewInvalidParam(field)
	}
	return v, nil
}
