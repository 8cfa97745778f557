package main

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nulln0ne/normal-curve-oracle/internal/handler"
	"github.com/nulln0ne/normal-curve-oracle/internal/service"
)

// newApp registers every route. A panicking handler becomes a 500 instead of
// taking the process down.
func newApp(logger *slog.Logger, curveService *service.CurveService, analysisService *service.AnalysisService) *fiber.App {
	app := fiber.New()
	app.Use(recoverer.New())

	curveHandler := handler.NewCurveHandler(logger, curveService)
	app.Get("/invariant", curveHandler.Invariant())
	app.Get("/solve/y", curveHandler.SolveY())
	app.Get("/solve/x", curveHandler.SolveX())
	app.Get("/amount-out", curveHandler.AmountOut())
	app.Get("/coordinates", curveHandler.Coordinates())

	analysisHandler := handler.NewAnalysisHandler(logger, analysisService, handler.DefaultAnalysisTimeout)
	app.Get("/analysis/:name", analysisHandler.Run())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	return app
}
