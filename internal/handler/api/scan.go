package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"tsescan/internal/domain/models"
	"tsescan/internal/usecase"
	tsehttp "tsescan/pkg/http"
	"tsescan/pkg/logger"
)

// Handler serves the scanner API, the dashboard, and the websocket feed.
type Handler struct {
	svc      *usecase.ScanService
	analyzer *usecase.UniverseAnalyzer
	hub      *WSHub
	log      *logger.Logger
}

func NewHandler(svc *usecase.ScanService, analyzer *usecase.UniverseAnalyzer, hub *WSHub, log *logger.Logger) *Handler {
	h := &Handler{svc: svc, analyzer: analyzer, hub: hub, log: log}
	// Every completed scan goes out on the websocket feed.
	svc.Subscribe(func(result *models.ScanResult) {
		hub.Broadcast(result)
	})
	return h
}

// RegisterRoutes implements the server's Handler contract.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
	e.POST("/api/analyze", h.Analyze)
	e.POST("/api/scan/run", h.RunScan)
	e.GET("/api/scan/latest", h.LatestScan)
	e.GET("/dashboard", h.Dashboard)
	e.GET("/ws", h.hub.Handle)
}

func (h *Handler) Health(c echo.Context) error {
	return tsehttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Analyze runs the pipeline over caller-supplied series. The input
// boundary for callers that bring their own data.
func (h *Handler) Analyze(c echo.Context) error {
	req := new(models.AnalyzeRequest)
	if details := tsehttp.ReadAndValidateRequest(c, req); details != nil {
		return tsehttp.BadRequestResponse(c, details)
	}

	result, err := h.analyzer.Analyze(c.Request().Context(), req.Data, usecase.AnalyzeOptions{
		TopN:    req.TopN,
		Indices: req.Indices,
	})
	if err != nil {
		h.log.Error("analyze request failed", logger.Error(err))
		return tsehttp.InternalServerErrorResponse(c)
	}
	return tsehttp.SuccessResponse(c, result)
}

// RunScan triggers a scan over the configured universe (or an explicit
// symbol list) through the source fallback chain.
func (h *Handler) RunScan(c echo.Context) error {
	req := new(models.RunScanRequest)
	if details := tsehttp.ReadAndValidateRequest(c, req); details != nil {
		return tsehttp.BadRequestResponse(c, details)
	}

	summary, err := h.svc.RunOnce(c.Request().Context(), req.Symbols, req.TopN)
	if err != nil {
		h.log.Error("scan run failed", logger.Error(err))
		return tsehttp.InternalServerErrorResponse(c)
	}
	return tsehttp.SuccessResponse(c, summary)
}

// LatestScan returns the last cached scan result.
func (h *Handler) LatestScan(c echo.Context) error {
	result, err := h.svc.Latest(c.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoScanYet) {
			return tsehttp.AppErrorResponse(c, tsehttp.NotFoundError("no scan has completed yet"))
		}
		h.log.Error("latest scan lookup failed", logger.Error(err))
		return tsehttp.InternalServerErrorResponse(c)
	}
	return tsehttp.SuccessResponse(c, result)
}
