package httpapi

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/domain"
)

//go:embed dashboard.html
var dashboardHTML []byte

// Cycler runs one fetch-compare cycle. *tracker.Tracker satisfies it.
type Cycler interface {
	Cycle(ctx context.Context) *tracker.Report
}

// Handler 每个请求独立触发一轮取价，没有后台轮询
type Handler struct {
	tracker      Cycler
	markers      domain.Markers
	pushInterval time.Duration
	upgrader     websocket.Upgrader
}

func NewHandler(t Cycler, pushInterval time.Duration) *Handler {
	if pushInterval <= 0 {
		pushInterval = 30 * time.Second
	}
	return &Handler{
		tracker:      t,
		markers:      domain.DefaultMarkers,
		pushInterval: pushInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// GetPrices GET /api/prices
func (h *Handler) GetPrices(c echo.Context) error {
	rep := h.tracker.Cycle(c.Request().Context())
	body := BuildPayload(rep, h.markers)
	if !rep.OK() {
		return c.JSON(http.StatusServiceUnavailable, body)
	}
	return c.JSON(http.StatusOK, body)
}

// Dashboard GET /
func (h *Handler) Dashboard(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, dashboardHTML)
}

// Health GET /healthz
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
