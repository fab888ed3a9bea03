package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// Probe checks reachability of a dependency.
type Probe func(ctx context.Context) error

// StatusHandler serves the public diagnostics snapshot. Nothing here is
// security-sensitive, so the route takes no auth.
type StatusHandler struct {
	contracts ports.ContractService
	dbProbe   Probe
	redisProbe Probe
	startedAt time.Time
}

func NewStatusHandler(contracts ports.ContractService, dbProbe, redisProbe Probe, startedAt time.Time) *StatusHandler {
	return &StatusHandler{
		contracts:  contracts,
		dbProbe:    dbProbe,
		redisProbe: redisProbe,
		startedAt:  startedAt,
	}
}

type serverStatus struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	UptimeMs  int64  `json:"uptimeMs"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

type dependencyStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

type systemStatus struct {
	MemoryUsedMB uint64 `json:"memoryUsedMB"`
	Goroutines   int    `json:"goroutines"`
	CPUCores     int    `json:"cpuCores"`
}

type statusResponse struct {
	Server    serverStatus          `json:"server"`
	Database  dependencyStatus      `json:"database"`
	Redis     dependencyStatus      `json:"redis"`
	System    systemStatus          `json:"system"`
	Contracts *domain.ContractStats `json:"contracts"`
	Timestamp string                `json:"timestamp"`
}

// Get renders the liveness/diagnostics snapshot.
//
// @Summary      Service status
// @Tags         status
// @Produce      json
// @Success      200  {object}  statusResponse
// @Router       /status [get]
func (h *StatusHandler) Get(c echo.Context) error {
	uptime := time.Since(h.startedAt)

	resp := statusResponse{
		Server: serverStatus{
			Status:    "ONLINE",
			Uptime:    formatUptime(uptime),
			UptimeMs:  uptime.Milliseconds(),
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS,
		},
		Database:  probe(c.Request().Context(), h.dbProbe),
		Redis:     probe(c.Request().Context(), h.redisProbe),
		System:    readSystem(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	// Counts ride on the same store as the probe; a dead database yields
	// a nil block rather than an error response.
	if stats, err := h.contracts.Stats(c.Request().Context()); err == nil {
		resp.Contracts = stats
	}

	return c.JSON(http.StatusOK, resp)
}

func probe(ctx context.Context, p Probe) dependencyStatus {
	if p == nil {
		return dependencyStatus{Status: "UNKNOWN"}
	}
	start := time.Now()
	if err := p(ctx); err != nil {
		return dependencyStatus{Status: "ERROR"}
	}
	return dependencyStatus{
		Status:  "ONLINE",
		Latency: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
	}
}

func readSystem() systemStatus {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return systemStatus{
		MemoryUsedMB: m.HeapAlloc / 1024 / 1024,
		Goroutines:   runtime.NumGoroutine(),
		CPUCores:     runtime.NumCPU(),
	}
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int64(d.Hours())
	m := int64(d.Minutes()) % 60
	s := int64(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
