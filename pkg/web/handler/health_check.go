package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// ComponentCheck probes one dependency of the service.
type ComponentCheck struct {
	Name   string
	IsCore bool
	Ping   func(ctx context.Context) error
}

type HealthCheckHandler struct {
	checks  []ComponentCheck
	timeout time.Duration
}

func NewHealthCheckHandler(checks ...ComponentCheck) *HealthCheckHandler {
	return &HealthCheckHandler{checks: checks, timeout: 2 * time.Second}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"`
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck answers 503 when a core component is down.
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(startupTime).Truncate(time.Second).String(),
		Components: make([]ComponentStatus, 0, len(h.checks)),
	}
	for _, check := range h.checks {
		status.Components = append(status.Components, h.run(ctx, check))
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(consts.StatusServiceUnavailable, status)
		return
	}

	c.JSON(consts.StatusOK, status)
}

func (h *HealthCheckHandler) run(ctx context.Context, check ComponentCheck) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := check.Ping(ctx)
	cs := ComponentStatus{
		Name:    check.Name,
		Status:  "ok",
		IsCore:  check.IsCore,
		Latency: time.Since(start),
	}
	if err != nil {
		hlog.CtxWarnf(ctx, "health: %s unreachable: %v", check.Name, err)
		cs.Status = "down"
		cs.Error = err.Error()
	}
	return cs
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
