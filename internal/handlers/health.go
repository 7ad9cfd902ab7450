package handlers

import (
	"net/http"
	"runtime"
	"time"

	"dnstool/propagation/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	StartTime time.Time
	Telemetry *telemetry.Registry
}

func NewHealthHandler(reg *telemetry.Registry) *HealthHandler {
	return &HealthHandler{
		StartTime: time.Now(),
		Telemetry: reg,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":  "ok",
		"runtime": "go",
		"uptime":  time.Since(h.StartTime).String(),
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Telemetry != nil {
		resolverStats := h.Telemetry.AllStats()

		stats := make([]gin.H, 0, len(resolverStats))
		for _, rs := range resolverStats {
			entry := gin.H{
				"name":                 rs.Name,
				"state":                string(rs.State),
				"total_requests":       rs.TotalRequests,
				"success_count":        rs.SuccessCount,
				"failure_count":        rs.FailureCount,
				"consecutive_failures": rs.ConsecFailures,
				"avg_latency_ms":       rs.AvgLatencyMs,
				"p95_latency_ms":       rs.P95LatencyMs,
			}
			if rs.LastError != "" {
				entry["last_error"] = rs.LastError
			}
			if rs.LastErrorTime != nil {
				entry["last_error_time"] = rs.LastErrorTime.Format(time.RFC3339)
			}
			if rs.LastSuccessTime != nil {
				entry["last_success_time"] = rs.LastSuccessTime.Format(time.RFC3339)
			}
			stats = append(stats, entry)
		}
		response["resolvers"] = stats

		overallState := telemetry.Healthy
		for _, rs := range resolverStats {
			if rs.State == telemetry.Unhealthy {
				overallState = telemetry.Unhealthy
				break
			}
			if rs.State == telemetry.Degraded {
				overallState = telemetry.Degraded
			}
		}
		response["overall_resolver_health"] = string(overallState)
	}

	c.JSON(http.StatusOK, response)
}
