package web

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HealthResponse is the body of the probe endpoints / Corps des sondes de santé
type HealthResponse struct {
	Status    string            `json:"status"` // "ok" or "error"
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck reports liveness; dependencies are not checked.
// Indique que le processus répond.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    formatUptime(time.Since(startTime)),
	})
}

// ReadinessCheck returns 503 until the database answers.
// Vérifie que les dépendances sont disponibles.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": h.checkDatabase(r.Context())}

	resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC(), Checks: checks}
	code := http.StatusOK
	for _, status := range checks {
		if status != "ok" {
			resp.Status = "error"
			code = http.StatusServiceUnavailable
		}
	}

	h.container.Metrics.UpdateDatabaseConnections(h.container.DB.Stats().OpenConnections)
	writeJSON(w, code, resp)
}

func (h *Handler) checkDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var one int
	if err := h.container.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		LoggerFromContext(ctx, h.log).Error("readiness database check failed", "err", err)
		return "error"
	}
	return "ok"
}

// formatUptime renders d as "1d 5h 23m", "2h 15m 30s" or "45s".
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return joinUnits(days, "d", hours, "h", minutes, "m")
	case hours > 0:
		return joinUnits(hours, "h", minutes, "m", seconds, "s")
	case minutes > 0:
		return joinUnits(minutes, "m", seconds, "s")
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// joinUnits takes value/unit pairs and skips zero values
func joinUnits(pairs ...any) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		v, unit := pairs[i].(int), pairs[i+1].(string)
		if v == 0 {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%d%s", v, unit)
	}
	return out
}
