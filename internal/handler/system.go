package handler

import (
	"context"
	"net/http"
	"time"

	"ekyc/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by *sqlx.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	db          DBPinger
	redisClient *redis.Client
	logger      logger.Logger
	startTime   time.Time
}

func NewSystemHandler(db DBPinger, redisClient *redis.Client, log logger.Logger) *SystemHandler {
	return &SystemHandler{
		db:          db,
		redisClient: redisClient,
		logger:      log,
		startTime:   time.Now(),
	}
}

type ServiceStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"` // operational, degraded, outage
	LatencyMs int64  `json:"latency_ms"`
}

type HealthResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Services      []ServiceStatus `json:"services"`
}

// Health reports dependency status. A database outage fails the check with
// 503; a Redis outage only degrades it.
// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:        "operational",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	if h.db != nil {
		st := h.probe("database", 200, func() error { return h.db.PingContext(ctx) })
		if st.Status == "outage" {
			resp.Status = "outage"
		}
		resp.Services = append(resp.Services, st)
	}
	if h.redisClient != nil {
		st := h.probe("redis", 50, func() error { return h.redisClient.Ping(ctx).Err() })
		if st.Status != "operational" && resp.Status == "operational" {
			resp.Status = "degraded"
		}
		resp.Services = append(resp.Services, st)
	}

	code := http.StatusOK
	if resp.Status == "outage" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, Response{Success: code == http.StatusOK, Data: resp})
}

// probe marks a dependency degraded when it answers slower than slowMs.
func (h *SystemHandler) probe(name string, slowMs int64, ping func() error) ServiceStatus {
	start := time.Now()
	err := ping()
	st := ServiceStatus{Name: name, Status: "operational", LatencyMs: time.Since(start).Milliseconds()}
	switch {
	case err != nil:
		st.Status = "outage"
		h.logger.Error("health check failed", map[string]interface{}{"service": name, "error": err})
	case st.LatencyMs > slowMs:
		st.Status = "degraded"
	}
	return st
}
