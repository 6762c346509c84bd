package handler

import (
	"context"
	"time"

	"job-insight/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthTimeout = 2 * time.Second

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthDeps struct {
	DB       Pinger // nil when running on the in-memory store
	Cache    Pinger
	Embedder interface{ Loaded() bool }
	Clients  interface{ ClientCount() int }
	Env      string
}

type HealthHandler struct {
	deps    HealthDeps
	started time.Time
}

func NewHealthHandler(deps HealthDeps) *HealthHandler {
	return &HealthHandler{deps: deps, started: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

type healthReport struct {
	Status         string `json:"status"`
	Env            string `json:"env,omitempty"`
	Uptime         string `json:"uptime"`
	Database       string `json:"database"`
	Cache          string `json:"cache"`
	EmbeddingModel string `json:"embedding_model"`
	WSClients      int    `json:"ws_clients"`
}

// Health reports 503 only when a configured database is unreachable. A
// missing cache or an unloaded model degrades features without failing
// requests.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	rep := healthReport{
		Status:         "ok",
		Env:            h.deps.Env,
		Uptime:         time.Since(h.started).Round(time.Second).String(),
		Database:       probe(ctx, h.deps.DB, "memory"),
		Cache:          probe(ctx, h.deps.Cache, "disabled"),
		EmbeddingModel: "not_loaded",
	}
	if h.deps.Embedder != nil && h.deps.Embedder.Loaded() {
		rep.EmbeddingModel = "loaded"
	}
	if h.deps.Clients != nil {
		rep.WSClients = h.deps.Clients.ClientCount()
	}

	status := fiber.StatusOK
	if rep.Database == "down" {
		rep.Status = "degraded"
		status = fiber.StatusServiceUnavailable
	}
	return response.Success(c, status, rep.Status, rep)
}

func probe(ctx context.Context, p Pinger, absent string) string {
	if p == nil {
		return absent
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
