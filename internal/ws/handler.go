package ws

import (
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

const DefaultMaxClients = 512

type Handler struct {
	hub        *Hub
	logger     *log.Logger
	maxClients int
	upgrader   websocket.Upgrader
}

// NewHandler accepts connections from any origin unless allowedOrigins is
// given, in which case the Origin header must match one of them exactly.
func NewHandler(hub *Hub, logger *log.Logger, allowedOrigins ...string) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return &Handler{
		hub:        hub,
		logger:     logger,
		maxClients: DefaultMaxClients,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[strings.TrimRight(r.Header.Get("Origin"), "/")]
				return ok
			},
		},
	}
}

// WithMaxClients caps concurrent subscribers; n <= 0 removes the cap.
func (h *Handler) WithMaxClients(n int) *Handler {
	h.maxClients = n
	return h
}

// HandleOffersWS upgrades the request and subscribes the connection to
// offer-update events.
func (h *Handler) HandleOffersWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	if !strings.EqualFold(c.Get(fiber.HeaderUpgrade), "websocket") {
		return fiber.ErrUpgradeRequired
	}
	if h.maxClients > 0 && h.hub.ClientCount() >= h.maxClients {
		h.logf("WS refused | reason=max_clients total_clients=%d", h.hub.ClientCount())
		return fiber.ErrServiceUnavailable
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logf("WS upgrade error | remote=%s error=%v", r.RemoteAddr, err)
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
