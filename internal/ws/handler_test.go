package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws/offers", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	return req
}

func TestHandler_RequiresUpgrade(t *testing.T) {
	app := fiber.New()
	app.Get("/ws/offers", NewHandler(NewHub(nil), nil).HandleOffersWS)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/offers", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestHandler_MaxClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)
	hub.Register(&Client{hub: hub, send: make(chan []byte, 1)})
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	app := fiber.New()
	app.Get("/ws/offers", NewHandler(hub, nil).WithMaxClients(1).HandleOffersWS)

	resp, err := app.Test(wsRequest())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_NilHub(t *testing.T) {
	app := fiber.New()
	var h *Handler
	app.Get("/ws/offers", h.HandleOffersWS)

	resp, err := app.Test(wsRequest())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_CheckOrigin(t *testing.T) {
	open := NewHandler(NewHub(nil), nil)
	req := httptest.NewRequest(http.MethodGet, "/ws/offers", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.True(t, open.upgrader.CheckOrigin(req))

	strict := NewHandler(NewHub(nil), nil, "https://app.example/", " ")
	assert.False(t, strict.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, strict.upgrader.CheckOrigin(req))
}
