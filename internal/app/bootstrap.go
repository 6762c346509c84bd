package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"job-insight/internal/config"
	"job-insight/internal/delivery/http/handler"
	"job-insight/internal/delivery/http/middleware"
	"job-insight/internal/delivery/http/routes"
	"job-insight/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Collection requests scrape synchronously and can take minutes.
const writeTimeout = 15 * time.Minute

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:      cfg.App.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the websocket hub and returns the
// HTTP app with a cleanup func that stops both.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger, ContainerOptions{})
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(logger, "/health", "/ws/offers")
	app.Use(accessMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	uc := c.Usecases()
	health := handler.HealthDeps{
		Embedder: c.Model,
		Clients:  c.Hub,
		Env:      c.Config.App.Environment,
	}
	if c.DB != nil {
		health.DB = c.DB
	}
	if c.Cache.Available() {
		health.Cache = c.Cache
	}

	routes.NewRegistry(routes.Handlers{
		Health:    handler.NewHealthHandler(health),
		Match:     handler.NewMatchHandler(uc.Match, c.MatchDefaults(), c.Config.Matching.MinScore),
		Analytics: handler.NewAnalyticsHandler(uc.Analytics),
		Offers:    handler.NewOfferHandler(uc.Offers),
		Collect:   handler.NewCollectHandler(uc.Collect),
		WS:        ws.NewHandler(c.Hub, c.Logger, c.Config.App.WSAllowedOrigins...).WithMaxClients(c.Config.App.WSMaxClients),
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
