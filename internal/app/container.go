package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"job-insight/internal/collector/francetravail"
	"job-insight/internal/collector/wttj"
	"job-insight/internal/config"
	"job-insight/internal/database"
	"job-insight/internal/database/migration"
	dbpostgres "job-insight/internal/database/postgres"
	"job-insight/internal/domain/matching"
	"job-insight/internal/embedding"
	"job-insight/internal/infrastructure/cache"
	"job-insight/internal/repository"
	"job-insight/internal/usecase"
	"job-insight/internal/ws"
	"job-insight/migrations"
)

// Container owns every long-lived dependency of a process. Optional
// components stay nil when their configuration is absent.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB      database.DB
	Cache   *cache.Redis
	Model   *embedding.Lazy
	Encoder embedding.Encoder
	Engine  *matching.Engine
	Hub     *ws.Hub

	Offers repository.OfferRepository
	Runs   repository.CollectRunRepository

	FT   *francetravail.Client
	WTTJ *wttj.Collector

	headless *wttj.HeadlessTransport

	closeMu sync.Mutex
	closers []func() error
}

type ContainerOptions struct {
	// OffersFile seeds the in-memory store; it overrides OFFERS_FILE.
	OffersFile string
	// SkipMigrations leaves the schema untouched.
	SkipMigrations bool
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger, opts ContainerOptions) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initStorage(ctx, opts); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.addCloser(c.Cache.Close)

	c.Model = embedding.NewLazy(c.loadEncoder, logger)
	c.Encoder = c.Model
	if c.Cache.Available() {
		c.Encoder = embedding.NewCachedEncoder(c.Model, c.Cache, cfg.Embedding.Model, 0, logger)
	}
	c.Engine = matching.NewEngine(c.Encoder, logger).WithWorkers(cfg.Matching.Workers)

	c.Hub = ws.NewHub(logger)

	if cfg.FT.Configured() {
		// The token source keeps this context for refreshes.
		ft, err := francetravail.NewClient(context.Background(), cfg.FT, logger)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("france travail client: %w", err)
		}
		c.FT = ft
	} else {
		logger.Printf("[App] France Travail collector disabled: FT_CLIENT_ID/FT_CLIENT_SECRET not set")
	}

	c.WTTJ = wttj.New(cfg.WTTJ, logger)
	if cfg.WTTJ.Headless {
		c.headless = wttj.NewHeadlessTransport(context.Background(), 0)
		c.WTTJ.WithTransport(c.headless)
		c.addCloser(func() error {
			c.headless.Close()
			return nil
		})
	}

	return c, nil
}

func (c *Container) initStorage(ctx context.Context, opts ContainerOptions) error {
	cfg := c.Config
	if !cfg.Database.Configured() {
		path := opts.OffersFile
		if path == "" {
			path = cfg.App.OffersFile
		}
		if path == "" {
			c.Logger.Printf("[App] storage=memory offers=0")
			c.Offers = repository.NewMemoryOfferRepository()
			return nil
		}
		mem, err := repository.LoadOffersFile(path)
		if err != nil {
			return fmt.Errorf("load offers file: %w", err)
		}
		n, _ := mem.Count(ctx, "")
		c.Logger.Printf("[App] storage=memory offers=%d file=%s", n, path)
		c.Offers = mem
		return nil
	}

	pool, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	c.DB = pool
	c.addCloser(pool.Close)

	if !opts.SkipMigrations {
		r := migration.Runner{FS: migrationsFS(cfg.App.MigrationsDir), Dir: ".", Logger: c.Logger}
		n, err := r.Run(ctx, pool)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		c.Logger.Printf("[App] migrations applied=%d", n)
	}

	c.Offers = repository.NewPostgresOfferRepository(pool)
	c.Runs = repository.NewPostgresCollectRunRepository(pool)
	c.Logger.Printf("[App] storage=postgres host=%s db=%s", cfg.Database.DBHost, cfg.Database.DBName)
	return nil
}

// migrationsFS prefers an on-disk directory so operators can ship extra
// migrations without rebuilding.
func migrationsFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

func (c *Container) loadEncoder(ctx context.Context) (embedding.Encoder, error) {
	cfg := c.Config.Embedding
	switch cfg.Provider {
	case config.EmbeddingProviderGemini:
		g, err := embedding.NewGeminiEncoder(context.WithoutCancel(ctx), cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		c.addCloser(g.Close)
		return g, nil
	default:
		return embedding.NewHTTPEncoder(cfg.BaseURL, cfg.Timeout, c.Logger)
	}
}

// Usecases builds the usecase layer over the container. Interfaces are only
// set when the concrete dependency exists so nil checks downstream hold.
func (c *Container) Usecases() Usecases {
	var ft usecase.FTSearcher
	if c.FT != nil {
		ft = c.FT
	}
	var board usecase.BoardCollector
	if c.WTTJ != nil {
		board = c.WTTJ
	}
	var notifier usecase.OffersNotifier
	if c.Hub != nil {
		notifier = c.Hub
	}

	return Usecases{
		Match:     usecase.NewMatchUsecase(c.Offers, c.Engine, c.Logger),
		Analytics: usecase.NewAnalyticsUsecase(c.Offers, c.Encoder, c.Cache, c.Logger),
		Offers:    usecase.NewOfferUsecase(c.Offers, c.Logger),
		Collect:   usecase.NewCollectUsecase(ft, board, c.Offers, c.Runs, c.Cache, notifier, c.Logger),
	}
}

type Usecases struct {
	Match     *usecase.Match
	Analytics *usecase.Analytics
	Offers    *usecase.Offers
	Collect   *usecase.Collect
}

// MatchDefaults returns the options applied when a request sets none.
func (c *Container) MatchDefaults() matching.Options {
	opts := matching.DefaultOptions()
	if t := c.Config.Matching.SkillThreshold; t > 0 && t <= 1 {
		opts.SkillThreshold = t
	}
	return opts
}

func (c *Container) addCloser(fn func() error) {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	c.closers = append(c.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.closeMu.Lock()
	closers := c.closers
	c.closers = nil
	c.closeMu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
