package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Embedding EmbeddingConfig
	Matching  MatchingConfig
	FT        FranceTravailConfig
	WTTJ      WTTJConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	MigrationsDir string
	OffersFile    string

	WSAllowedOrigins []string
	WSMaxClients     int
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type EmbeddingConfig struct {
	Provider     string
	BaseURL      string
	Model        string
	GeminiAPIKey string
	Timeout      time.Duration
}

type MatchingConfig struct {
	Workers        int
	SkillThreshold float64
	MinScore       float64
}

type FranceTravailConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	SearchURL    string
	Scope        string
}

type WTTJConfig struct {
	BaseURL  string
	MaxPages int
	Headless bool
}

const (
	EmbeddingProviderHTTP   = "http"
	EmbeddingProviderGemini = "gemini"

	defaultEmbeddingModel = "paraphrase-multilingual-MiniLM-L12-v2"
	defaultGeminiModel    = "text-embedding-004"
	defaultFTTokenURL     = "https://entreprise.francetravail.fr/connexion/oauth2/access_token?realm=/partenaire"
	defaultFTSearchURL    = "https://api.francetravail.io/partenaire/offresdemploi/v2/offres/search"
	defaultFTScope        = "api_offresdemploiv2 o2dsoffre"
	defaultWTTJBaseURL    = "https://www.welcometothejungle.com/fr/jobs?refinementList%5Boffices.country_code%5D%5B%5D=FR"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optFloat := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optSeconds := func(key string, def time.Duration) time.Duration {
		return time.Duration(optInt(key, int(def/time.Second))) * time.Second
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      req("HTTP_PORT"),
		MigrationsDir: opt("MIGRATIONS_DIR"),
		OffersFile:    opt("OFFERS_FILE"),

		WSAllowedOrigins: splitList(opt("WS_ALLOWED_ORIGINS")),
		WSMaxClients:     optInt("WS_MAX_CLIENTS", 512),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optSeconds("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optSeconds("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optSeconds("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optSeconds("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optSeconds("REDIS_TTL", 600*time.Second),
	}

	cfg.Embedding = EmbeddingConfig{
		Provider:     strings.ToLower(optDefault("EMBEDDING_PROVIDER", EmbeddingProviderHTTP)),
		BaseURL:      opt("EMBEDDING_BASE_URL"),
		Model:        opt("EMBEDDING_MODEL"),
		GeminiAPIKey: opt("GEMINI_API_KEY"),
		Timeout:      optSeconds("EMBEDDING_TIMEOUT", 30*time.Second),
	}
	switch cfg.Embedding.Provider {
	case EmbeddingProviderHTTP:
		if cfg.Embedding.Model == "" {
			cfg.Embedding.Model = defaultEmbeddingModel
		}
	case EmbeddingProviderGemini:
		if cfg.Embedding.Model == "" {
			cfg.Embedding.Model = defaultGeminiModel
		}
	default:
		invalid = append(invalid, "EMBEDDING_PROVIDER")
	}

	cfg.Matching = MatchingConfig{
		Workers:        optInt("MATCH_WORKERS", 1),
		SkillThreshold: optFloat("MATCH_SKILL_THRESHOLD", 0.75),
		MinScore:       optFloat("MATCH_MIN_SCORE", 40),
	}

	cfg.FT = FranceTravailConfig{
		ClientID:     opt("FT_CLIENT_ID"),
		ClientSecret: opt("FT_CLIENT_SECRET"),
		TokenURL:     optDefault("FT_TOKEN_URL", defaultFTTokenURL),
		SearchURL:    optDefault("FT_SEARCH_URL", defaultFTSearchURL),
		Scope:        optDefault("FT_SCOPE", defaultFTScope),
	}

	cfg.WTTJ = WTTJConfig{
		BaseURL:  optDefault("WTTJ_BASE_URL", defaultWTTJBaseURL),
		MaxPages: optInt("WTTJ_MAX_PAGES", 5),
		Headless: optBool("WTTJ_HEADLESS", false),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Configured reports whether enough settings exist to open a pool.
func (c DatabaseConfig) Configured() bool {
	return c.DBHost != "" && c.DBName != ""
}

// Configured reports whether client credentials are available.
func (c FranceTravailConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
