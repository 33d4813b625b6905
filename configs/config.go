package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// devCartCookieSecret is only accepted outside production.
const devCartCookieSecret = "dev-cart-cookie-secret-32-chars!"

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Cart      CartConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	// AllowedOrigins enables CORS with credentials when non-empty.
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
	// ConnectAttempts bounds the startup ping loop.
	ConnectAttempts int
	Tracing         bool
}

type CartConfig struct {
	TTL              time.Duration
	CookieSecret     string
	KeyPrefix        string
	BreakerThreshold int
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type RateLimitConfig struct {
	DefaultRequestsPerMinute int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

type TracingConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

func (t TracingConfig) Enabled() bool { return t.OTLPEndpoint != "" }

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	env := getEnv("APP_ENV", EnvDev)
	ttlSeconds, err := getStrictIntEnv("CART_TTL", 30*24*60*60)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			Environment:    env,
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnv("REDIS_PORT", "6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getIntEnv("REDIS_DB", 0),
			PoolSize:        getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			MaxRetries:      getIntEnv("REDIS_MAX_RETRIES", 1),
			DialTimeout:     getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:     getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			ConnectAttempts: getIntEnv("REDIS_CONNECT_ATTEMPTS", 5),
		},
		Cart: CartConfig{
			TTL:              time.Duration(ttlSeconds) * time.Second,
			CookieSecret:     getEnv("CART_COOKIE_SECRET", ""),
			KeyPrefix:        getEnv("CART_KEY_PREFIX", ""),
			BreakerThreshold: getIntEnv("CART_BREAKER_THRESHOLD", 3),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			DefaultRequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 120),
			BurstMultiplier:          getFloatEnv("RATE_LIMIT_BURST", 2.0),
			Window:                   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:                getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:cart"),
		},
		Tracing: TracingConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "cartsvc"),
		},
	}

	if cfg.Cart.CookieSecret == "" && env != EnvProd {
		cfg.Cart.CookieSecret = devCartCookieSecret
	}
	cfg.Redis.Tracing = cfg.Tracing.Enabled()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server, validation.By(func(value interface{}) error {
			sc, ok := value.(ServerConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a ServerConfig")
			}
			return validation.ValidateStruct(&sc,
				validation.Field(&sc.Environment, validation.Required, validation.In(EnvDev, EnvStaging, EnvProd)),
				validation.Field(&sc.Port, validation.Required, validation.By(validatePort)),
			)
		})),
		validation.Field(&c.Redis, validation.By(func(value interface{}) error {
			rc, ok := value.(RedisConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a RedisConfig")
			}
			return validation.ValidateStruct(&rc,
				validation.Field(&rc.Host, validation.Required),
				validation.Field(&rc.Port, validation.Required, validation.By(validatePort)),
				validation.Field(&rc.DB, validation.Min(0)),
			)
		})),
		validation.Field(&c.Cart, validation.By(func(value interface{}) error {
			cc, ok := value.(CartConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a CartConfig")
			}
			return validation.ValidateStruct(&cc,
				validation.Field(&cc.TTL, validation.Required, validation.Min(time.Second)),
				validation.Field(&cc.CookieSecret, validation.Required, validation.Length(16, 0)),
				validation.Field(&cc.BreakerThreshold, validation.Required, validation.Min(1)),
			)
		})),
		validation.Field(&c.Log, validation.By(func(value interface{}) error {
			lc, ok := value.(LogConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a LogConfig")
			}
			return validation.ValidateStruct(&lc,
				validation.Field(&lc.Level, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
				validation.Field(&lc.Format, validation.Required, validation.In("json", "text")),
			)
		})),
	)
}

func validatePort(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return validation.NewError("validation_invalid_port", "must be a port number")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getStrictIntEnv is getIntEnv for values where a typo must not silently
// turn into the default.
func getStrictIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: expected number, got %q", key, value)
	}
	return n, nil
}

// getListEnv splits a comma separated value, dropping empty items.
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
