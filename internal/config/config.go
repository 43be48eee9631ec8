package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SessionBackendRedis = "redis"
	SessionBackendMongo = "mongo"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env     string
	HTTP    HTTPConfig
	DB      DBConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Session SessionConfig
	Kafka   KafkaConfig
	Store   StoreConfig
}

type HTTPConfig struct {
	Port               string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

type DBConfig struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SQLitePath     string
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI    string
	DBName string
}

type SessionConfig struct {
	Backend      string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether order events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type StoreConfig struct {
	ShippingCost     decimal.Decimal
	ProductsPageSize int
	SeedCatalog      bool
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		Env: getEnv("APP_ENV", EnvDevelopment),
		HTTP: HTTPConfig{
			Port:               getEnv("HTTP_PORT", "8000"),
			RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
			ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
			MaxRequestBodySize: 1 << 20,
		},
		DB: DBConfig{
			Driver:         getEnv("DB_DRIVER", DriverPostgres),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getInt("DB_PORT", 5432, &errs),
			User:           getEnv("DB_USER", "watchhaven"),
			Password:       getEnv("DB_PASSWORD", "watchhaven"),
			Name:           getEnv("DB_NAME", "watchhaven"),
			SQLitePath:     getEnv("SQLITE_PATH", "watchhaven.db"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0, &errs),
		},
		Mongo: MongoConfig{
			URI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DBName: getEnv("MONGO_DB_NAME", "watchhaven"),
		},
		Session: SessionConfig{
			Backend:      getEnv("SESSION_BACKEND", SessionBackendRedis),
			TTL:          getDuration("SESSION_TTL", 14*24*time.Hour, &errs),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "sessionid"),
			CookieSecure: getBool("SESSION_COOKIE_SECURE", false, &errs),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "orders"),
		},
		Store: StoreConfig{
			ShippingCost:     getDecimal("SHIPPING_COST", decimal.Zero, &errs),
			ProductsPageSize: getInt("PRODUCTS_PAGE_SIZE", 12, &errs),
			SeedCatalog:      getBool("SEED_CATALOG", false, &errs),
		},
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "internal/repository/migrations/" + cfg.DB.Driver
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q", EnvDevelopment, EnvProduction)
	}
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required")
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	// redis is the session store or, with mongo, its cache
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	switch c.Session.Backend {
	case SessionBackendRedis:
	case SessionBackendMongo:
		if c.Mongo.URI == "" || c.Mongo.DBName == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DB_NAME are required")
		}
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	if c.Store.ShippingCost.IsNegative() {
		return fmt.Errorf("SHIPPING_COST must not be negative")
	}
	if c.Store.ProductsPageSize < 1 {
		return fmt.Errorf("PRODUCTS_PAGE_SIZE must be at least 1")
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, errs *[]error) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getDecimal(key string, defaultValue decimal.Decimal, errs *[]error) decimal.Decimal {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
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
