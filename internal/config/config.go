package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	REST     RESTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Cart     CartConfig
	Listing  ListingConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port string
	// SessionIdleTTL is how long an untouched session stays in memory.
	SessionIdleTTL time.Duration
}

type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// RedisConfig selects the persistence adapter. An empty URL keeps state in process memory.
type RedisConfig struct {
	URL       string
	Namespace string
}

type KafkaConfig struct {
	Brokers          []string
	GroupID          string
	RestaurantTopics []string
	OrderTopic       string
}

type SecurityConfig struct {
	JWTSecret    string
	JWTPublicKey string
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

type CartConfig struct {
	Location *time.Location
}

type ListingConfig struct {
	CacheTTL       time.Duration
	SearchCacheTTL time.Duration
}

type CheckoutConfig struct {
	DeliveryFee float64
	ServiceFee  float64
}

// Load reads the process environment. godotenv is expected to have populated it already.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: envOrDefault("PORT", "8080")},
		REST: RESTConfig{
			BaseURL: envOrDefault("REST_BASE_URL", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			URL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
			Namespace: envOrDefault("REDIS_NAMESPACE", "storefront"),
		},
		Kafka: KafkaConfig{
			Brokers:          splitList(firstNonEmptyEnv("KAFKA_BROKERS", "KAFKA_BROKER")),
			GroupID:          envOrDefault("KAFKA_GROUP_ID", "storefront-ws"),
			RestaurantTopics: splitList(envOrDefault("KAFKA_RESTAURANT_TOPICS", "restaurants.created,restaurants.updated,restaurants.deleted")),
			OrderTopic:       envOrDefault("KAFKA_ORDER_TOPIC", "orders.created"),
		},
		Security: SecurityConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTPublicKey: strings.ReplaceAll(os.Getenv("JWT_PUBLIC_KEY"), `\n`, "\n"),
		},
		Logging: LoggingConfig{
			Level:     envOrDefault("LOG_LEVEL", "info"),
			Format:    envOrDefault("LOG_FORMAT", "text"),
			Directory: envOrDefault("LOG_DIR", "./logs"),
		},
	}

	var err error
	if cfg.Server.SessionIdleTTL, err = durationEnv("SESSION_IDLE_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.REST.Timeout, err = durationEnv("REST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.REST.Retries, err = intEnv("REST_RETRIES", 1); err != nil {
		return nil, err
	}
	if cfg.Listing.CacheTTL, err = durationEnv("LISTING_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Listing.SearchCacheTTL, err = durationEnv("SEARCH_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Checkout.DeliveryFee, err = floatEnv("CHECKOUT_DELIVERY_FEE", 10000); err != nil {
		return nil, err
	}
	if cfg.Checkout.ServiceFee, err = floatEnv("CHECKOUT_SERVICE_FEE", 1000); err != nil {
		return nil, err
	}

	cfg.Cart.Location = time.Local
	if name := strings.TrimSpace(os.Getenv("CART_TIMEZONE")); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("CART_TIMEZONE: %w", err)
		}
		cfg.Cart.Location = loc
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
