package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	GinMode        string `envconfig:"GIN_MODE" default:"debug"`
	EndpointPrefix string `envconfig:"ENDPOINT_PREFIX" default:"/storefront"`

	DBHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	DBPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	DBUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	DBPassword string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"POSTGRES_DB" default:"storefront"`
	DBSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaEnabled bool   `envconfig:"KAFKA_ENABLED" default:"false"`

	ConsulAddress string `envconfig:"CONSUL_HTTP_ADDR" default:""`
	ServiceName   string `envconfig:"SERVICE_NAME" default:"storefront"`
	ServiceHost   string `envconfig:"SERVICE_HOST" default:"localhost"`

	StripeKey           string `envconfig:"STRIPE_TEST_KEY" default:""`
	CheckoutSuccessURL  string `envconfig:"CHECKOUT_SUCCESS_URL" default:"https://example.com/success"`
	CheckoutCancelURL   string `envconfig:"CHECKOUT_CANCEL_URL" default:"https://example.com/cancel"`
	DiscountCodes       string `envconfig:"DISCOUNT_CODES" default:"WELCOME10:10"`
	LowStockThreshold   int    `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
	PrivateKeyPath      string `envconfig:"JWT_PRIVATE_KEY_PATH" default:"private.pem"`
	PublicKeyPath       string `envconfig:"JWT_PUBLIC_KEY_PATH" default:"pubkey.pem"`
	MigrateOnStart      bool   `envconfig:"MIGRATE_ON_START" default:"true"`
	ShutdownGracePeriod int    `envconfig:"SHUTDOWN_GRACE_SECONDS" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
