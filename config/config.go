package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Insight  InsightConfig
	Locale   LocaleConfig
}

type ServerConfig struct {
	AppEnv        string `envconfig:"APP_ENV" default:"development"`
	HTTPPort      string `envconfig:"HTTP_PORT" default:":8080"`
	GRPCPort      string `envconfig:"GRPC_PORT" default:":8082"`
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

type LoggerConfig struct {
	Level             string `envconfig:"LOGGER_LEVEL" default:"info"`
	Encoding          string `envconfig:"LOGGER_ENCODING" default:"json"`
	DisableCaller     bool   `envconfig:"LOGGER_DISABLE_CALLER" default:"false"`
	DisableStacktrace bool   `envconfig:"LOGGER_DISABLE_STACKTRACE" default:"true"`
}

type PostgresConfig struct {
	Host            string        `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port            string        `envconfig:"POSTGRES_PORT" default:"5432"`
	User            string        `envconfig:"POSTGRES_USER" default:"omnipos"`
	Password        string        `envconfig:"POSTGRES_PASSWORD" default:"omnipos"`
	DBName          string        `envconfig:"POSTGRES_DB" default:"omnipos_retail"`
	SSLMode         string        `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"300s"`
	ConnMaxIdleTime time.Duration `envconfig:"POSTGRES_CONN_MAX_IDLE_TIME" default:"60s"`
}

// Redis is optional: an empty address disables the product list cache.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"PRODUCT_CACHE_TTL" default:"5m"`
}

type KafkaConfig struct {
	Brokers      []string `envconfig:"KAFKA_BROKERS" default:""`
	LedgerTopic  string   `envconfig:"KAFKA_TOPIC_LEDGER" default:"ledger.events"`
	InboundTopic string   `envconfig:"KAFKA_TOPIC_INBOUND" default:"pos.inbound"`
	GroupID      string   `envconfig:"KAFKA_GROUP_ID" default:"retail-ledger"`
}

type ElasticsearchConfig struct {
	Addresses []string `envconfig:"ELASTICSEARCH_ADDRESSES" default:""`
	Username  string   `envconfig:"ELASTICSEARCH_USERNAME" default:""`
	Password  string   `envconfig:"ELASTICSEARCH_PASSWORD" default:""`
}

type InsightConfig struct {
	Endpoint string        `envconfig:"INSIGHT_ENDPOINT" default:""`
	APIKey   string        `envconfig:"INSIGHT_API_KEY" default:""`
	Timeout  time.Duration `envconfig:"INSIGHT_TIMEOUT" default:"60s"`
}

type LocaleConfig struct {
	CurrencyCode  string `envconfig:"CURRENCY_CODE" default:"IDR"`
	DefaultLocale string `envconfig:"DEFAULT_LOCALE" default:"en"`
}

// Load reads the process environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	sections := []interface{}{
		&cfg.Server, &cfg.Logger, &cfg.Postgres, &cfg.Redis,
		&cfg.Kafka, &cfg.Elastic, &cfg.Insight, &cfg.Locale,
	}
	// Sections are processed one by one so keys stay unprefixed.
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, err
		}
	}
	cfg.Kafka.Brokers = compact(cfg.Kafka.Brokers)
	cfg.Elastic.Addresses = compact(cfg.Elastic.Addresses)
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
