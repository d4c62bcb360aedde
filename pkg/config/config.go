package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the connection string for the configured driver
func (c *DBConfig) GetDSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	ServiceName string
}

// StoreConfig holds shop defaults
type StoreConfig struct {
	GlobalLowStockThreshold int
	SeedData                bool
}

// RabbitMQConfig holds the sale event publisher configuration.
// An empty URL disables publishing to the broker.
type RabbitMQConfig struct {
	URL      string
	Queue    string
	PoolSize int
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Store       StoreConfig
	RabbitMQ    RabbitMQConfig
}

// Load loads configuration from the .env file (if any) and environment variables
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", serviceName),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", serviceName+".db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			ServiceName: getEnv("METRICS_SERVICE_NAME", serviceName),
		},
		Store: StoreConfig{
			GlobalLowStockThreshold: getEnvAsInt("GLOBAL_LOW_STOCK_THRESHOLD", 10),
			SeedData:                getEnvAsBool("SEED_DATA", false),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Queue:    getEnv("RABBITMQ_QUEUE", "sale_events"),
			PoolSize: getEnvAsInt("RABBITMQ_CHANNEL_POOL_SIZE", 4),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", c.DB.Driver)
	}
	if c.Store.GlobalLowStockThreshold < 0 {
		return fmt.Errorf("GLOBAL_LOW_STOCK_THRESHOLD must not be negative, got %d", c.Store.GlobalLowStockThreshold)
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.PoolSize < 1 {
		return fmt.Errorf("RABBITMQ_CHANNEL_POOL_SIZE must be at least 1, got %d", c.RabbitMQ.PoolSize)
	}
	return nil
}

// LogConfig returns the configuration as zap fields. Secrets are left out.
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.Bool("rabbitmq_enabled", c.RabbitMQ.URL != ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
