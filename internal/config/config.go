package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Model    ModelConfig
	Dataset  DatasetConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type ModelConfig struct {
	// Dir holds one subdirectory per model version, named by date (2006-01-02).
	Dir       string
	Name      string
	CacheSize int
	Watch     bool
}

type DatasetConfig struct {
	RawDir      string
	CatalogPath string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "carvalue")
	v.SetDefault("DB_PASSWORD", "carvalue")
	v.SetDefault("DB_NAME", "carvalue")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("MODEL_DIR", "models")
	v.SetDefault("MODEL_NAME", "price_model.json")
	v.SetDefault("MODEL_CACHE_SIZE", 512)
	v.SetDefault("MODEL_WATCH", false)
	v.SetDefault("DATASET_RAW_DIR", "data/raw")
	v.SetDefault("DATASET_CATALOG_PATH", "config/catalog.yaml")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	lifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		Model: ModelConfig{
			Dir:       v.GetString("MODEL_DIR"),
			Name:      v.GetString("MODEL_NAME"),
			CacheSize: v.GetInt("MODEL_CACHE_SIZE"),
			Watch:     v.GetBool("MODEL_WATCH"),
		},
		Dataset: DatasetConfig{
			RawDir:      v.GetString("DATASET_RAW_DIR"),
			CatalogPath: v.GetString("DATASET_CATALOG_PATH"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
