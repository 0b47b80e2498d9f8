package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all chart settings, populated from environment variables.
type Config struct {
	DataDir   string
	CacheDir  string
	OutputDir string

	ChartMetric    string
	ChartFormat    string
	ChartCacheSize int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka publishing of chart rows, enabled when brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	// S3-compatible upload of rendered charts, enabled when an endpoint is set.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// KafkaEnabled reports whether chart rows should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// S3Enabled reports whether rendered charts should be uploaded.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	chartCacheSize, err := parsePositiveInt("CHART_CACHE_SIZE", 16)
	if err != nil {
		return nil, err
	}

	s3UseSSL, err := parseBool("S3_USE_SSL", true)
	if err != nil {
		return nil, err
	}

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "data")

	cfg := &Config{
		DataDir:         dataDir,
		CacheDir:        sharedcfg.EnvOrDefault("CACHE_DIR", dataDir),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		ChartMetric:     sharedcfg.EnvOrDefault("CHART_METRIC", "major_hurricanes"),
		ChartFormat:     strings.ToLower(sharedcfg.EnvOrDefault("CHART_FORMAT", "png")),
		ChartCacheSize:  chartCacheSize,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "hurricane-chart-source"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    sharedcfg.EnvOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    sharedcfg.EnvOrDefault("S3_BUCKET", "hurricane-charts"),
		S3UseSSL:    s3UseSSL,
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.ChartFormat != "png" && cfg.ChartFormat != "svg" {
		return nil, errors.New("CHART_FORMAT must be png or svg")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.S3Enabled() && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		return nil, errors.New("S3_ENDPOINT is set but S3_ACCESS_KEY or S3_SECRET_KEY is not")
	}

	return cfg, nil
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(s)
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return v, nil
}
