package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	InputPath  string
	OutputPath string
	LogPath    string
	LogLevel   string

	BaseSiteURL    string
	PriceThreshold float64

	MaxRetries       int
	RetryDelay       time.Duration
	RequestTimeout   time.Duration
	ConcurrencyLimit int

	PageDelayMin     time.Duration
	PageDelayMax     time.Duration
	LocationDelayMin time.Duration
	LocationDelayMax time.Duration

	RunsDBPath    string
	DatabaseURL   string
	DedupStrategy string

	Cron string

	SelectorsPath string
	Selectors     *Selectors
}

// Dedup strategies for the dataset store.
const (
	DedupNone         = "none"
	DedupAddressPrice = "address-price"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		InputPath:  getEnv("INPUT_PATH", "input.txt"),
		OutputPath: getEnv("OUTPUT_PATH", "output.json"),
		LogPath:    getEnv("LOG_PATH", "scraper.log"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		BaseSiteURL:    getEnv("BASE_SITE_URL", "https://www.homes.com"),
		PriceThreshold: getEnvFloat("PRICE_THRESHOLD", 1500000),

		MaxRetries:       getEnvInt("MAX_RETRIES", 1),
		RetryDelay:       getEnvDuration("RETRY_DELAY", 2*time.Second),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		ConcurrencyLimit: getEnvInt("CONCURRENCY_LIMIT", 10),

		PageDelayMin:     getEnvDuration("PAGE_DELAY_MIN", 500*time.Millisecond),
		PageDelayMax:     getEnvDuration("PAGE_DELAY_MAX", 1500*time.Millisecond),
		LocationDelayMin: getEnvDuration("LOCATION_DELAY_MIN", 1*time.Second),
		LocationDelayMax: getEnvDuration("LOCATION_DELAY_MAX", 2*time.Second),

		RunsDBPath:    getEnv("RUNS_DB_PATH", "scraper.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DedupStrategy: getEnv("DEDUP_STRATEGY", DedupNone),

		Cron: os.Getenv("SCRAPE_CRON"),

		SelectorsPath: getEnv("SELECTORS_PATH", "config/selectors.yaml"),
	}

	sel, err := LoadSelectors(cfg.SelectorsPath)
	if err != nil {
		return nil, err
	}
	cfg.Selectors = sel

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
