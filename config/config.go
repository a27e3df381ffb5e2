package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL    string
	ViewSuffix string
	UserAgent  string
	RenderJS   bool
	ChromeBin  string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	HTTPTimeoutSec int

	CountryCodesPath string
	DataDir          string
	FunnelPrefix     string
	RatesPrefix      string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DashboardPath string
	OpenDashboard bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:    getEnv("EXPA_BASE_URL", "https://core.aiesec.org.eg/analytics/"),
		ViewSuffix: getEnv("EXPA_VIEW_SUFFIX", "LC25/"),
		UserAgent:  getEnv("EXPA_USER_AGENT", "AIESECFunnelScraper/1.0"),
		RenderJS:   getEnvBool("EXPA_RENDER_JS", false),
		ChromeBin:  getEnv("CHROME_BIN", ""),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SECONDS", 20),

		CountryCodesPath: getEnv("COUNTRY_CODES_PATH", "./data/codigos.csv"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		FunnelPrefix:     getEnv("FUNNEL_PREFIX", "lc_funnel"),
		RatesPrefix:      getEnv("RATES_PREFIX", "lc_conversion_rates"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "aiesec_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		DashboardPath: getEnv("DASHBOARD_PATH", "./dashboard/dashboard_principal.pbix"),
		OpenDashboard: getEnvBool("OPEN_DASHBOARD", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
