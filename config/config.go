package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data source kinds accepted by DATA_SOURCE.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string
	CSVPath    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string

	TopN            int
	DefaultMaxPrice float64
	DefaultMinBeds  int

	ChartPriceCap    float64
	ChartMaxBeds     int
	HistogramBins    int
	MapZoom          int
	GeohashPrecision int

	OutputDir  string
	ChromeBin  string
	MaxRetries int
	LogLevel   string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		CSVPath:    getEnv("CSV_PATH", "./data/NY-House-Dataset.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "explorer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "explorer"),
		PostgresDB:       getEnv("POSTGRES_DB", "housing_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "ny_house_dataset"),

		TopN:            getEnvInt("TOP_N", 10),
		DefaultMaxPrice: getEnvFloat("DEFAULT_MAX_PRICE", 500000),
		DefaultMinBeds:  getEnvInt("DEFAULT_MIN_BEDS", 3),

		ChartPriceCap:    getEnvFloat("CHART_PRICE_CAP", 10000000),
		ChartMaxBeds:     getEnvInt("CHART_MAX_BEDS", 10),
		HistogramBins:    getEnvInt("HISTOGRAM_BINS", 30),
		MapZoom:          getEnvInt("MAP_ZOOM", 7),
		GeohashPrecision: getEnvInt("GEOHASH_PRECISION", 5),

		OutputDir:  getEnv("OUTPUT_DIR", "./output"),
		ChromeBin:  getEnv("CHROME_BIN", ""),
		MaxRetries: getEnvInt("MAX_RETRIES", 3),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
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

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
