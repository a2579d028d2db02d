package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_SOURCE", "CSV_PATH", "TOP_N", "DEFAULT_MAX_PRICE", "GEOHASH_PRECISION"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, "./data/NY-House-Dataset.csv", cfg.CSVPath)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 500000.0, cfg.DefaultMaxPrice)
	assert.Equal(t, 5, cfg.GeohashPrecision)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("TOP_N", "5")
	t.Setenv("DEFAULT_MAX_PRICE", "750000.5")
	t.Setenv("HISTOGRAM_BINS", "not-a-number")

	cfg := Load()
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 750000.5, cfg.DefaultMaxPrice)
	assert.Equal(t, 30, cfg.HistogramBins, "unparsable values fall back")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "homes",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=homes sslmode=disable", cfg.DSN())
}
