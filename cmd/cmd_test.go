package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-explorer/config"
	"housing-explorer/render"
	"housing-explorer/services"
	"housing-explorer/storage"
	"housing-explorer/utils"
)

const datasetCSV = `BROKERTITLE,PRICE,BEDS,PROPERTYSQFT,LOCALITY,LATITUDE,LONGITUDE
Brokered by A,400000,2,800,Queens,40.70,-73.80
Brokered by B,900000,3,1200,Queens,40.72,-73.82
Brokered by C,300000,1,600,Bronx,40.85,-73.86
Brokered by D,N/A,2,700,Bronx,40.84,-73.87
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(datasetCSV), 0644))
	return path
}

// run executes the CLI against the test dataset and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&out)
	base := []string{"--source", "csv", "--csv", writeDataset(t), "--log-level", "error"}
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), err
}

func TestParseScreen(t *testing.T) {
	for _, s := range Screens() {
		got, err := ParseScreen(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseScreen("Folium-Map")
	require.NoError(t, err)
	assert.Equal(t, ScreenFoliumMap, got)

	_, err = ParseScreen("settings")
	assert.Error(t, err)
	assert.Equal(t, "Screen(42)", Screen(42).String())
}

func TestEveryScreenHasHandler(t *testing.T) {
	for _, s := range Screens() {
		h, ok := screenHandlers[s]
		require.True(t, ok, s.String())
		assert.NotEmpty(t, h.Title, s.String())
		assert.NotEmpty(t, h.Needs, s.String())
		assert.NotNil(t, h.Run, s.String())
	}
}

func TestTopHomes(t *testing.T) {
	out, err := run(t, "top-homes", "--city", "Queens")
	require.NoError(t, err)
	assert.Contains(t, out, "Top 10 Most Expensive Homes by City")
	assert.Contains(t, out, "$900,000.00")
	assert.Contains(t, out, "$400,000.00")
	assert.NotContains(t, out, "$300,000.00")
	assert.Contains(t, out, "2 home(s)")
	assert.Less(t, strings.Index(out, "$900,000.00"), strings.Index(out, "$400,000.00"))
}

func TestTopHomesDefaultsToFirstLocality(t *testing.T) {
	out, err := run(t, "top-homes", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bronx: top 1 by price")
	assert.Contains(t, out, "1 home(s)")
}

func TestTopHomesExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.csv")
	_, err := run(t, "top-homes", "--city", "Queens", "--export", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "PRICE_PER_SQFT")
	assert.Contains(t, lines[1], "900000")
}

func TestFilterHomes(t *testing.T) {
	out, err := run(t, "filter-homes", "--city", "Queens", "--max-price", "500000", "--min-beds", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "$400,000.00")
	assert.NotContains(t, out, "$900,000.00")
	assert.Contains(t, out, "1 home(s)")
}

func TestFilterHomesAllLocalities(t *testing.T) {
	out, err := run(t, "filter-homes", "--city", "ALL", "--max-price", "1000000", "--min-beds", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "3 home(s)")
}

func TestFilterHomesValidation(t *testing.T) {
	_, err := run(t, "filter-homes", "--max-price", "1000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max price")

	_, err = run(t, "filter-homes", "--min-beds", "11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min beds")
}

func TestAverages(t *testing.T) {
	out, err := run(t, "averages", "--city", "Queens")
	require.NoError(t, err)
	assert.Contains(t, out, "$650,000.00")
	assert.Contains(t, out, "1,000.00 sqft")

	out, err = run(t, "averages", "--city", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, "No listings found in Atlantis")
}

func TestVisualizations(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "visualizations", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Average Home Price by City")
	assert.Contains(t, out, "3 homes centred")
	assert.FileExists(t, filepath.Join(dir, "home_locations.geojson"))
}

func TestFoliumMap(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "folium-map", "--out-dir", dir, "--precision", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "3 homes in")

	html, err := os.ReadFile(filepath.Join(dir, "folium_map.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Queens")
	assert.FileExists(t, filepath.Join(dir, "density.geojson"))
}

func TestFoliumMapPrecisionRange(t *testing.T) {
	for _, precision := range []string{"13", "-1"} {
		_, err := run(t, "folium-map", "--out-dir", t.TempDir(), "--precision", precision)
		require.Error(t, err, precision)
		assert.Contains(t, err.Error(), "precision must be between 1 and 12")
	}
}

func TestFoliumMapPrecisionFromEnv(t *testing.T) {
	t.Setenv("GEOHASH_PRECISION", "-1")
	_, err := run(t, "folium-map", "--out-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision must be between 1 and 12")
}

func TestFoliumMapSnapshotHonoursCancel(t *testing.T) {
	logger := utils.NewLoggerTo(io.Discard, io.Discard, utils.LevelError)
	table, err := services.Load(context.Background(), storage.NewCSVSource(writeDataset(t)), logger)
	require.NoError(t, err)

	var out bytes.Buffer
	cfg := config.Load()
	cfg.ChromeBin = "/nonexistent/chrome"
	cfg.MaxRetries = 3
	cfg.GeohashPrecision = 5
	a := &app{
		cfg:      cfg,
		logger:   logger,
		out:      &out,
		term:     render.NewTerminal(&out),
		explorer: services.NewExplorer(table, logger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	err = runFoliumMap(ctx, a, &screenOptions{OutDir: dir, Snapshot: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(dir, "folium_map.html"))
	assert.NoFileExists(t, filepath.Join(dir, "folium_map.png"))
}

func TestLocalities(t *testing.T) {
	out, err := run(t, "localities")
	require.NoError(t, err)
	assert.Contains(t, out, "2 localities")
	assert.Less(t, strings.Index(out, "Bronx"), strings.Index(out, "Queens"))
}

func TestScreensSkipsLoading(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(&out)
	root.SetArgs([]string{"--csv", "/nonexistent.csv", "--log-level", "error", "screens"})
	require.NoError(t, root.Execute())
	for _, s := range Screens() {
		assert.Contains(t, out.String(), s.String())
	}
	assert.Contains(t, out.String(), "topExpensiveByLocality")
}

func TestMissingDataset(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(&out)
	root.SetArgs([]string{"--source", "csv", "--csv", "/nonexistent.csv", "--log-level", "error", "averages"})
	err := root.Execute()
	assert.ErrorIs(t, err, services.ErrDataUnavailable)
}
