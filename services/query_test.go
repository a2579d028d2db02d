package services

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-explorer/models"
	"housing-explorer/utils"
)

func newTestLogger() *utils.Logger {
	return utils.NewLoggerTo(io.Discard, io.Discard, utils.LevelError)
}

var listingHeader = []string{"LOCALITY", "PRICE", "BEDS", "PROPERTYSQFT", "LATITUDE", "LONGITUDE"}

func mustTable(t *testing.T, rows [][]string) *models.Table {
	t.Helper()
	tbl, err := models.NewTable(listingHeader, rows)
	require.NoError(t, err)
	return tbl
}

func mustRows(t *testing.T, tbl *models.Table) []models.Listing {
	t.Helper()
	rows, err := tbl.Rows()
	require.NoError(t, err)
	return rows
}

// scenarioTable is the three-listing example: two in Queens, one in the Bronx.
func scenarioTable(t *testing.T) *models.Table {
	return mustTable(t, [][]string{
		{"Queens", "400000", "2", "800", "40.70", "-73.80"},
		{"Queens", "900000", "3", "1200", "40.72", "-73.82"},
		{"Bronx", "300000", "1", "600", "40.85", "-73.86"},
	})
}

// wideTable has ties, several localities and a zero-area listing.
func wideTable(t *testing.T) *models.Table {
	return mustTable(t, [][]string{
		{"Brooklyn", "750000", "2", "900", "40.65", "-73.95"},
		{"Manhattan", "2500000", "3", "1500", "40.78", "-73.97"},
		{"Brooklyn", "750000", "4", "1400", "40.66", "-73.94"},
		{"Brooklyn", "1200000", "3", "1100", "40.67", "-73.96"},
		{"Staten Island", "450000", "3", "0", "40.58", "-74.15"},
		{"Brooklyn", "300000", "1", "500", "40.64", "-73.93"},
		{"Manhattan", "12000000", "6", "4000", "40.77", "-73.96"},
		{"Brooklyn", "750000", "2", "950", "40.68", "-73.92"},
	})
}

func TestScenarioTopExpensive(t *testing.T) {
	top := TopExpensiveByLocality(scenarioTable(t), "Queens", 10)
	assert.Equal(t, 2, top.Len())
	assert.Equal(t, []float64{900000, 400000}, top.Floats(models.ColPrice))
}

func TestScenarioAverages(t *testing.T) {
	price, area, err := Averages(scenarioTable(t), "Queens")
	require.NoError(t, err)
	assert.Equal(t, 650000.0, price)
	assert.Equal(t, 1000.0, area)
}

func TestScenarioFilter(t *testing.T) {
	got := FilterListings(scenarioTable(t), "Queens", 500000, 2)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, []float64{400000}, got.Floats(models.ColPrice))
}

func TestScenarioDerive(t *testing.T) {
	rows := mustRows(t, DeriveColumns(scenarioTable(t)))
	require.Len(t, rows, 3)
	assert.Equal(t, models.PriceUnder500K, rows[0].PriceRange)
	assert.True(t, rows[0].PricePerSqftDefined)
	assert.Equal(t, 500.0, rows[0].PricePerSqft)
	assert.Equal(t, models.Price500KTo1M, rows[1].PriceRange)
	assert.Equal(t, 750.0, rows[1].PricePerSqft)
}

func TestTopExpensiveStableTies(t *testing.T) {
	top := TopExpensiveByLocality(wideTable(t), "Brooklyn", 3)
	require.Equal(t, 3, top.Len())
	assert.Equal(t, []float64{1200000, 750000, 750000}, top.Floats(models.ColPrice))
	// The two 750000 rows kept first are the earliest two in source order.
	assert.Equal(t, []float64{1100, 900, 1400}, top.Floats(models.ColPropertySqft))
}

func TestTopExpensiveEdgeCases(t *testing.T) {
	tbl := wideTable(t)
	assert.Equal(t, 0, TopExpensiveByLocality(tbl, "Atlantis", 10).Len())
	assert.Equal(t, 0, TopExpensiveByLocality(tbl, "Brooklyn", 0).Len())
	assert.Equal(t, 0, TopExpensiveByLocality(tbl, "brooklyn", 10).Len(), "match is exact")
	assert.Equal(t, 5, TopExpensiveByLocality(tbl, "Brooklyn", 10).Len())
}

func TestTopExpensiveProperties(t *testing.T) {
	tbl := wideTable(t)
	localities, _ := BuildCatalog(tbl)

	for _, loc := range localities {
		top := TopExpensiveByLocality(tbl, loc, DefaultTopN)
		assert.LessOrEqual(t, top.Len(), DefaultTopN)

		all := FilterListings(tbl, loc, math.Inf(1), 0)
		allPrices := map[float64]int{}
		for _, p := range all.Floats(models.ColPrice) {
			allPrices[p]++
		}

		prices := top.Floats(models.ColPrice)
		for i, l := range mustRows(t, top) {
			assert.Equal(t, loc, l.Locality)
			assert.Positive(t, allPrices[l.Price], "top result must come from the filtered set")
			if i > 0 {
				assert.GreaterOrEqual(t, prices[i-1], prices[i])
			}
		}
	}
}

func TestTopExpensiveDoesNotMutateInput(t *testing.T) {
	tbl := wideTable(t)
	before := tbl.Records()
	TopExpensiveByLocality(tbl, "Brooklyn", 2)
	FilterListings(tbl, "Brooklyn", 800000, 2)
	DeriveColumns(tbl)
	assert.Equal(t, before, tbl.Records())
}

func TestAveragesNoMatch(t *testing.T) {
	price, area, err := Averages(wideTable(t), "Atlantis")
	assert.ErrorIs(t, err, ErrNoMatchingRecords)
	assert.True(t, math.IsNaN(price))
	assert.True(t, math.IsNaN(area))
}

func TestAveragesMatchManualReduction(t *testing.T) {
	tbl := wideTable(t)
	localities, _ := BuildCatalog(tbl)

	for _, loc := range localities {
		rows := mustRows(t, FilterListings(tbl, loc, math.Inf(1), 0))
		var sumPrice, sumArea float64
		for _, r := range rows {
			sumPrice += r.Price
			sumArea += r.PropertySqft
		}

		price, area, err := Averages(tbl, loc)
		require.NoError(t, err)
		assert.InDelta(t, sumPrice/float64(len(rows)), price, 1e-9)
		assert.InDelta(t, sumArea/float64(len(rows)), area, 1e-9)
	}
}

func TestFilterListingsMonotonic(t *testing.T) {
	tbl := wideTable(t)
	maxPrices := []float64{math.Inf(1), 2000000, 750000, 500000, 0}
	minBeds := []int{0, 2, 3, 4, 9}

	for i, p := range maxPrices {
		for j, b := range minBeds {
			n := FilterListings(tbl, "Brooklyn", p, b).Len()
			if i+1 < len(maxPrices) {
				assert.LessOrEqual(t, FilterListings(tbl, "Brooklyn", maxPrices[i+1], b).Len(), n)
			}
			if j+1 < len(minBeds) {
				assert.LessOrEqual(t, FilterListings(tbl, "Brooklyn", p, minBeds[j+1]).Len(), n)
			}
		}
	}
}

func TestFilterListingsBoundaries(t *testing.T) {
	tbl := wideTable(t)
	assert.Equal(t, 3, FilterListings(tbl, "Brooklyn", 750000, 2).Len(), "price and beds bounds are inclusive")
	assert.Equal(t, 5, FilterListings(tbl, "Brooklyn", math.Inf(1), 0).Len())
	assert.Equal(t, 0, FilterListings(tbl, "Atlantis", math.Inf(1), 0).Len())
}

func TestDeriveColumnsIdempotent(t *testing.T) {
	once := DeriveColumns(wideTable(t))
	twice := DeriveColumns(once)

	assert.True(t, once.Equal(twice))
	assert.Equal(t, len(listingHeader)+2, len(twice.Names()), "columns are overwritten, not duplicated")
}

func TestDeriveColumnsUndefinedRatio(t *testing.T) {
	rows := mustRows(t, DeriveColumns(wideTable(t)))

	staten := rows[4]
	require.Equal(t, "Staten Island", staten.Locality)
	assert.False(t, staten.PricePerSqftDefined)
	assert.True(t, math.IsNaN(staten.PricePerSqft))

	assert.Equal(t, models.PriceRangeOther, rows[6].PriceRange, "12M is outside every bin")
	assert.Equal(t, models.Price1MTo5M, rows[1].PriceRange)
}

func TestPricePerSqft(t *testing.T) {
	assert.Equal(t, 500.0, PricePerSqft(400000, 800))
	assert.True(t, math.IsNaN(PricePerSqft(400000, 0)))
	assert.True(t, math.IsNaN(PricePerSqft(400000, math.Inf(1))))
}
