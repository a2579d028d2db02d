package services

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"housing-explorer/models"
)

// DefaultTopN is how many homes the top-expensive screen shows.
const DefaultTopN = 10

// The query functions below are pure: they never modify their input table
// and always return a new one.

// TopExpensiveByLocality returns up to n listings in locality ordered by
// price, highest first. Equal prices keep their original relative order.
func TopExpensiveByLocality(t *models.Table, locality string, n int) *models.Table {
	if n <= 0 {
		return emptyLike(t)
	}

	homes := byLocality(t, locality)
	if homes.Nrow() == 0 {
		return models.FromFrame(homes)
	}

	sorted := homes.Arrange(dataframe.RevSort(models.ColPrice))
	if sorted.Nrow() > n {
		sorted = sorted.Subset(seq(n))
	}
	return models.FromFrame(sorted)
}

// Averages returns the mean price and mean area of listings in locality.
// When nothing matches both means are NaN and the error is
// ErrNoMatchingRecords.
func Averages(t *models.Table, locality string) (meanPrice, meanArea float64, err error) {
	homes := models.FromFrame(byLocality(t, locality))
	if homes.Len() == 0 {
		return math.NaN(), math.NaN(), ErrNoMatchingRecords
	}
	return mean(homes.Floats(models.ColPrice)), mean(homes.Floats(models.ColPropertySqft)), nil
}

// FilterListings keeps listings in locality with price <= maxPrice and at
// least minBeds bedrooms. The locality must match exactly; pass
// math.Inf(1) for an unbounded price.
func FilterListings(t *models.Table, locality string, maxPrice float64, minBeds int) *models.Table {
	return models.FromFrame(withinBudget(byLocality(t, locality), maxPrice, minBeds))
}

// DeriveColumns returns a copy of t with PRICE_RANGE and PRICE_PER_SQFT set.
// Existing derived columns are replaced, so deriving twice changes nothing.
// A zero area yields NaN for the ratio.
func DeriveColumns(t *models.Table) *models.Table {
	prices := t.Floats(models.ColPrice)
	areas := t.Floats(models.ColPropertySqft)

	ranges := make([]string, len(prices))
	ratios := make([]float64, len(prices))
	for i, p := range prices {
		ranges[i] = string(models.ClassifyPrice(p))
		ratios[i] = PricePerSqft(p, areas[i])
	}

	df := t.Frame().Copy()
	df = df.Mutate(series.New(ranges, series.String, models.ColPriceRange))
	df = df.Mutate(series.New(ratios, series.Float, models.ColPricePerSqft))
	return models.FromFrame(df)
}

// PricePerSqft divides price by area. A zero or non-finite area gives NaN,
// never zero or infinity.
func PricePerSqft(price, area float64) float64 {
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return math.NaN()
	}
	return price / area
}

func byLocality(t *models.Table, locality string) dataframe.DataFrame {
	return t.Frame().Filter(dataframe.F{
		Colname:    models.ColLocality,
		Comparator: series.Eq,
		Comparando: locality,
	})
}

func withinBudget(df dataframe.DataFrame, maxPrice float64, minBeds int) dataframe.DataFrame {
	return df.
		Filter(dataframe.F{Colname: models.ColPrice, Comparator: series.LessEq, Comparando: maxPrice}).
		Filter(dataframe.F{Colname: models.ColBeds, Comparator: series.GreaterEq, Comparando: minBeds})
}

func emptyLike(t *models.Table) *models.Table {
	return models.FromFrame(t.Frame().Subset([]int{}))
}

func seq(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
