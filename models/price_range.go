package models

import "math"

// PriceRange is the categorical price bucket assigned by the derived
// PRICE_RANGE column.
type PriceRange string

const (
	PriceUnder500K  PriceRange = "<$500K"
	Price500KTo1M   PriceRange = "$500K-$1M"
	Price1MTo5M     PriceRange = "$1M-$5M"
	Price5MTo10M    PriceRange = "$5M-$10M"
	PriceRangeOther PriceRange = "Unknown"
)

// priceBins are half-open [lo, hi) intervals in ascending order.
var priceBins = []struct {
	lo, hi float64
	label  PriceRange
}{
	{0, 500000, PriceUnder500K},
	{500000, 1000000, Price500KTo1M},
	{1000000, 5000000, Price1MTo5M},
	{5000000, 10000000, Price5MTo10M},
}

// PriceRanges returns every bucket label in display order, Unknown last.
func PriceRanges() []PriceRange {
	out := make([]PriceRange, 0, len(priceBins)+1)
	for _, b := range priceBins {
		out = append(out, b.label)
	}
	return append(out, PriceRangeOther)
}

// ClassifyPrice returns the bucket containing price. NaN, negative and
// values of 10M or more fall into PriceRangeOther.
func ClassifyPrice(price float64) PriceRange {
	if math.IsNaN(price) {
		return PriceRangeOther
	}
	for _, b := range priceBins {
		if price >= b.lo && price < b.hi {
			return b.label
		}
	}
	return PriceRangeOther
}
