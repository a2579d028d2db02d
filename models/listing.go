package models

// RawTable holds source rows exactly as read, before any cleaning.
// Header and row cells are untrimmed strings.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// Listing is the typed view of one cleaned table row.
type Listing struct {
	Locality     string
	Price        float64
	Beds         int
	PropertySqft float64
	Latitude     float64
	Longitude    float64

	// Derived columns; zero values until the table has been derived.
	PriceRange          PriceRange
	PricePerSqft        float64
	PricePerSqftDefined bool
}

// LocalityAverage is the mean price of one locality, used by the bar chart.
type LocalityAverage struct {
	Locality  string
	MeanPrice float64
	Count     int
}

// Histogram holds equal-width bins over a numeric column.
// Edges has len(Counts)+1 entries; the last bin includes its upper edge.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// BoxStats is the five-number summary of prices for one bedroom count.
type BoxStats struct {
	Beds         int
	Count        int
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     int
}

// ScatterPoint pairs property area with price.
type ScatterPoint struct {
	Sqft  float64
	Price float64
}

// MapPoint is one home placed on a map layer.
type MapPoint struct {
	Latitude  float64
	Longitude float64
	Locality  string
	Price     float64
}

// InsightReport holds the chart data computed over the cleaned dataset.
type InsightReport struct {
	TotalListings int
	ChartListings int
	AveragePrice  float64
	MinPrice      float64
	MaxPrice      float64
	MostExpensive *Listing

	AverageByLocality []LocalityAverage
	PriceHistogram    *Histogram
	BedroomBoxplot    []BoxStats
	SqftScatter       []ScatterPoint
	CenterLatitude    float64
	CenterLongitude   float64
	Points            []MapPoint
}
