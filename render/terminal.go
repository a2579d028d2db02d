package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"housing-explorer/models"
)

const (
	barWidth     = 40
	scatterCols  = 60
	scatterRows  = 16
	localityCols = 28
)

// Terminal writes screens as coloured text.
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// Banner prints a screen title between double rules.
func (t *Terminal) Banner(title string) {
	sep := strings.Repeat("═", 64)
	t.printf("\n\033[1;35m%s\033[0m\n", sep)
	t.printf("\033[1;35m  %s\033[0m\n", title)
	t.printf("\033[1;35m%s\033[0m\n\n", sep)
}

// Section prints a sub-heading with a thin rule.
func (t *Terminal) Section(title string) {
	t.printf("\033[1;33m  %s\033[0m\n", title)
	t.printf("  %s\n", strings.Repeat("─", 64))
}

// Listings prints one line per row of tbl.
func (t *Terminal) Listings(tbl *models.Table) error {
	rows, err := tbl.Rows()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if len(rows) == 0 {
		t.printf("  No homes match\n\n")
		return nil
	}

	t.printf("  \033[1m%-3s %-*s %15s %5s %9s %-10s %10s\033[0m\n",
		"#", localityCols, "Locality", "Price", "Beds", "Sqft", "Range", "$/sqft")
	for i, l := range rows {
		t.printf("  %-3d %-*s %15s %5d %9s %-10s %10s\n",
			i+1, localityCols, truncate(l.Locality, localityCols),
			Money(l.Price), l.Beds, Thousands(l.PropertySqft, 0),
			string(l.PriceRange), ratio(l))
	}
	t.printf("\n  %d home(s)\n\n", len(rows))
	return nil
}

// Averages prints the mean price and size of one locality.
func (t *Terminal) Averages(locality string, meanPrice, meanArea float64, err error) {
	if err != nil {
		t.printf("  No listings found in %s\n\n", locality)
		return
	}
	t.printf("  Average Price: \033[1;32m%s\033[0m\n", Money(meanPrice))
	t.printf("  Average Size: \033[1;32m%s sqft\033[0m\n\n", Thousands(meanArea, 2))
}

// Localities prints the catalog with ordinals.
func (t *Terminal) Localities(names []string, ordinal func(string) (int, bool)) {
	for _, name := range names {
		i, _ := ordinal(name)
		t.printf("  %4d  %s\n", i, name)
	}
	t.printf("\n  %d localities\n\n", len(names))
}

// Report prints the overview and every chart of the visualizations screen.
func (t *Terminal) Report(r *models.InsightReport) {
	t.Section("Overview")
	t.printf("  Total listings         : \033[1m%d\033[0m\n", r.TotalListings)
	t.printf("  Charted (outliers cut) : \033[1m%d\033[0m\n", r.ChartListings)
	if r.TotalListings > 0 {
		t.printf("  Average price : \033[1;32m%s\033[0m\n", Money(r.AveragePrice))
		t.printf("  Minimum price : \033[1;32m%s\033[0m\n", Money(r.MinPrice))
		t.printf("  Maximum price : \033[1;32m%s\033[0m\n", Money(r.MaxPrice))
	}
	if r.MostExpensive != nil {
		t.printf("  Most expensive: %s, %s\n", r.MostExpensive.Locality, Money(r.MostExpensive.Price))
	}
	t.printf("\n")

	t.Section("Average Home Price by City")
	t.BarChart(r.AverageByLocality)

	t.Section("How Home Prices Are Spread Out")
	t.Histogram(r.PriceHistogram)

	t.Section("Price Compared to Bedrooms")
	t.Boxplot(r.BedroomBoxplot)

	t.Section("Square Footage vs Price")
	t.Scatter(r.SqftScatter)

	t.Section("Map of Home Locations")
	if math.IsNaN(r.CenterLatitude) || r.TotalListings == 0 {
		t.printf("  No coordinates\n\n")
	} else {
		t.printf("  %d homes centred on (%.5f, %.5f)\n\n", len(r.Points), r.CenterLatitude, r.CenterLongitude)
	}
}

// BarChart draws horizontal bars scaled to the largest mean.
func (t *Terminal) BarChart(avgs []models.LocalityAverage) {
	if len(avgs) == 0 {
		t.printf("  No data\n\n")
		return
	}
	var peak float64
	for _, a := range avgs {
		peak = math.Max(peak, a.MeanPrice)
	}
	for _, a := range avgs {
		t.printf("  %-*s %s %s\n", localityCols, truncate(a.Locality, localityCols),
			bar(a.MeanPrice, peak), Money(a.MeanPrice))
	}
	t.printf("\n")
}

// Histogram draws one bar per bin.
func (t *Terminal) Histogram(h *models.Histogram) {
	if h == nil || len(h.Counts) == 0 {
		t.printf("  No data\n\n")
		return
	}
	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}
	for i, c := range h.Counts {
		t.printf("  %14s – %-14s %s %d\n", Money0(h.Edges[i]), Money0(h.Edges[i+1]),
			bar(float64(c), float64(peak)), c)
	}
	t.printf("\n")
}

// Boxplot prints the five-number summary per bedroom count.
func (t *Terminal) Boxplot(boxes []models.BoxStats) {
	if len(boxes) == 0 {
		t.printf("  No data\n\n")
		return
	}
	t.printf("  \033[1m%4s %6s %13s %13s %13s %13s %13s %8s\033[0m\n",
		"Beds", "Homes", "Whisker lo", "Q1", "Median", "Q3", "Whisker hi", "Outliers")
	for _, b := range boxes {
		t.printf("  %4d %6d %13s %13s %13s %13s %13s %8d\n",
			b.Beds, b.Count, Money0(b.LowerWhisker), Money0(b.Q1), Money0(b.Median),
			Money0(b.Q3), Money0(b.UpperWhisker), b.Outliers)
	}
	t.printf("\n")
}

// Scatter plots points on a character grid, darker glyphs for denser cells.
func (t *Terminal) Scatter(points []models.ScatterPoint) {
	if len(points) == 0 {
		t.printf("  No data\n\n")
		return
	}

	minX, maxX := points[0].Sqft, points[0].Sqft
	minY, maxY := points[0].Price, points[0].Price
	for _, p := range points {
		minX, maxX = math.Min(minX, p.Sqft), math.Max(maxX, p.Sqft)
		minY, maxY = math.Min(minY, p.Price), math.Max(maxY, p.Price)
	}

	var grid [scatterRows][scatterCols]int
	for _, p := range points {
		c := scale(p.Sqft, minX, maxX, scatterCols)
		r := scatterRows - 1 - scale(p.Price, minY, maxY, scatterRows)
		grid[r][c]++
	}

	glyphs := []rune(" ·•●")
	for r := 0; r < scatterRows; r++ {
		label := ""
		switch r {
		case 0:
			label = Money0(maxY)
		case scatterRows - 1:
			label = Money0(minY)
		}
		var line strings.Builder
		for c := 0; c < scatterCols; c++ {
			n := grid[r][c]
			if n >= len(glyphs) {
				n = len(glyphs) - 1
			}
			line.WriteRune(glyphs[n])
		}
		t.printf("  %14s │%s\n", label, line.String())
	}
	t.printf("  %14s └%s\n", "", strings.Repeat("─", scatterCols))
	t.printf("  %14s  %-*s%s sqft\n\n", "", scatterCols-10, Thousands(minX, 0), Thousands(maxX, 0))
}

// scale maps v in [lo, hi] onto 0..n-1.
func scale(v, lo, hi float64, n int) int {
	if hi <= lo {
		return 0
	}
	i := int((v - lo) / (hi - lo) * float64(n-1))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func bar(v, peak float64) string {
	if peak <= 0 {
		return ""
	}
	n := int(math.Round(v / peak * barWidth))
	return "\033[36m" + strings.Repeat("█", n) + "\033[0m" + strings.Repeat(" ", barWidth-n)
}

func ratio(l models.Listing) string {
	if !l.PricePerSqftDefined {
		return "n/a"
	}
	return Thousands(l.PricePerSqft, 2)
}

// Money formats v as $1,234.56.
func Money(v float64) string {
	return "$" + Thousands(v, 2)
}

// Money0 formats v as $1,235.
func Money0(v float64) string {
	return "$" + Thousands(v, 0)
}

// Thousands formats v with comma grouping and the given decimals.
func Thousands(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
