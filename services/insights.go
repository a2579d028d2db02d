package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"housing-explorer/models"
	"housing-explorer/utils"
)

// maxScatterPoints caps the points sent to the square-footage scatter.
const maxScatterPoints = 2000

// InsightOptions bounds the outlier filter used by the charts.
type InsightOptions struct {
	PriceCap float64 // charts keep price < PriceCap
	MaxBeds  int     // boxplot keeps beds < MaxBeds
	Bins     int
}

// DefaultInsightOptions mirrors the chart filters of the visualizations screen.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{PriceCap: 10000000, MaxBeds: 10, Bins: 30}
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes every chart of the visualizations screen.
func (s *InsightService) Generate(t *models.Table, opts InsightOptions) *models.InsightReport {
	report := &models.InsightReport{TotalListings: t.Len()}
	if t.Len() == 0 {
		return report
	}

	rows, err := t.Rows()
	if err != nil {
		s.logger.Error("[insights] Cannot read listings: %v", err)
		return report
	}
	prices := t.Floats(models.ColPrice)
	report.AveragePrice = round2(stat.Mean(prices, nil))
	report.MinPrice = floats.Min(prices)
	report.MaxPrice = floats.Max(prices)
	for i := range rows {
		if rows[i].Price == report.MaxPrice {
			report.MostExpensive = &rows[i]
			break
		}
	}

	capped := underPriceCap(t, opts.PriceCap)
	report.ChartListings = capped.Len()
	if report.AverageByLocality, err = AveragePriceByLocality(capped); err != nil {
		s.logger.Warn("[insights] Skipping average price by city: %v", err)
	}
	report.PriceHistogram = PriceHistogram(capped.Floats(models.ColPrice), opts.Bins)
	if report.BedroomBoxplot, err = BedroomBoxplot(capped, opts.MaxBeds); err != nil {
		s.logger.Warn("[insights] Skipping bedroom boxplot: %v", err)
	}
	report.SqftScatter = SqftScatter(capped)

	report.CenterLatitude, report.CenterLongitude = MapCenter(t)
	report.Points = pointsOf(rows)

	s.logger.Debug("[insights] %d listings, %d under the chart cap, %d localities charted",
		report.TotalListings, report.ChartListings, len(report.AverageByLocality))
	return report
}

// AveragePriceByLocality groups t by locality and returns the mean price of
// each, cheapest first.
func AveragePriceByLocality(t *models.Table) ([]models.LocalityAverage, error) {
	if t.Len() == 0 {
		return nil, nil
	}

	agg := t.Frame().
		GroupBy(models.ColLocality).
		Aggregation(
			[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_COUNT},
			[]string{models.ColPrice, models.ColPrice},
		)
	if agg.Err != nil {
		return nil, fmt.Errorf("insights: group by %s: %w", models.ColLocality, agg.Err)
	}

	grouped := models.FromFrame(agg)
	localities := grouped.Strings(models.ColLocality)
	var means, counts []float64
	for _, name := range grouped.Names() {
		switch {
		case strings.HasSuffix(name, "_MEAN"):
			means = grouped.Floats(name)
		case strings.HasSuffix(name, "_COUNT"):
			counts = grouped.Floats(name)
		}
	}

	out := make([]models.LocalityAverage, len(localities))
	for i, loc := range localities {
		out[i] = models.LocalityAverage{Locality: loc, MeanPrice: means[i]}
		if counts != nil {
			out[i].Count = int(counts[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanPrice != out[j].MeanPrice {
			return out[i].MeanPrice < out[j].MeanPrice
		}
		return out[i].Locality < out[j].Locality
	})
	return out, nil
}

// PriceHistogram splits values into equal-width bins between their min and
// max. The last bin includes the max. A single distinct value is centred in
// a bin range of width one.
func PriceHistogram(values []float64, bins int) *models.Histogram {
	if len(values) == 0 || bins <= 0 {
		return &models.Histogram{}
	}

	x := append([]float64(nil), values...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	raw := stat.Histogram(nil, dividers, x, nil)
	counts := make([]int, bins)
	for i, c := range raw {
		counts[i] = int(c)
	}
	return &models.Histogram{Edges: edges, Counts: counts}
}

// BedroomBoxplot summarises prices per bedroom count for homes with fewer
// than maxBeds bedrooms, ordered by bedroom count.
func BedroomBoxplot(t *models.Table, maxBeds int) ([]models.BoxStats, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, fmt.Errorf("insights: boxplot: %w", err)
	}

	byBeds := make(map[int][]float64)
	for _, l := range rows {
		if l.Beds < maxBeds {
			byBeds[l.Beds] = append(byBeds[l.Beds], l.Price)
		}
	}

	out := make([]models.BoxStats, 0, len(byBeds))
	for beds, prices := range byBeds {
		out = append(out, boxStats(beds, prices))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Beds < out[j].Beds })
	return out, nil
}

func boxStats(beds int, prices []float64) models.BoxStats {
	x := append([]float64(nil), prices...)
	sort.Float64s(x)

	b := models.BoxStats{
		Beds:   beds,
		Count:  len(x),
		Min:    x[0],
		Max:    x[len(x)-1],
		Q1:     stat.Quantile(0.25, stat.LinInterp, x, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, x, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, x, nil),
	}

	iqr := b.Q3 - b.Q1
	lowFence, highFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range x {
		if v < lowFence || v > highFence {
			b.Outliers++
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	return b
}

// SqftScatter returns (area, price) pairs, evenly thinned to at most
// maxScatterPoints.
func SqftScatter(t *models.Table) []models.ScatterPoint {
	sqft := t.Floats(models.ColPropertySqft)
	prices := t.Floats(models.ColPrice)

	stride := 1
	if len(sqft) > maxScatterPoints {
		stride = int(math.Ceil(float64(len(sqft)) / maxScatterPoints))
	}

	out := make([]models.ScatterPoint, 0, len(sqft)/stride+1)
	for i := 0; i < len(sqft); i += stride {
		out = append(out, models.ScatterPoint{Sqft: sqft[i], Price: prices[i]})
	}
	return out
}

// MapCenter is the mean coordinate of every listing.
func MapCenter(t *models.Table) (lat, lon float64) {
	if t.Len() == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.Mean(t.Floats(models.ColLatitude), nil), stat.Mean(t.Floats(models.ColLongitude), nil)
}

// MapPoints places every listing on the map.
func MapPoints(t *models.Table) ([]models.MapPoint, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, fmt.Errorf("insights: map points: %w", err)
	}
	return pointsOf(rows), nil
}

func pointsOf(rows []models.Listing) []models.MapPoint {
	out := make([]models.MapPoint, len(rows))
	for i, l := range rows {
		out[i] = models.MapPoint{
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Locality:  l.Locality,
			Price:     l.Price,
		}
	}
	return out
}

func underPriceCap(t *models.Table, priceCap float64) *models.Table {
	if t.Len() == 0 {
		return t
	}
	return models.FromFrame(t.Frame().Filter(dataframe.F{
		Colname:    models.ColPrice,
		Comparator: series.Less,
		Comparando: priceCap,
	}))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
