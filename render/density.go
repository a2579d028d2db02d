package render

import (
	"sort"

	"github.com/mmcloughlin/geohash"

	"housing-explorer/models"
)

// DensityCell aggregates the homes falling inside one geohash cell.
type DensityCell struct {
	Geohash   string
	Count     int
	MeanPrice float64
	Box       geohash.Box
}

// MaxGeohashPrecision is the longest geohash the encoder produces.
const MaxGeohashPrecision = 12

// DensityGrid buckets points by geohash prefix of the given length, clamped
// to 1..MaxGeohashPrecision. Cells are ordered by count, busiest first, then
// by hash.
func DensityGrid(points []models.MapPoint, precision uint) []DensityCell {
	if precision == 0 {
		precision = 1
	}
	if precision > MaxGeohashPrecision {
		precision = MaxGeohashPrecision
	}

	cells := make(map[string]*DensityCell)
	sums := make(map[string]float64)
	for _, p := range points {
		hash := geohash.EncodeWithPrecision(p.Latitude, p.Longitude, precision)
		c, ok := cells[hash]
		if !ok {
			c = &DensityCell{Geohash: hash, Box: geohash.BoundingBox(hash)}
			cells[hash] = c
		}
		c.Count++
		sums[hash] += p.Price
	}

	out := make([]DensityCell, 0, len(cells))
	for hash, c := range cells {
		c.MeanPrice = sums[hash] / float64(c.Count)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Geohash < out[j].Geohash
	})
	return out
}

// DensityLayer renders cells as GeoJSON polygons.
func DensityLayer(cells []DensityCell) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(cells))}
	for _, c := range cells {
		b := c.Box
		ring := [][]float64{
			{b.MinLng, b.MinLat},
			{b.MaxLng, b.MinLat},
			{b.MaxLng, b.MaxLat},
			{b.MinLng, b.MaxLat},
			{b.MinLng, b.MinLat},
		}
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "Polygon", Coordinates: [][][]float64{ring}},
			Properties: map[string]any{
				"geohash":    c.Geohash,
				"count":      c.Count,
				"mean_price": c.MeanPrice,
			},
		})
	}
	return fc
}
