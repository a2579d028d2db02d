package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"housing-explorer/models"
)

// FeatureCollection is a GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds either a Point ([lon, lat]) or a Polygon (rings of [lon, lat]).
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// PointLayer turns every home into a GeoJSON point, the scatter map layer.
func PointLayer(points []models.MapPoint) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{p.Longitude, p.Latitude},
			},
			Properties: map[string]any{
				"locality": p.Locality,
				"price":    p.Price,
			},
		})
	}
	return fc
}

// WriteGeoJSON writes fc to path, creating parent directories.
func WriteGeoJSON(path string, fc FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("geojson: create output dir: %w", err)
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("geojson: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("geojson: write %q: %w", path, err)
	}
	return nil
}
