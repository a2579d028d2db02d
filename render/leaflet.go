package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"housing-explorer/models"
)

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var homes = {{.Markers}};
homes.forEach(function (h) {
  L.circleMarker([h.lat, h.lon], {radius: 3, color: 'blue', fill: true, fillColor: 'blue'})
    .bindPopup(h.popup)
    .addTo(map);
});
var cells = {{.Cells}};
cells.forEach(function (c) {
  L.rectangle(c.bounds, {color: '#c81e00', weight: 1, fillOpacity: 0.15})
    .bindTooltip(c.count + ' homes')
    .addTo(map);
});
</script>
</body>
</html>
`))

type mapMarker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

type mapCell struct {
	Bounds [2][2]float64 `json:"bounds"`
	Count  int           `json:"count"`
}

// MapPage is the data behind the circle-marker HTML map.
type MapPage struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Markers   []mapMarker
	Cells     []mapCell
}

// NewMapPage builds a page with one circle marker per home, labelled with
// its locality, and an optional density overlay.
func NewMapPage(title string, centerLat, centerLon float64, zoom int, points []models.MapPoint, cells []DensityCell) *MapPage {
	page := &MapPage{
		Title:     title,
		CenterLat: centerLat,
		CenterLon: centerLon,
		Zoom:      zoom,
		Markers:   make([]mapMarker, len(points)),
		Cells:     make([]mapCell, len(cells)),
	}
	for i, p := range points {
		page.Markers[i] = mapMarker{Lat: p.Latitude, Lon: p.Longitude, Popup: p.Locality}
	}
	for i, c := range cells {
		page.Cells[i] = mapCell{
			Bounds: [2][2]float64{{c.Box.MinLat, c.Box.MinLng}, {c.Box.MaxLat, c.Box.MaxLng}},
			Count:  c.Count,
		}
	}
	return page
}

// Render writes the HTML document.
func (p *MapPage) Render(w io.Writer) error {
	if err := mapTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("map: render template: %w", err)
	}
	return nil
}

// WriteFile renders the page to path, creating parent directories.
func (p *MapPage) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("map: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("map: create %q: %w", path, err)
	}
	if err := p.Render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
