package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"housing-explorer/render"
	"housing-explorer/services"
)

// Bounds of the budget inputs on the filter screen.
const (
	minPriceInput = 50000
	maxPriceInput = 10000000
	minBedsInput  = 1
	maxBedsInput  = 10
)

func filterFlags(cmd *cobra.Command, a *app, o *screenOptions) {
	cmd.Flags().StringVarP(&o.Locality, "city", "c", "",
		`city (LOCALITY) to search, or "all"; defaults to the first in the catalog`)
	cmd.Flags().Float64Var(&o.MaxPrice, "max-price", 0, "maximum price in dollars (default DEFAULT_MAX_PRICE)")
	cmd.Flags().IntVar(&o.MinBeds, "min-beds", 0, "minimum number of bedrooms (default DEFAULT_MIN_BEDS)")
	exportFlag(cmd, o)
}

func runTopHomes(ctx context.Context, a *app, o *screenOptions) error {
	n := o.TopN
	if n <= 0 {
		n = a.cfg.TopN
	}

	locality := a.selectLocality(o)
	a.term.Section(fmt.Sprintf("%s: top %d by price", locality, n))
	top := a.explorer.TopHomes(locality, n)
	if err := a.term.Listings(top); err != nil {
		return err
	}
	return a.export(o, top)
}

func runFilterHomes(ctx context.Context, a *app, o *screenOptions) error {
	maxPrice := o.MaxPrice
	if maxPrice == 0 {
		maxPrice = a.cfg.DefaultMaxPrice
	}
	minBeds := o.MinBeds
	if minBeds == 0 {
		minBeds = a.cfg.DefaultMinBeds
	}
	if maxPrice < minPriceInput || maxPrice > maxPriceInput {
		return fmt.Errorf("max price must be between %s and %s",
			render.Money0(minPriceInput), render.Money0(maxPriceInput))
	}
	if minBeds < minBedsInput || minBeds > maxBedsInput {
		return fmt.Errorf("min beds must be between %d and %d", minBedsInput, maxBedsInput)
	}

	locality := services.AllLocalities
	if !strings.EqualFold(o.Locality, services.AllLocalities) {
		locality = a.selectLocality(o)
	}
	a.term.Section(fmt.Sprintf("%s: up to %s, %d+ beds", locality, render.Money0(maxPrice), minBeds))
	homes := a.explorer.FilterHomes(locality, maxPrice, minBeds)
	if err := a.term.Listings(homes); err != nil {
		return err
	}
	return a.export(o, homes)
}

func runAverages(ctx context.Context, a *app, o *screenOptions) error {
	locality := a.selectLocality(o)
	a.term.Section(locality)
	meanPrice, meanArea, err := a.explorer.Averages(locality)
	if err != nil && !errors.Is(err, services.ErrNoMatchingRecords) {
		return err
	}
	a.term.Averages(locality, meanPrice, meanArea, err)
	return nil
}

func (a *app) insightOptions() services.InsightOptions {
	opts := services.DefaultInsightOptions()
	opts.PriceCap = a.cfg.ChartPriceCap
	opts.MaxBeds = a.cfg.ChartMaxBeds
	opts.Bins = a.cfg.HistogramBins
	return opts
}

func runVisualizations(ctx context.Context, a *app, o *screenOptions) error {
	report := services.NewInsightService(a.logger).Generate(a.explorer.Table(), a.insightOptions())
	a.term.Report(report)

	path := filepath.Join(a.outDir(o), "home_locations.geojson")
	if err := render.WriteGeoJSON(path, render.PointLayer(report.Points)); err != nil {
		return err
	}
	a.logger.Info("[render] Scatter map layer written to %s", path)
	return nil
}

func runFoliumMap(ctx context.Context, a *app, o *screenOptions) error {
	precision := o.Precision
	if precision == 0 {
		precision = a.cfg.GeohashPrecision
	}
	if precision < 1 || precision > render.MaxGeohashPrecision {
		return fmt.Errorf("precision must be between 1 and %d", render.MaxGeohashPrecision)
	}

	table := a.explorer.Table()
	points, err := services.MapPoints(table)
	if err != nil {
		return err
	}
	lat, lon := services.MapCenter(table)
	cells := render.DensityGrid(points, uint(precision))

	dir := a.outDir(o)
	htmlPath := filepath.Join(dir, "folium_map.html")
	page := render.NewMapPage("Folium Map of Home Locations", lat, lon, a.cfg.MapZoom, points, cells)
	if err := page.WriteFile(htmlPath); err != nil {
		return err
	}

	densityPath := filepath.Join(dir, "density.geojson")
	if err := render.WriteGeoJSON(densityPath, render.DensityLayer(cells)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "  %d homes in %d geohash cells\n", len(points), len(cells))
	fmt.Fprintf(a.out, "  Map:     %s\n  Density: %s\n", htmlPath, densityPath)

	if o.Snapshot {
		pngPath := filepath.Join(dir, "folium_map.png")
		snap := render.NewSnapshotter(a.cfg.ChromeBin, a.cfg.MaxRetries, a.logger)
		if err := snap.Capture(ctx, htmlPath, pngPath); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "  Image:   %s\n", pngPath)
	}
	fmt.Fprintln(a.out)
	return nil
}
