package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"housing-explorer/models"
	"housing-explorer/storage"
)

// annotationNoData marks commands that run without loading the dataset.
const annotationNoData = "no-data"

// Screen identifies one view of the explorer.
type Screen int

const (
	ScreenTopHomes Screen = iota
	ScreenFilterHomes
	ScreenAverages
	ScreenVisualizations
	ScreenFoliumMap
)

var screenNames = [...]string{
	ScreenTopHomes:       "top-homes",
	ScreenFilterHomes:    "filter-homes",
	ScreenAverages:       "averages",
	ScreenVisualizations: "visualizations",
	ScreenFoliumMap:      "folium-map",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return screenNames[s]
}

// Screens returns every screen in menu order.
func Screens() []Screen {
	out := make([]Screen, len(screenNames))
	for i := range screenNames {
		out[i] = Screen(i)
	}
	return out
}

// ParseScreen resolves a screen by name.
func ParseScreen(name string) (Screen, error) {
	for i, n := range screenNames {
		if strings.EqualFold(n, name) {
			return Screen(i), nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// Query names a query-layer operation a screen depends on.
type Query string

const (
	QueryTopExpensive Query = "topExpensiveByLocality"
	QueryAverages     Query = "averages"
	QueryFilter       Query = "filterListings"
	QueryDerive       Query = "deriveColumns"
	QueryCatalog      Query = "buildCatalog"
)

// screenOptions carries every input a screen can take.
type screenOptions struct {
	Locality  string
	TopN      int
	MaxPrice  float64
	MinBeds   int
	Export    string
	OutDir    string
	Snapshot  bool
	Precision int
}

// screenHandler declares what a screen needs and how it renders.
type screenHandler struct {
	Title string
	Short string
	Needs []Query
	Flags func(cmd *cobra.Command, a *app, o *screenOptions)
	Run   func(ctx context.Context, a *app, o *screenOptions) error
}

var screenHandlers = map[Screen]screenHandler{
	ScreenTopHomes: {
		Title: "Top 10 Most Expensive Homes by City",
		Short: "Show the most expensive homes in a city",
		Needs: []Query{QueryCatalog, QueryTopExpensive},
		Flags: topFlags,
		Run:   runTopHomes,
	},
	ScreenFilterHomes: {
		Title: "Find Homes Under Your Budget",
		Short: "Filter homes by city, max price and min bedrooms",
		Needs: []Query{QueryCatalog, QueryFilter},
		Flags: filterFlags,
		Run:   runFilterHomes,
	},
	ScreenAverages: {
		Title: "Average Price and Size in a City",
		Short: "Show mean price and size for a city",
		Needs: []Query{QueryCatalog, QueryAverages},
		Flags: localityFlags,
		Run:   runAverages,
	},
	ScreenVisualizations: {
		Title: "See the Data in Charts and Maps",
		Short: "Bar chart, histogram, boxplot, scatter and map layer",
		Needs: []Query{QueryDerive},
		Flags: outputFlags,
		Run:   runVisualizations,
	},
	ScreenFoliumMap: {
		Title: "Folium Map of Home Locations",
		Short: "Write an HTML map with a marker per home",
		Needs: []Query{QueryDerive},
		Flags: mapFlags,
		Run:   runFoliumMap,
	},
}

// newScreenCmd wires one screen handler into a cobra command.
func newScreenCmd(a *app, s Screen) *cobra.Command {
	h := screenHandlers[s]
	opts := &screenOptions{}

	cmd := &cobra.Command{
		Use:   s.String(),
		Short: h.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.term.Banner(h.Title)
			return h.Run(cmd.Context(), a, opts)
		},
	}
	if h.Flags != nil {
		h.Flags(cmd, a, opts)
	}
	return cmd
}

func newScreensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "screens [name]",
		Short:       "List screens and the queries each one uses",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoData: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			list := Screens()
			if len(args) == 1 {
				s, err := ParseScreen(args[0])
				if err != nil {
					return err
				}
				list = []Screen{s}
			}
			for _, s := range list {
				h := screenHandlers[s]
				needs := make([]string, len(h.Needs))
				for i, q := range h.Needs {
					needs[i] = string(q)
				}
				fmt.Fprintf(a.out, "  %-16s %-40s %s\n", s, h.Title, strings.Join(needs, ", "))
			}
			return nil
		},
	}
}

func newLocalitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "localities",
		Short: "List every city with its selection ordinal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.explorer.Catalog()
			a.term.Localities(c.Localities(), c.Ordinal)
			return nil
		},
	}
}

func localityFlags(cmd *cobra.Command, a *app, o *screenOptions) {
	cmd.Flags().StringVarP(&o.Locality, "city", "c", "", "city (LOCALITY) to show; defaults to the first in the catalog")
}

func exportFlag(cmd *cobra.Command, o *screenOptions) {
	cmd.Flags().StringVar(&o.Export, "export", "", "also write the result table to this CSV file")
}

func topFlags(cmd *cobra.Command, a *app, o *screenOptions) {
	localityFlags(cmd, a, o)
	exportFlag(cmd, o)
	cmd.Flags().IntVarP(&o.TopN, "top", "n", 0, "number of homes to list (default TOP_N)")
}

func outputFlags(cmd *cobra.Command, a *app, o *screenOptions) {
	cmd.Flags().StringVar(&o.OutDir, "out-dir", "", "directory for map files (default OUTPUT_DIR)")
}

func mapFlags(cmd *cobra.Command, a *app, o *screenOptions) {
	outputFlags(cmd, a, o)
	cmd.Flags().BoolVar(&o.Snapshot, "snapshot", false, "also save a PNG of the map through headless Chrome")
	cmd.Flags().IntVar(&o.Precision, "precision", 0, "geohash length of density cells (default GEOHASH_PRECISION)")
}

// selectLocality falls back to the first catalog entry, like a select box
// with no explicit choice.
func (a *app) selectLocality(o *screenOptions) string {
	if o.Locality != "" {
		if !a.explorer.Catalog().Contains(o.Locality) {
			a.logger.Warn("[screen] %q is not a known city", o.Locality)
		}
		return o.Locality
	}
	if names := a.explorer.Catalog().Localities(); len(names) > 0 {
		return names[0]
	}
	return ""
}

func (a *app) outDir(o *screenOptions) string {
	if o.OutDir != "" {
		return o.OutDir
	}
	return a.cfg.OutputDir
}

// export writes tbl to o.Export when one was requested.
func (a *app) export(o *screenOptions, tbl *models.Table) error {
	if o.Export == "" {
		return nil
	}
	w, err := storage.NewCSVWriter(o.Export)
	if err != nil {
		return err
	}
	if err := w.WriteTable(tbl); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	a.logger.Info("[screen] Exported %d rows to %s", tbl.Len(), o.Export)
	return nil
}
