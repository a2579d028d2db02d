package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"housing-explorer/config"
	"housing-explorer/render"
	"housing-explorer/services"
	"housing-explorer/storage"
	"housing-explorer/utils"
)

// app is what every command runs against. The explorer is loaded once in
// the root command's pre-run and handed to the screen handler.
type app struct {
	cfg      *config.Config
	logger   *utils.Logger
	out      io.Writer
	term     *render.Terminal
	explorer *services.Explorer
}

// NewRootCmd builds the CLI writing screen output to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, term: render.NewTerminal(out)}

	var (
		source   string
		csvPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "housing-explorer",
		Short:         "NY Housing Explorer: browse, filter and chart residential listings",
		Long:          "Explore a listing dataset: top homes per city, budget filters, averages, charts and maps.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if cmd.Flags().Changed("source") {
				a.cfg.DataSource = source
			}
			if cmd.Flags().Changed("csv") {
				a.cfg.CSVPath = csvPath
			}
			if cmd.Flags().Changed("log-level") {
				a.cfg.LogLevel = logLevel
			}
			a.logger = utils.NewLoggerTo(out, os.Stderr, utils.ParseLevel(a.cfg.LogLevel))

			if cmd.Annotations[annotationNoData] == "true" {
				return nil
			}
			return a.load(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&source, "source", config.SourceCSV, "data source: csv or postgres")
	root.PersistentFlags().StringVar(&csvPath, "csv", "", "path to the listing CSV (overrides CSV_PATH)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	for _, s := range Screens() {
		root.AddCommand(newScreenCmd(a, s))
	}
	root.AddCommand(newScreensCmd(a))
	root.AddCommand(newLocalitiesCmd(a))

	return root
}

// Execute runs the CLI against stdout.
func Execute() error {
	root := NewRootCmd(os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// openSource picks the configured ListingSource.
func (a *app) openSource(ctx context.Context) (storage.ListingSource, error) {
	switch a.cfg.DataSource {
	case config.SourceCSV:
		return storage.NewCSVSource(a.cfg.CSVPath), nil
	case config.SourcePostgres:
		retry := &utils.RetryConfig{
			MaxAttempts: a.cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      a.logger,
		}
		return storage.NewPostgresSource(ctx, a.cfg.DSN(), a.cfg.PostgresTable, retry)
	default:
		return nil, fmt.Errorf("unknown data source %q (want %s or %s)",
			a.cfg.DataSource, config.SourceCSV, config.SourcePostgres)
	}
}

func (a *app) load(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := a.openSource(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", services.ErrDataUnavailable, err)
	}
	defer src.Close()

	table, err := services.Load(ctx, src, a.logger)
	if err != nil {
		return err
	}
	a.explorer = services.NewExplorer(table, a.logger)
	return nil
}
