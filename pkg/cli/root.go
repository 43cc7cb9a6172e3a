// Package cli implements the harvestboard command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/harvestboard/pkg/auth"
	"github.com/harrisonrobin/harvestboard/pkg/board"
	"github.com/harrisonrobin/harvestboard/pkg/colors"
	"github.com/harrisonrobin/harvestboard/pkg/config"
	"github.com/harrisonrobin/harvestboard/pkg/google"
	"github.com/harrisonrobin/harvestboard/pkg/index"
	"github.com/harrisonrobin/harvestboard/pkg/ingest"
	"github.com/harrisonrobin/harvestboard/pkg/reconcile"
	"github.com/harrisonrobin/harvestboard/pkg/source"
	"github.com/harrisonrobin/harvestboard/pkg/util"
	"github.com/harrisonrobin/harvestboard/pkg/writeback"
)

// Version is set at build time.
var Version = "dev"

type options struct {
	configPath   string
	backend      string
	sourceURL    string
	writeBaseURL string
	keyColumn    string
	spreadsheet  string
	sheetName    string
	verbose      bool
}

// app is the wiring for one command invocation: one ingestion cycle and at
// most one open task.
type app struct {
	cfg      *config.Config
	index    *index.TaskIndex
	pipeline *ingest.Pipeline
	session  *board.Session
	palette  *colors.Palette
	logger   *log.Logger
}

// NewRootCmd builds the harvestboard command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "harvestboard",
		Short:   "Harvest task board backed by a spreadsheet",
		Version: Version,
		Long: `harvestboard reads harvest tasks from a spreadsheet, lists what is due
on a given day, and records harvest time, weight, assignee and notes back
to the sheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/harvestboard/config.json)")
	flags.StringVar(&opts.backend, "backend", "", "Sheet backend: http or sheets (overrides config)")
	flags.StringVar(&opts.sourceURL, "source-url", "", "CSV export URL (http backend)")
	flags.StringVar(&opts.writeBaseURL, "write-url", "", "Row update API base URL (http backend)")
	flags.StringVar(&opts.keyColumn, "key-column", "", "Column used as the write-back key")
	flags.StringVar(&opts.spreadsheet, "spreadsheet", "", "Spreadsheet ID (sheets backend)")
	flags.StringVar(&opts.sheetName, "sheet", "", "Sheet tab name (sheets backend)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print warnings")

	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(showCmd(opts))
	rootCmd.AddCommand(updateCmd(opts))
	rootCmd.AddCommand(overdueCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	rootCmd.AddCommand(authCmd())

	return rootCmd
}

// loadConfig applies flag > config file > default.
func (o *options) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.sourceURL != "" {
		cfg.SourceURL = o.sourceURL
	}
	if o.writeBaseURL != "" {
		cfg.WriteBaseURL = o.writeBaseURL
	}
	if o.keyColumn != "" {
		cfg.KeyColumn = o.keyColumn
	}
	if o.spreadsheet != "" {
		cfg.SpreadsheetID = o.spreadsheet
	}
	if o.sheetName != "" {
		cfg.SheetName = o.sheetName
	}
	return cfg, nil
}

func (o *options) logger(cmd *cobra.Command) *log.Logger {
	if o.verbose {
		return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// newApp wires the boundaries selected by the config around a fresh index.
func newApp(ctx context.Context, cmd *cobra.Command, o *options) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w\nHint: run 'harvestboard config set <key> <value>'", err)
	}
	logger := o.logger(cmd)
	util.SetLogger(logger)

	var (
		src    ingest.Source
		writer reconcile.Writer
	)
	switch cfg.Backend {
	case config.BackendSheets:
		client, err := google.NewClient(ctx, cfg.SpreadsheetID, cfg.SheetName, cfg.KeyColumn)
		if err != nil {
			return nil, err
		}
		src, writer = client, client
	default:
		httpClient := http.DefaultClient
		if cfg.OAuth {
			httpClient, err = auth.GetClient(ctx, auth.SheetsScopes)
			if err != nil {
				return nil, err
			}
		}
		src = source.NewHTTPSource(cfg.SourceURL, httpClient)
		writer = writeback.NewHTTPWriter(cfg.WriteBaseURL, cfg.KeyColumn, httpClient)
	}

	idx := index.NewTaskIndex()
	pipeline := ingest.NewPipeline(src, idx,
		ingest.WithKeyColumn(cfg.KeyColumn),
		ingest.WithLogger(logger),
	)
	reconciler := reconcile.NewReconciler(writer, idx, reconcile.WithLogger(logger))

	return &app{
		cfg:      cfg,
		index:    idx,
		pipeline: pipeline,
		session:  board.NewSession(idx, reconciler, logger),
		palette:  colors.NewPalette(),
		logger:   logger,
	}, nil
}

// load runs one ingestion and turns a degraded result into an error.
func (a *app) load(ctx context.Context) error {
	res := a.pipeline.Ingest(ctx)
	if res.Err != nil {
		return fmt.Errorf("could not load tasks: %w", res.Err)
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
