package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/airtable-events/internal/airtable"
	"github.com/pfrederiksen/airtable-events/internal/config"
	"github.com/pfrederiksen/airtable-events/internal/event"
	"github.com/pfrederiksen/airtable-events/internal/export"
	"github.com/pfrederiksen/airtable-events/internal/logger"
	"github.com/pfrederiksen/airtable-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

type options struct {
	configPath string
	apiURL     string
	table      string
	output     string
	timeout    time.Duration
	gcsBucket  string
	gcsObject  string
	format     string
	dryRun     bool
	verbose    bool
}

// NewRootCmd creates the root command reading credentials from getenv
func NewRootCmd(getenv func(string) string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "airtable-events",
		Short: "Export approved Airtable events to a JSON file for the site",
		Long: `Fetches approved event records from Airtable, keeps those dated from the
first day of the previous month onwards, and writes them to a JSON file
for the static site build.

Credentials are read from AIRTABLE_API_KEY and AIRTABLE_BASE_ID.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, getenv)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Optional YAML settings file")
	f.StringVar(&opts.apiURL, "api-url", config.DefaultAPIURL, "Airtable API root")
	f.StringVar(&opts.table, "table", config.DefaultTable, "Airtable table name")
	f.StringVar(&opts.output, "output", config.DefaultOutputPath, "Output file path")
	f.DurationVar(&opts.timeout, "timeout", 0, "Per-request HTTP timeout (0 = wait indefinitely)")
	f.StringVar(&opts.gcsBucket, "gcs-bucket", "", "Also upload the output to this GCS bucket")
	f.StringVar(&opts.gcsObject, "gcs-object", config.DefaultGCSObject, "Object name used with --gcs-bucket")
	f.StringVar(&opts.format, "format", string(FormatText), "Summary format: text or json")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print the output to stdout instead of writing it")
	f.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// loadConfig layers defaults, the optional file and explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = opts.apiURL
		if !strings.HasSuffix(cfg.APIURL, "/") {
			cfg.APIURL += "/"
		}
	}
	if flags.Changed("table") {
		cfg.Table = opts.table
	}
	if flags.Changed("output") {
		cfg.OutputPath = opts.output
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("gcs-bucket") {
		cfg.GCS.Bucket = opts.gcsBucket
	}
	if flags.Changed("gcs-object") {
		cfg.GCS.Object = opts.gcsObject
	}
	if opts.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	return cfg, nil
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, opts *options, getenv func(string) string) error {
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(log)

	// Credentials are checked before anything touches the network.
	if err := cfg.LoadCredentials(getenv); err != nil {
		return err
	}

	loc, err := event.LoadDisplayLocation()
	if err != nil {
		return fmt.Errorf("loading %s: %w", event.DisplayTimeZone, err)
	}

	ctx := cmd.Context()

	file, err := storage.New(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	summaryOut := cmd.OutOrStdout()
	var writers []storage.Writer
	if opts.dryRun {
		writers = append(writers, storage.NewStream(cmd.OutOrStdout(), "stdout"))
		summaryOut = cmd.ErrOrStderr()
	} else {
		writers = append(writers, file)
		if cfg.GCS.Enabled() {
			gcs, err := storage.NewGCS(ctx, cfg.GCS.Bucket, cfg.GCS.Object)
			if err != nil {
				return fmt.Errorf("initializing GCS: %w", err)
			}
			defer gcs.Close()
			writers = append(writers, gcs)
		}
	}

	metrics := logger.NewMetrics()
	client := airtable.NewClient(cfg.APIKey, cfg.BaseID, cfg.Table,
		airtable.WithBaseURL(cfg.APIURL),
		airtable.WithTimeout(cfg.Timeout),
		airtable.WithLogger(log),
		airtable.WithMetrics(metrics),
	)

	exporter := export.New(client, loc, writers...)
	exporter.Previous = file
	exporter.Log = log
	exporter.Metrics = metrics

	log.Debug("Starting export", logger.Fields{
		"base_id": cfg.BaseID,
		"table":   cfg.Table,
		"output":  cfg.OutputPath,
		"dry_run": opts.dryRun,
	})

	result, err := exporter.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("Export complete", metrics.Snapshot())

	summary := NewSummary(result, opts.dryRun)
	if err := WriteSummary(summaryOut, summary, format, opts.verbose); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

// Run executes the command with explicit I/O and returns the exit code.
func Run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(getenv)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}
