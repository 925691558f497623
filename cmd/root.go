package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/config"
	"github.com/s0up4200/reviewqueue/metrics"
	"github.com/s0up4200/reviewqueue/submission"
)

var (
	cfgFile        string
	cfg            *config.Config
	logger         zerolog.Logger
	airtableClient *airtable.Client

	// Build info, set from main
	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reviewqueue",
	Short: "Review project submissions stored in Airtable",
	Long: `reviewqueue serves a small review UI on top of an Airtable table of project
submissions, and offers the same operations from the command line: list
submissions, fetch the next one to review, and set its review status.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration, logger and Airtable client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	airtableClient, err = airtable.NewClient(cfg.Airtable.APIKey, logger,
		airtable.WithBaseURL(cfg.Airtable.BaseURL),
		airtable.WithHTTPClient(newHTTPClient(cfg.Airtable.Timeout)),
		airtable.WithUserAgent("reviewqueue/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create Airtable client: %w", err)
	}

	return nil
}

// newHTTPClient returns the client used for Airtable, instrumented for metrics
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: metrics.InstrumentTransport(http.DefaultTransport),
	}
}

// newService builds the review service. nextExpr overrides
// review.next_filter when non-empty.
func newService(nextExpr string, typecast bool) (*submission.Service, error) {
	if nextExpr == "" {
		nextExpr = cfg.Review.NextFilter
	}

	next, err := submission.CompileFilter(nextExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid next filter: %w", err)
	}

	return submission.NewService(airtableClient, submission.Options{
		Base:       cfg.Airtable.BaseID,
		Table:      cfg.Airtable.Table,
		View:       cfg.Airtable.View,
		Typecast:   typecast,
		MaxRecords: cfg.Review.MaxRecords,
		NextFilter: next,
	}, logger)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColors reports whether command output on stdout should be colored
func useColors() bool {
	return cfg != nil && cfg.Logging.Color && isTerminal(os.Stdout)
}
