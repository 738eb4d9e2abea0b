// Package cmd implements the CLI commands for lawpipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/lawpipe/core/editions"
	"github.com/gaurav-prasanna/lawpipe/core/parse"
	"github.com/gaurav-prasanna/lawpipe/core/pipeline"
	"github.com/gaurav-prasanna/lawpipe/internal/config"
	"github.com/gaurav-prasanna/lawpipe/internal/logger"
	"github.com/gaurav-prasanna/lawpipe/internal/metrics"
)

// Persistent flag variables.
var (
	flagConfig      string
	flagLogLevel    string
	flagPretty      bool
	flagMetricsFile string
)

// Process-wide state built by the persistent pre-run.
var (
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	stats    *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "lawpipe",
	Short: "lawpipe — canonicalize legal documents and their editions",
	Long: `lawpipe is a deterministic canonicalization pipeline for legal documents.
It recovers the Part/Section/Chapter/Article structure from arbitrary markup
or plain text, renders one fixed canonical body, and merges the document's
revision index into it. Re-running it on its own output changes nothing.

Usage:
  lawpipe canonicalize <file> [flags]
  lawpipe batch <dir> [flags]
  lawpipe editions <bundle> [flags]`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "lawpipe.yaml", "Config file (missing file means defaults)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "Human-readable log output")
	rootCmd.PersistentFlags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger and metrics registry.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flagPretty {
		cfg.Log.Pretty = true
	}

	log = logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	registry = prometheus.NewRegistry()
	stats = metrics.New(registry)
	return nil
}

// teardown writes the metrics file when one was requested.
func teardown(*cobra.Command, []string) error {
	if flagMetricsFile == "" || registry == nil {
		return nil
	}
	return metrics.WriteFile(flagMetricsFile, registry)
}

// newPipeline builds a pipeline from the loaded configuration.
func newPipeline() (*pipeline.Pipeline, error) {
	identity, err := editions.ParseIdentity(cfg.Editions.Identity)
	if err != nil {
		return nil, err
	}
	vocab := parse.DefaultVocabulary().Extend(
		cfg.Parser.PartKeywords,
		cfg.Parser.SectionKeywords,
		cfg.Parser.ChapterKeywords,
		cfg.Parser.ArticleKeywords,
	)
	return pipeline.New(
		pipeline.WithVocabulary(vocab),
		pipeline.WithCrossReferences(cfg.Render.CrossReferences),
		pipeline.WithIdentity(identity),
		pipeline.WithFragmentOptions(editions.FragmentOptions{
			LinkFormat: cfg.Editions.LinkFormat,
			MaxItems:   cfg.Editions.MaxItems,
		}),
		pipeline.WithLogger(log.Component("pipeline")),
		pipeline.WithMetrics(stats),
	), nil
}
