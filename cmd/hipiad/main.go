package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orbitfit/hipiad/internal/logger"
	"github.com/orbitfit/hipiad/pkg/utils"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.1.0-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	logLevel  string
	logFormat string
	iadDir    string
	cachePath string
)

var rootCmd = &cobra.Command{
	Use:   "hipiad",
	Short: "Hipparcos IAD orbit log-probability evaluator",
	Long: `hipiad scores candidate orbit models of a star against the Hipparcos
Intermediate Astrometric Data (van Leeuwen 2007 re-reduction), following
Nielsen et al. 2020.

It reconstructs the star's observed photocenter path from the catalog
best-fit solution and the per-scan abscissa residuals, then computes one
log-probability per candidate parameter vector: either the 5-parameter
parallax-and-proper-motion model or the 13-parameter model with a full
Keplerian companion orbit.`,
	Version: Version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&iadDir, "iad-dir", "",
		"Override the IAD data directory")
	rootCmd.PersistentFlags().StringVar(&cachePath, "catalog-cache", "",
		"Override the catalog cache database path")
}

// loadConfig loads the configuration and applies CLI overrides.
func loadConfig() (*utils.Config, error) {
	cfg, err := utils.LoadConfig()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if iadDir != "" {
		cfg.Data.IADDir = iadDir
	}
	if cachePath != "" {
		cfg.Catalog.CachePath = cachePath
	}
	return cfg, nil
}

// buildLogger creates the process logger from configuration.
func buildLogger(cfg *utils.Config) *logger.Logger {
	log, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return logger.NewDefault()
	}
	return log
}
