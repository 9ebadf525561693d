package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbitfit/hipiad/pkg/catalog"
)

var catalogHIP string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch and display a star's catalog solution",
	Long: `Fetch the best-fit five-parameter astrometric solution for a star from
the van Leeuwen re-reduction (VizieR I/311/hip2), using the local cache when
available, and print it as JSON.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogHIP, "hip", "", "HIP number of the target star (required)")
	catalogCmd.MarkFlagRequired("hip")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)
	defer log.Sync()

	var cache *catalog.Cache
	if cfg.Catalog.CachePath != "" {
		if c, err := catalog.OpenCache(cfg.Catalog.CachePath); err == nil {
			cache = c
			defer cache.Close()
		} else {
			log.Warnw("catalog cache unavailable", "error", err)
		}
	}

	client := catalog.NewVizierClient(cfg.Catalog.VizierURL)
	sol, err := catalog.Fetch(cmd.Context(), catalogHIP, cache, client, log)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog solution: %w", err)
	}

	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
