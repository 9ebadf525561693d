package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/orbitfit/hipiad/pkg/catalog"
)

var (
	sampleHIP    string
	sampleCount  int
	sampleOutput string
	sampleSeed   uint64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate 5-parameter candidates around the catalog solution",
	Long: `Generate a candidate batch for the parallax-and-proper-motion model by
Gaussian draws around the catalog best fit: proper motions and parallax from
the catalog values and their formal errors, photocenter offsets from a
zero-mean Gaussian.

The output CSV has five rows (pm_ra, pm_dec, alpha_H0, delta_H0, plx) and
one column per candidate, ready for "hipiad score".`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringVar(&sampleHIP, "hip", "", "HIP number of the target star (required)")
	sampleCmd.Flags().IntVar(&sampleCount, "count", 0, "Number of candidates (default from config)")
	sampleCmd.Flags().StringVar(&sampleOutput, "output", "", "Output CSV file (required)")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0, "Random seed (0 derives one from the clock)")
	sampleCmd.MarkFlagRequired("hip")
	sampleCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)
	defer log.Sync()

	count := sampleCount
	if count <= 0 {
		count = cfg.Sample.Count
	}
	seed := sampleSeed
	if seed == 0 {
		seed = cfg.Sample.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var cache *catalog.Cache
	if cfg.Catalog.CachePath != "" {
		if c, err := catalog.OpenCache(cfg.Catalog.CachePath); err == nil {
			cache = c
			defer cache.Close()
		}
	}
	client := catalog.NewVizierClient(cfg.Catalog.VizierURL)
	sol, err := catalog.Fetch(cmd.Context(), sampleHIP, cache, client, log)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog solution: %w", err)
	}

	src := rand.NewSource(seed)
	dists := []distuv.Normal{
		{Mu: sol.PMRA, Sigma: sol.PMRAErr, Src: src},
		{Mu: sol.PMDec, Sigma: sol.PMDecErr, Src: src},
		{Mu: 0, Sigma: cfg.Sample.OffsetSigma, Src: src},
		{Mu: 0, Sigma: cfg.Sample.OffsetSigma, Src: src},
		{Mu: sol.Plx, Sigma: sol.PlxErr, Src: src},
	}

	f, err := os.Create(sampleOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	record := make([]string, count)
	for _, dist := range dists {
		for j := 0; j < count; j++ {
			record[j] = strconv.FormatFloat(dist.Rand(), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}

	log.WithTarget(sampleHIP).Infow("wrote candidate samples",
		"count", count, "seed", seed, "path", sampleOutput)
	return nil
}
