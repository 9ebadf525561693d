package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/orbitfit/hipiad/internal/logger"
	"github.com/orbitfit/hipiad/internal/types"
	"github.com/orbitfit/hipiad/pkg/astrometry"
	"github.com/orbitfit/hipiad/pkg/catalog"
	"github.com/orbitfit/hipiad/pkg/ephemeris"
	"github.com/orbitfit/hipiad/pkg/iad"
	"github.com/orbitfit/hipiad/pkg/utils"
)

var (
	scoreHIP       string
	scoreSamples   string
	scoreOutput    string
	scoreNegative  bool
	scoreTranspose bool
	scoreTop       int
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate orbit models against the IAD",
	Long: `Score a batch of candidate parameter vectors against one star's
intermediate astrometric data.

The samples file is a CSV whose rows are parameters and whose columns are
candidates (use --transpose for candidate-per-row files). Five rows select
the parallax-and-proper-motion model:

  pm_ra [mas/yr], pm_dec [mas/yr], alpha_H0 [mas], delta_H0 [mas], plx [mas]

Thirteen rows append the Keplerian companion orbit:

  sma [au], ecc, inc [rad], aop [rad], pan [rad], tau, mtot [Msun], m2 [Msun]

Candidates with non-positive parallax receive -Inf log-probability.

Examples:
  hipiad score --hip 027321 --samples orbits.csv --output lnprob.csv
  hipiad score --hip 027321 --samples chains.csv --transpose --negative`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreHIP, "hip", "", "HIP number of the target star (required)")
	scoreCmd.Flags().StringVar(&scoreSamples, "samples", "", "CSV file of candidate parameter vectors (required)")
	scoreCmd.Flags().StringVar(&scoreOutput, "output", "", "Write per-candidate log-probabilities to this CSV file")
	scoreCmd.Flags().BoolVar(&scoreNegative, "negative", false, "Return negative log-probabilities (for minimizers)")
	scoreCmd.Flags().BoolVar(&scoreTranspose, "transpose", false, "Samples file has one candidate per row")
	scoreCmd.Flags().IntVar(&scoreTop, "top", 0, "Log the indices of the N best candidates")
	scoreCmd.MarkFlagRequired("hip")
	scoreCmd.MarkFlagRequired("samples")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)
	defer log.Sync()

	rec, err := buildReconstructor(cmd.Context(), cfg, scoreHIP, log)
	if err != nil {
		return err
	}

	samples, err := loadSamplesCSV(scoreSamples, scoreTranspose)
	if err != nil {
		return err
	}
	p, m := samples.Dims()
	log.WithTarget(scoreHIP).Infow("scoring candidates",
		"params", p, "candidates", m, "epochs", rec.NumEpochs())

	ev := astrometry.NewEvaluator(rec, astrometry.WithWorkers(cfg.Evaluate.Workers))

	start := time.Now()
	lnprob, err := ev.LnProb(samples, scoreNegative)
	if err != nil {
		return err
	}

	result := &types.ScoreResult{
		HIP:        scoreHIP,
		NumEpochs:  rec.NumEpochs(),
		NumParams:  p,
		Candidates: m,
		Negative:   scoreNegative,
		Duration:   time.Since(start),
		LnProb:     lnprob,
	}

	summary := result.Summary()
	log.WithTarget(scoreHIP).Infow("scoring complete",
		"duration", result.Duration,
		"finite", summary.Finite,
		"rejected", summary.Rejected,
		"mean", summary.Mean,
		"median", summary.Median,
		"max", summary.Max)

	if scoreTop > 0 && !scoreNegative {
		best := result.Best(scoreTop)
		for rank, idx := range best {
			log.Infow("best candidate", "rank", rank+1, "index", idx, "lnprob", lnprob[idx])
		}
	}

	if scoreOutput != "" {
		if err := writeLnProbCSV(scoreOutput, lnprob); err != nil {
			return err
		}
		log.Infow("wrote log-probabilities", "path", scoreOutput)
	}
	return nil
}

// buildReconstructor assembles the three collaborators and runs the
// one-time reconstruction for a target star.
func buildReconstructor(ctx context.Context, cfg *utils.Config, hip string, log *logger.Logger) (*astrometry.Reconstructor, error) {
	var cache *catalog.Cache
	if cfg.Catalog.CachePath != "" {
		var err error
		cache, err = catalog.OpenCache(cfg.Catalog.CachePath)
		if err != nil {
			log.Warnw("catalog cache unavailable", "error", err)
		} else {
			defer cache.Close()
		}
	}

	client := catalog.NewVizierClient(cfg.Catalog.VizierURL)
	sol, err := catalog.Fetch(ctx, hip, cache, client, log)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog solution: %w", err)
	}

	obs, err := iad.LoadFile(cfg.Data.IADDir, hip)
	if err != nil {
		return nil, fmt.Errorf("failed to load IAD: %w", err)
	}

	rec, err := astrometry.NewReconstructor(sol, obs, ephemeris.NewSolar())
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct photocenter series: %w", err)
	}
	return rec, nil
}

// loadSamplesCSV reads a numeric CSV grid into a parameters-by-candidates
// matrix.
func loadSamplesCSV(path string, transpose bool) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open samples file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("samples file %s is empty", path)
	}

	rows := len(records)
	cols := len(records[0])
	grid := mat.NewDense(rows, cols, nil)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("samples row %d has %d columns, want %d", i+1, len(record), cols)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("samples row %d column %d: %w", i+1, j+1, err)
			}
			grid.Set(i, j, v)
		}
	}

	if transpose {
		t := mat.DenseCopyOf(grid.T())
		return t, nil
	}
	return grid, nil
}

// writeLnProbCSV writes one log-probability per line.
func writeLnProbCSV(path string, lnprob []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"lnprob"}); err != nil {
		return err
	}
	for _, v := range lnprob {
		if err := w.Write([]string{strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
