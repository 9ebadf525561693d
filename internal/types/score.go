package types

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ScoreResult captures one scoring run: the inputs' shape, the per-candidate
// log-probabilities, and timing.
type ScoreResult struct {
	HIP        string        `json:"hip"`
	NumEpochs  int           `json:"num_epochs"`
	NumParams  int           `json:"num_params"`
	Candidates int           `json:"candidates"`
	Negative   bool          `json:"negative"`
	Duration   time.Duration `json:"duration"`
	LnProb     []float64     `json:"lnprob,omitempty"`
}

// ScoreSummary describes the distribution of the finite log-probabilities in
// a result. Candidates rejected by the parallax prior are counted, not
// aggregated.
type ScoreSummary struct {
	Finite   int     `json:"finite"`
	Rejected int     `json:"rejected"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Median   float64 `json:"median"`
	Max      float64 `json:"max"`
}

// Summary aggregates the finite entries of the lnprob vector.
func (r *ScoreResult) Summary() ScoreSummary {
	finite := make([]float64, 0, len(r.LnProb))
	rejected := 0
	for _, v := range r.LnProb {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			rejected++
			continue
		}
		finite = append(finite, v)
	}

	s := ScoreSummary{Finite: len(finite), Rejected: rejected}
	if len(finite) == 0 {
		return s
	}

	sort.Float64s(finite)
	s.Mean = stat.Mean(finite, nil)
	s.StdDev = stat.StdDev(finite, nil)
	s.Min = finite[0]
	s.Max = finite[len(finite)-1]
	s.Median = stat.Quantile(0.5, stat.Empirical, finite, nil)
	return s
}

// Best returns the indices of the top-n candidates by log-probability,
// highest first. Non-finite entries rank last.
func (r *ScoreResult) Best(n int) []int {
	idx := make([]int, len(r.LnProb))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := r.LnProb[idx[a]], r.LnProb[idx[b]]
		if math.IsInf(va, -1) {
			return false
		}
		if math.IsInf(vb, -1) {
			return true
		}
		return va > vb
	})
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}
