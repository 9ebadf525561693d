package astrometry

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/orbitfit/hipiad/pkg/kepler"
)

// OrbitModel returns the companion's angular offset from the system
// barycenter at one epoch, in mas. The evaluator treats it as a black box.
type OrbitModel func(mjd float64, el kepler.Elements) (raoff, decoff float64)

// minParallelM is the batch size below which the evaluator stays on one
// goroutine.
const minParallelM = 4096

// Evaluator scores candidate batches against a reconstructed photocenter
// series. It is a pure function of its inputs: identical calls produce
// identical output, and concurrent calls are safe.
type Evaluator struct {
	rec     *Reconstructor
	model   OrbitModel
	workers int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOrbitModel substitutes the two-body model used for 13-parameter
// batches.
func WithOrbitModel(m OrbitModel) Option {
	return func(e *Evaluator) { e.model = m }
}

// WithWorkers sets the number of goroutines candidate chunks are spread
// over. Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Evaluator) { e.workers = n }
}

// NewEvaluator creates an evaluator over an already-constructed series.
func NewEvaluator(rec *Reconstructor, opts ...Option) *Evaluator {
	e := &Evaluator{
		rec: rec,
		model: func(mjd float64, el kepler.Elements) (float64, float64) {
			return kepler.RADecOffset(mjd, el)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// LnProb computes one log-probability per candidate column of samples, a
// (P x M) matrix with P of 5 or 13. With negative set, the negated values
// are returned for use by minimizers. A P outside {5, 13} is a usage error:
// the call returns ErrParamCount and no result.
func (e *Evaluator) LnProb(samples mat.Matrix, negative bool) ([]float64, error) {
	batch, err := NewCandidateBatch(samples)
	if err != nil {
		return nil, err
	}
	return e.LnProbBatch(batch, negative), nil
}

// LnProbBatch scores an already-split batch. Output index j corresponds to
// candidate column j.
func (e *Evaluator) LnProbBatch(b *CandidateBatch, negative bool) []float64 {
	m := b.Len()
	chi2 := make([]float64, m)

	workers := e.workers
	if m < minParallelM {
		workers = 1
	}

	if workers == 1 {
		e.accumChi2(b, 0, m, chi2)
	} else {
		chunk := (m + workers - 1) / workers
		var wg sync.WaitGroup
		for lo := 0; lo < m; lo += chunk {
			hi := lo + chunk
			if hi > m {
				hi = m
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				e.accumChi2(b, lo, hi, chi2)
			}(lo, hi)
		}
		wg.Wait()
	}

	lnprob := chi2
	floats.Scale(-0.5, lnprob)

	// Positive-parallax prior: applied after the chi2 reduction so the
	// batch dimension never shifts underneath the mask.
	for j, plx := range b.Plx {
		if plx <= 0 {
			lnprob[j] = math.Inf(-1)
		}
	}

	if negative {
		floats.Scale(-1, lnprob)
	}
	return lnprob
}

// accumChi2 accumulates the scan-projected chi2 for candidates [lo, hi).
// The epoch loop is explicit (N is small); the candidate dimension runs
// through bulk slice operations.
func (e *Evaluator) accumChi2(b *CandidateBatch, lo, hi int, chi2 []float64) {
	w := hi - lo
	if w == 0 {
		return
	}

	pmRA := b.PMRA[lo:hi]
	pmDec := b.PMDec[lo:hi]
	alphaH0 := b.AlphaH0[lo:hi]
	deltaH0 := b.DeltaH0[lo:hi]
	plx := b.Plx[lo:hi]
	out := chi2[lo:hi]

	alphaC := make([]float64, w)
	deltaC := make([]float64, w)

	rec := e.rec
	for i := 0; i < rec.NumEpochs(); i++ {
		// Expected offset from the catalog photocenter at 1991.25:
		// photocenter offset + parallactic ellipse + proper motion.
		copy(alphaC, alphaH0)
		floats.AddScaled(alphaC, rec.pfRA[i], plx)
		floats.AddScaled(alphaC, rec.dt[i], pmRA)

		copy(deltaC, deltaH0)
		floats.AddScaled(deltaC, rec.pfDec[i], plx)
		floats.AddScaled(deltaC, rec.dt[i], pmDec)

		if o := b.Orbit; o != nil {
			mjd := rec.epochsMJD[i]
			for j := 0; j < w; j++ {
				raoff, decoff := e.model(mjd, kepler.Elements{
					SMA:  o.SMA[lo+j],
					Ecc:  o.Ecc[lo+j],
					Inc:  o.Inc[lo+j],
					AOP:  o.AOP[lo+j],
					PAN:  o.PAN[lo+j],
					Tau:  o.Tau[lo+j],
					Plx:  plx[j],
					MTot: o.MTot[lo+j],
				})
				// The model gives the companion relative to the barycenter;
				// the star moves opposite, scaled by the mass ratio.
				scale := -o.MSec[lo+j] / o.MTot[lo+j]
				alphaC[j] += raoff * scale
				deltaC[j] += decoff * scale
			}
		}

		// Distance between the reconstructed and predicted photocenter
		// along the scan direction; the orthogonal component is
		// unconstrained by the measurement.
		cosPhi := rec.cosPhi[i]
		sinPhi := rec.sinPhi[i]
		invVar := 1 / (rec.residErr[i] * rec.residErr[i])
		for j := 0; j < w; j++ {
			dist := (rec.alphaAbs[i]-alphaC[j])*cosPhi + (rec.deltaAbs[i]-deltaC[j])*sinPhi
			out[j] += dist * dist * invVar
		}
	}
}
