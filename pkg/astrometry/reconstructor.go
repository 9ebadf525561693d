// Package astrometry reconstructs the observed photocenter path of a star
// from its catalog solution and intermediate astrometric data, and scores
// batches of candidate orbit models against it (Nielsen et al. 2020).
package astrometry

import (
	"fmt"
	"math"

	"github.com/orbitfit/hipiad/pkg/catalog"
	"github.com/orbitfit/hipiad/pkg/ephemeris"
	"github.com/orbitfit/hipiad/pkg/iad"
)

// Reconstructor combines the catalog solution, the scan observations and the
// Earth ephemeris into the fixed per-epoch reconstructed photocenter series.
// Everything is computed once at construction; a Reconstructor is immutable
// and safe for concurrent use afterward.
type Reconstructor struct {
	sol *catalog.Solution

	// Per-epoch series, all of length NumEpochs.
	dt        []float64 // epoch - 1991.25 [yr]
	epochsMJD []float64
	cosPhi    []float64
	sinPhi    []float64
	residErr  []float64 // abscissa residual uncertainty [mas]

	// Parallax factors: the sky-plane displacement per mas of parallax.
	pfRA  []float64
	pfDec []float64

	// Reconstructed photocenter offsets from the catalog position at
	// 1991.25 [mas].
	alphaAbs []float64
	deltaAbs []float64
}

// NewReconstructor builds the reconstructed series. Any inconsistency in the
// inputs (invalid solution, epoch-count mismatch with the ephemeris) is a
// fatal construction error; no half-initialized reconstructor is returned.
func NewReconstructor(sol *catalog.Solution, obs *iad.ObservationSet, prov ephemeris.Provider) (*Reconstructor, error) {
	if err := sol.Validate(); err != nil {
		return nil, err
	}
	if obs == nil || obs.Len() == 0 {
		return nil, fmt.Errorf("reconstructor for HIP %s: empty observation set", sol.HIP)
	}

	n := obs.Len()
	r := &Reconstructor{
		sol:       sol,
		dt:        make([]float64, n),
		epochsMJD: obs.EpochsMJD(),
		cosPhi:    make([]float64, n),
		sinPhi:    make([]float64, n),
		residErr:  make([]float64, n),
		pfRA:      make([]float64, n),
		pfDec:     make([]float64, n),
		alphaAbs:  make([]float64, n),
		deltaAbs:  make([]float64, n),
	}

	pos, err := prov.Positions(r.epochsMJD)
	if err != nil {
		return nil, fmt.Errorf("reconstructor for HIP %s: ephemeris lookup failed: %w", sol.HIP, err)
	}
	if len(pos) != n {
		return nil, fmt.Errorf("reconstructor for HIP %s: ephemeris returned %d positions for %d epochs", sol.HIP, len(pos), n)
	}

	alpha0 := sol.RA * math.Pi / 180
	delta0 := sol.Dec * math.Pi / 180
	sinA, cosA := math.Sincos(alpha0)
	sinD, cosD := math.Sincos(delta0)

	for i := 0; i < n; i++ {
		o := obs.At(i)
		r.dt[i] = o.Epoch - catalog.RefEpoch
		r.cosPhi[i] = o.CosPhi
		r.sinPhi[i] = o.SinPhi
		r.residErr[i] = o.ResidErr

		r.pfRA[i] = pos[i].X*sinA - pos[i].Y*cosA
		r.pfDec[i] = pos[i].X*cosA*sinD + pos[i].Y*sinA*sinD - pos[i].Z*cosD

		// Project the measured abscissa residual back onto the sky and add
		// the catalog parallax and proper-motion displacement.
		dAlpha := sol.Plx*r.pfRA[i] + r.dt[i]*sol.PMRA
		dDelta := sol.Plx*r.pfDec[i] + r.dt[i]*sol.PMDec
		r.alphaAbs[i] = o.Resid*o.CosPhi + dAlpha
		r.deltaAbs[i] = o.Resid*o.SinPhi + dDelta
	}

	return r, nil
}

// Solution returns the catalog solution the series was built from.
func (r *Reconstructor) Solution() *catalog.Solution { return r.sol }

// NumEpochs returns the number of scans N.
func (r *Reconstructor) NumEpochs() int { return len(r.dt) }

// AlphaAbs returns a copy of the reconstructed RA offsets [mas].
func (r *Reconstructor) AlphaAbs() []float64 {
	out := make([]float64, len(r.alphaAbs))
	copy(out, r.alphaAbs)
	return out
}

// DeltaAbs returns a copy of the reconstructed Dec offsets [mas].
func (r *Reconstructor) DeltaAbs() []float64 {
	out := make([]float64, len(r.deltaAbs))
	copy(out, r.deltaAbs)
	return out
}
