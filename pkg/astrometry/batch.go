package astrometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Candidate layouts accepted by the evaluator: five rows for parallax and
// proper motion only, thirteen with the full orbit appended.
const (
	NumParamsPM    = 5
	NumParamsOrbit = 13
)

// ErrParamCount reports a candidate matrix whose row count is neither 5 nor
// 13. The call produces no result.
var ErrParamCount = fmt.Errorf("candidate matrix must have %d or %d parameter rows", NumParamsPM, NumParamsOrbit)

// OrbitParams are the per-candidate orbital element columns of a 13-row
// batch, in orbitize conventions.
type OrbitParams struct {
	SMA  []float64 // semimajor axis [AU]
	Ecc  []float64 // eccentricity
	Inc  []float64 // inclination [rad]
	AOP  []float64 // argument of periastron [rad]
	PAN  []float64 // position angle of nodes [rad]
	Tau  []float64 // periastron epoch, fraction of period past MJD 58849
	MTot []float64 // total mass [Msun]
	MSec []float64 // secondary mass [Msun]
}

// CandidateBatch holds one scoring call's worth of candidate parameter
// vectors, split into per-parameter columns. Orbit is nil for a
// proper-motion-only batch. The variant is fixed at construction; the
// evaluator never re-checks it per element.
type CandidateBatch struct {
	PMRA    []float64 // [mas/yr]
	PMDec   []float64 // [mas/yr]
	AlphaH0 []float64 // RA photocenter offset at 1991.25 [mas]
	DeltaH0 []float64 // Dec photocenter offset at 1991.25 [mas]
	Plx     []float64 // parallax [mas]

	Orbit *OrbitParams
}

// NewCandidateBatch splits a (P x M) sample matrix into parameter columns.
// P must be 5 or 13; anything else returns ErrParamCount and no batch.
func NewCandidateBatch(samples mat.Matrix) (*CandidateBatch, error) {
	p, m := samples.Dims()
	if p != NumParamsPM && p != NumParamsOrbit {
		return nil, fmt.Errorf("%w: got %d rows with %d candidates", ErrParamCount, p, m)
	}

	row := func(i int) []float64 { return mat.Row(nil, i, samples) }

	b := &CandidateBatch{
		PMRA:    row(0),
		PMDec:   row(1),
		AlphaH0: row(2),
		DeltaH0: row(3),
		Plx:     row(4),
	}
	if p == NumParamsOrbit {
		b.Orbit = &OrbitParams{
			SMA:  row(5),
			Ecc:  row(6),
			Inc:  row(7),
			AOP:  row(8),
			PAN:  row(9),
			Tau:  row(10),
			MTot: row(11),
			MSec: row(12),
		}
	}
	return b, nil
}

// Len returns the number of candidates M.
func (b *CandidateBatch) Len() int { return len(b.PMRA) }

// HasOrbit reports whether the batch carries the full-orbit parameter block.
func (b *CandidateBatch) HasOrbit() bool { return b.Orbit != nil }
