// Package ephemeris supplies Earth position vectors at observation epochs
// for the parallax-factor terms of the astrometric model.
package ephemeris

import "fmt"

// Position is an Earth position vector in AU, equatorial frame.
type Position struct {
	X, Y, Z float64
}

// Provider yields Earth positions at the given MJD epochs, in the same
// order. Providers are consulted once, at reconstructor construction.
type Provider interface {
	Positions(mjd []float64) ([]Position, error)
}

// Fixed is a Provider backed by pre-computed positions, one per epoch in
// construction order. Used for tests and externally supplied ephemerides.
type Fixed struct {
	pos []Position
}

// NewFixed wraps pre-computed positions.
func NewFixed(pos []Position) *Fixed {
	cp := make([]Position, len(pos))
	copy(cp, pos)
	return &Fixed{pos: cp}
}

// Positions returns the stored vectors. The epoch count must match.
func (f *Fixed) Positions(mjd []float64) ([]Position, error) {
	if len(mjd) != len(f.pos) {
		return nil, fmt.Errorf("fixed ephemeris holds %d positions, %d epochs requested", len(f.pos), len(mjd))
	}
	out := make([]Position, len(f.pos))
	copy(out, f.pos)
	return out, nil
}
