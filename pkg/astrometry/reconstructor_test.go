package astrometry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitfit/hipiad/pkg/catalog"
	"github.com/orbitfit/hipiad/pkg/ephemeris"
	"github.com/orbitfit/hipiad/pkg/iad"
)

// parseIAD builds an observation set from rows of
// [unused dt unused cosphi sinphi resid err].
func parseIAD(t *testing.T, rows string) *iad.ObservationSet {
	t.Helper()
	obs, err := iad.Parse(strings.NewReader("header row\n" + rows))
	require.NoError(t, err)
	return obs
}

func nullSolution() *catalog.Solution {
	// Zero parallax and proper motion: the reconstructed series reduces to
	// the projected abscissa residuals.
	return &catalog.Solution{HIP: "027321", RA: 45, Dec: 30}
}

func TestNewReconstructor_HandValues(t *testing.T) {
	// RA=0, Dec=0 collapse the parallax factors to pfRA=-Y, pfDec=-Z.
	sol := &catalog.Solution{
		HIP: "000001", RA: 0, Dec: 0,
		Plx: 2, PMRA: 3, PMDec: 4,
	}
	obs := parseIAD(t, "0 0.5 0 0.6 0.8 1.0 1.0\n")
	eph := ephemeris.NewFixed([]ephemeris.Position{{X: 1, Y: 2, Z: 3}})

	rec, err := NewReconstructor(sol, obs, eph)
	require.NoError(t, err)
	require.Equal(t, 1, rec.NumEpochs())

	// alpha_abs = R*cosphi + plx0*(-Y) + dt*pmRA = 0.6 - 4 + 1.5
	assert.InDelta(t, -1.9, rec.AlphaAbs()[0], 1e-12)
	// delta_abs = R*sinphi + plx0*(-Z) + dt*pmDec = 0.8 - 6 + 2
	assert.InDelta(t, -3.2, rec.DeltaAbs()[0], 1e-12)
}

func TestNewReconstructor_Deterministic(t *testing.T) {
	sol := &catalog.Solution{HIP: "027321", RA: 86.82, Dec: -51.07, Plx: 51.44, PMRA: 4.65, PMDec: 83.1}
	rows := "0 -0.3 0 0.70711 0.70711 1.21 0.85\n0 0.4 0 -0.25882 0.96593 -0.74 1.12\n"
	eph := []ephemeris.Position{{X: 0.9, Y: 0.3, Z: 0.13}, {X: -0.5, Y: -0.8, Z: -0.35}}

	a, err := NewReconstructor(sol, parseIAD(t, rows), ephemeris.NewFixed(eph))
	require.NoError(t, err)
	b, err := NewReconstructor(sol, parseIAD(t, rows), ephemeris.NewFixed(eph))
	require.NoError(t, err)

	// Bit-identical, not merely close.
	assert.Equal(t, a.AlphaAbs(), b.AlphaAbs())
	assert.Equal(t, a.DeltaAbs(), b.DeltaAbs())
}

func TestNewReconstructor_EphemerisMismatch(t *testing.T) {
	obs := parseIAD(t, "0 0 0 1 0 0 1\n0 1 0 0 1 0 1\n")
	eph := ephemeris.NewFixed([]ephemeris.Position{{X: 1}})

	_, err := NewReconstructor(nullSolution(), obs, eph)
	assert.Error(t, err)
}

func TestNewReconstructor_InvalidSolution(t *testing.T) {
	obs := parseIAD(t, "0 0 0 1 0 0 1\n")
	eph := ephemeris.NewFixed([]ephemeris.Position{{}})

	sol := &catalog.Solution{RA: 45, Dec: 30} // no HIP identifier
	_, err := NewReconstructor(sol, obs, eph)
	assert.Error(t, err)
}

func TestNewReconstructor_NilObservations(t *testing.T) {
	eph := ephemeris.NewFixed(nil)
	_, err := NewReconstructor(nullSolution(), nil, eph)
	assert.Error(t, err)
}
