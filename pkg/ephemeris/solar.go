package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/solar"
)

// Solar computes Earth positions from low-precision solar theory: the
// Earth's heliocentric position is the reflection of the Sun's geometric
// geocentric position. Accuracy is a few arcseconds in solar longitude,
// which is adequate for mas-level parallax factors; substitute a Fixed
// provider fed from a numerical ephemeris when barycentric positions are
// required.
type Solar struct{}

// NewSolar returns the solar-theory provider.
func NewSolar() *Solar { return &Solar{} }

// Positions computes equatorial Earth position vectors at the given MJDs.
func (s *Solar) Positions(mjd []float64) ([]Position, error) {
	out := make([]Position, len(mjd))
	for i, m := range mjd {
		jde := m + 2400000.5
		T := base.J2000Century(jde)

		lonSun, _ := solar.True(T)
		r := solar.Radius(T)

		// Earth heliocentric ecliptic longitude is the solar geocentric
		// longitude plus 180 deg; latitude is taken as zero.
		lon := lonSun.Rad() + math.Pi
		x := r * math.Cos(lon)
		y := r * math.Sin(lon)

		// Rotate ecliptic to equatorial about the x axis.
		eps := nutation.MeanObliquity(jde).Rad()
		out[i] = Position{
			X: x,
			Y: y * math.Cos(eps),
			Z: y * math.Sin(eps),
		}
	}
	return out, nil
}
