package catalog

import (
	"fmt"
	"math"
)

// RefEpoch is the reference epoch of the Hipparcos re-reduction, in decimal
// years. Every solution field refers to this epoch.
const RefEpoch = 1991.25

// Solution holds the best-fit five-parameter astrometric solution for one
// star from the van Leeuwen (2007) re-reduction catalog, together with the
// formal 1-sigma uncertainties. It is created once and never mutated.
type Solution struct {
	HIP string `json:"hip"`

	RA  float64 `json:"ra"`  // right ascension [deg]
	Dec float64 `json:"dec"` // declination [deg]
	Plx float64 `json:"plx"` // parallax [mas]

	PMRA  float64 `json:"pm_ra"`  // proper motion in RA*cos(Dec) [mas/yr]
	PMDec float64 `json:"pm_dec"` // proper motion in Dec [mas/yr]

	RAErr    float64 `json:"ra_err"`  // [mas]
	DecErr   float64 `json:"dec_err"` // [mas]
	PlxErr   float64 `json:"plx_err"`
	PMRAErr  float64 `json:"pm_ra_err"`
	PMDecErr float64 `json:"pm_dec_err"`
}

// Validate reports whether the solution is usable as a reconstruction
// reference. A failed validation is a configuration error: the caller must
// not build a reconstructor from this solution.
func (s *Solution) Validate() error {
	if s.HIP == "" {
		return fmt.Errorf("catalog solution has no HIP identifier")
	}
	fields := map[string]float64{
		"ra":     s.RA,
		"dec":    s.Dec,
		"plx":    s.Plx,
		"pm_ra":  s.PMRA,
		"pm_dec": s.PMDec,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("catalog solution for HIP %s: field %s is not finite", s.HIP, name)
		}
	}
	if s.RA < 0 || s.RA >= 360 {
		return fmt.Errorf("catalog solution for HIP %s: RA %.6f deg out of range", s.HIP, s.RA)
	}
	if s.Dec < -90 || s.Dec > 90 {
		return fmt.Errorf("catalog solution for HIP %s: Dec %.6f deg out of range", s.HIP, s.Dec)
	}
	return nil
}
