// Package iad loads Hipparcos Intermediate Astrometric Data: the per-scan
// abscissa residuals and scan directions that the likelihood evaluator
// scores candidate orbits against.
package iad

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/orbitfit/hipiad/pkg/catalog"
)

// scanUnitTol bounds |cos²φ + sin²φ − 1| for a scan direction to count as a
// unit vector. IAD files carry five significant digits.
const scanUnitTol = 1e-3

// Observation is one astrometric scan of the target.
type Observation struct {
	Epoch    float64 // decimal year
	EpochMJD float64 // modified Julian day
	CosPhi   float64 // scan-direction components, cos²+sin²=1
	SinPhi   float64
	Resid    float64 // abscissa residual [mas]
	ResidErr float64 // residual uncertainty [mas], > 0
}

// ObservationSet is the ordered sequence of scans for one star. It is
// immutable after Parse.
type ObservationSet struct {
	obs []Observation
}

// Len returns the number of scans.
func (s *ObservationSet) Len() int { return len(s.obs) }

// At returns the i-th scan.
func (s *ObservationSet) At(i int) Observation { return s.obs[i] }

// Epochs returns a copy of the decimal-year epochs.
func (s *ObservationSet) Epochs() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Epoch
	}
	return out
}

// EpochsMJD returns a copy of the MJD epochs.
func (s *ObservationSet) EpochsMJD() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.EpochMJD
	}
	return out
}

// Parse reads a whitespace-delimited IAD table. Row 0 is a header and is
// skipped. Columns, by position: [unused, time offset from 1991.25 in years,
// unused, cos(scan angle), sin(scan angle), abscissa residual in mas,
// residual error in mas, ...]; trailing columns are ignored.
func Parse(r io.Reader) (*ObservationSet, error) {
	scanner := bufio.NewScanner(r)
	var obs []Observation
	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		row++
		if row == 1 || line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 7 {
			return nil, fmt.Errorf("IAD row %d has %d columns, want at least 7", row, len(fields))
		}

		vals := make([]float64, 7)
		for i := 1; i < 7; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("IAD row %d column %d: %w", row, i, err)
			}
			vals[i] = v
		}

		o := Observation{
			Epoch:    catalog.RefEpoch + vals[1],
			CosPhi:   vals[3],
			SinPhi:   vals[4],
			Resid:    vals[5],
			ResidErr: vals[6],
		}
		o.EpochMJD = DecimalYearToMJD(o.Epoch)

		if norm := o.CosPhi*o.CosPhi + o.SinPhi*o.SinPhi; math.Abs(norm-1) > scanUnitTol {
			return nil, fmt.Errorf("IAD row %d: scan direction (%.5f, %.5f) is not a unit vector", row, o.CosPhi, o.SinPhi)
		}
		if o.ResidErr <= 0 {
			return nil, fmt.Errorf("IAD row %d: residual error %.5f must be positive", row, o.ResidErr)
		}

		obs = append(obs, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read IAD table: %w", err)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("IAD table contains no scans")
	}
	return &ObservationSet{obs: obs}, nil
}

// LoadFile reads the IAD for one star from the conventional directory
// layout: dir/H{first 3 digits}/HIP{number}.d.
func LoadFile(dir, hip string) (*ObservationSet, error) {
	if len(hip) < 3 {
		return nil, fmt.Errorf("HIP number %q too short for IAD path scheme", hip)
	}
	path := filepath.Join(dir, "H"+hip[:3], "HIP"+hip+".d")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open IAD file: %w", err)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// DecimalYearToMJD converts a calendar decimal year to a modified Julian
// day, interpolating between the Julian dates of consecutive January 1sts.
func DecimalYearToMJD(year float64) float64 {
	y := int(math.Floor(year))
	frac := year - math.Floor(year)
	jd0 := julian.CalendarGregorianToJD(y, 1, 1)
	jd1 := julian.CalendarGregorianToJD(y+1, 1, 1)
	return jd0 + frac*(jd1-jd0) - 2400000.5
}
