// Package kepler evaluates the on-sky position of a two-body companion from
// Keplerian elements, following the orbitize parameter conventions.
package kepler

import "math"

// TauRefEpoch is the MJD from which tau, the periastron epoch expressed as a
// fraction of the orbital period, is counted.
const TauRefEpoch = 58849.0

// daysPerYear converts the Kepler-third-law period to days.
const daysPerYear = 365.25

// Elements are the orbitize-convention elements of the companion's orbit
// about the system barycenter.
type Elements struct {
	SMA  float64 // semimajor axis of the relative orbit [AU]
	Ecc  float64 // eccentricity
	Inc  float64 // inclination [rad]
	AOP  float64 // argument of periastron of the companion [rad]
	PAN  float64 // position angle of nodes [rad]
	Tau  float64 // periastron epoch as a fraction of the period past TauRefEpoch
	Plx  float64 // system parallax [mas]
	MTot float64 // total system mass [Msun]
}

// RADecOffset returns the companion's angular offset from the system
// barycenter at the given epoch, in mas: raoff toward increasing RA*cos(Dec),
// decoff toward increasing Dec.
func RADecOffset(mjd float64, el Elements) (raoff, decoff float64) {
	// Kepler's third law with sma in AU and mass in Msun gives the period
	// in years.
	period := daysPerYear * math.Sqrt(el.SMA*el.SMA*el.SMA/el.MTot)

	meanAnom := 2 * math.Pi * ((mjd-TauRefEpoch)/period - el.Tau)
	meanAnom = math.Mod(meanAnom, 2*math.Pi)
	if meanAnom < 0 {
		meanAnom += 2 * math.Pi
	}

	E := solveKepler(meanAnom, el.Ecc)

	// True anomaly from eccentric anomaly.
	nu := 2 * math.Atan2(
		math.Sqrt(1+el.Ecc)*math.Sin(E/2),
		math.Sqrt(1-el.Ecc)*math.Cos(E/2),
	)

	// Separation from the focus, scaled from AU to mas by the parallax.
	r := el.SMA * (1 - el.Ecc*math.Cos(E)) * el.Plx

	c2i2 := math.Cos(el.Inc / 2)
	c2i2 *= c2i2
	s2i2 := 1 - c2i2

	arg1 := nu + el.AOP + el.PAN
	arg2 := nu + el.AOP - el.PAN

	raoff = r * (c2i2*math.Sin(arg1) - s2i2*math.Sin(arg2))
	decoff = r * (c2i2*math.Cos(arg1) + s2i2*math.Cos(arg2))
	return raoff, decoff
}

// solveKepler solves Kepler's equation M = E - e*sin(E) for E by
// Newton-Raphson iteration.
func solveKepler(meanAnom, ecc float64) float64 {
	E := meanAnom
	if ecc > 0.8 {
		// Better initial guess for high eccentricity.
		E = math.Pi
	}

	const tolerance = 1e-10
	const maxIterations = 50

	for i := 0; i < maxIterations; i++ {
		f := E - ecc*math.Sin(E) - meanAnom
		fp := 1 - ecc*math.Cos(E)

		deltaE := f / fp
		E -= deltaE

		if math.Abs(deltaE) < tolerance {
			break
		}
	}

	return E
}
