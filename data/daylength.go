package data

import "math"

// DaylengthHours calculates the photoperiod in hours for a day of year at a
// given latitude in degrees. Negative day-of-year values (days before Jan 1
// in the previous calendar year) are wrapped back into 1..365.
func DaylengthHours(doy, latitude float64) float64 {
	if doy < 1 {
		doy += 365
	}

	lat := (math.Pi / 180) * latitude

	// Correct for winter solstice.
	doy += 11

	// Earth's ecliptic.
	j := math.Pi / 182.625
	axis := (math.Pi / 180) * 23.439

	m := 1 - math.Tan(lat)*math.Tan(axis*math.Cos(j*doy))

	// Sun never appears or disappears.
	m = math.Max(m, 0)
	m = math.Min(m, 2)

	// Exposed fraction of the sun's circle, scaled to hours.
	return math.Acos(1-m) / math.Pi * 24
}
