// Package solar computes official sunrise and sunset times for a fixed site.
// The calculation is the NOAA low-accuracy solar position algorithm with a
// zenith of 90.833 degrees (atmospheric refraction plus apparent solar
// radius). This package is pure: no I/O, no clock reads; callers supply the
// date and the current time.
package solar

import (
	"math"
	"time"
)

// officialZenith is the solar zenith angle for "official" sunrise/sunset:
// the sun's center 0.833 degrees below the geometric horizon.
const officialZenith = 90.833

// Place holds the fixed site configuration. It is loaded once at startup and
// never mutated.
type Place struct {
	Latitude  float64 // decimal degrees, + is north
	Longitude float64 // decimal degrees, + is east

	// UTC offsets in signed hours, for standard and daylight-saving time.
	// Which one applies is re-evaluated from the wall clock on every call.
	StdOffsetHours int
	DSTOffsetHours int
}

// UTCOffset returns the offset in hours that applies at the given local time.
func (p Place) UTCOffset(now time.Time) int {
	if now.IsDST() {
		return p.DSTOffsetHours
	}
	return p.StdOffsetHours
}

// Times is the raw calculator output: sunrise and sunset as fractional
// minutes after local midnight.
type Times struct {
	RiseMinutes float64
	SetMinutes  float64
}

// Valid reports whether both events exist for the date. Polar day or night
// produces NaN (the hour-angle arccosine has no solution), which fails the
// range check below.
func (t Times) Valid() bool {
	return inDay(t.RiseMinutes) && inDay(t.SetMinutes)
}

func inDay(m float64) bool {
	return m >= 0 && m < 24*60 && !math.IsNaN(m)
}

// Calc computes sunrise and sunset for the given calendar date at the given
// coordinates, expressed as minutes after midnight in the zone described by
// utcOffsetHours. Degenerate results (polar conditions) are returned as-is;
// callers must check Times.Valid.
func Calc(year int, month time.Month, day int, lat, lon float64, utcOffsetHours int) Times {
	jd := julianDay(year, int(month), day)
	t := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	eqTime := equationOfTime(t)
	decl := declination(t)
	ha := hourAngle(lat, decl)

	noon := 720 - 4*lon - eqTime + float64(utcOffsetHours)*60
	return Times{
		RiseMinutes: noon - 4*ha,
		SetMinutes:  noon + 4*ha,
	}
}

// Day holds the computed solar events for one calendar date as absolute
// local-zone instants. It is recomputed from scratch each control tick.
type Day struct {
	Date    time.Time // local midnight of the computed date
	Sunrise time.Time
	Sunset  time.Time
	Valid   bool // false when the sun never rises or never sets
}

// Day computes today's solar events for now's calendar date. Fractional
// minutes are truncated, not rounded, when building the instants.
func (p Place) Day(now time.Time) Day {
	y, m, d := now.Date()
	times := Calc(y, m, d, p.Latitude, p.Longitude, p.UTCOffset(now))

	day := Day{Date: time.Date(y, m, d, 0, 0, 0, 0, now.Location())}
	if !times.Valid() {
		return day
	}
	day.Sunrise = instant(now, times.RiseMinutes)
	day.Sunset = instant(now, times.SetMinutes)
	day.Valid = true
	return day
}

// instant converts minutes-after-midnight to an absolute time on now's date.
func instant(now time.Time, minutes float64) time.Time {
	h := int(minutes) / 60
	m := int(minutes) % 60
	y, mo, d := now.Date()
	return time.Date(y, mo, d, h, m, 0, 0, now.Location())
}

// julianDay returns the Julian day number for 0h UT of the given Gregorian
// calendar date.
func julianDay(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := year / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + float64(b) - 1524.5
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

// geomMeanLongSun returns the sun's geometric mean longitude in degrees.
func geomMeanLongSun(t float64) float64 {
	l := math.Mod(280.46646+t*(36000.76983+0.0003032*t), 360)
	if l < 0 {
		l += 360
	}
	return l
}

// geomMeanAnomalySun returns the sun's geometric mean anomaly in degrees.
func geomMeanAnomalySun(t float64) float64 {
	return 357.52911 + t*(35999.05029-0.0001537*t)
}

// eccentricity returns the eccentricity of Earth's orbit (unitless).
func eccentricity(t float64) float64 {
	return 0.016708634 - t*(0.000042037+0.0000001267*t)
}

// equationOfCenter returns the sun's equation of center in degrees.
func equationOfCenter(t float64) float64 {
	m := rad(geomMeanAnomalySun(t))
	return math.Sin(m)*(1.914602-t*(0.004817+0.000014*t)) +
		math.Sin(2*m)*(0.019993-0.000101*t) +
		math.Sin(3*m)*0.000289
}

// apparentLongSun returns the sun's apparent longitude in degrees, corrected
// for nutation and aberration.
func apparentLongSun(t float64) float64 {
	trueLong := geomMeanLongSun(t) + equationOfCenter(t)
	return trueLong - 0.00569 - 0.00478*math.Sin(rad(125.04-1934.136*t))
}

// obliquityCorrected returns the corrected obliquity of the ecliptic in degrees.
func obliquityCorrected(t float64) float64 {
	mean := 23 + (26+(21.448-t*(46.815+t*(0.00059-t*0.001813)))/60)/60
	return mean + 0.00256*math.Cos(rad(125.04-1934.136*t))
}

// declination returns the sun's declination in degrees.
func declination(t float64) float64 {
	sint := math.Sin(rad(obliquityCorrected(t))) * math.Sin(rad(apparentLongSun(t)))
	return deg(math.Asin(sint))
}

// equationOfTime returns the equation of time in minutes: the difference
// between apparent and mean solar time.
func equationOfTime(t float64) float64 {
	e := eccentricity(t)
	l0 := rad(geomMeanLongSun(t))
	m := rad(geomMeanAnomalySun(t))

	y := math.Tan(rad(obliquityCorrected(t)) / 2)
	y *= y

	etime := y*math.Sin(2*l0) -
		2*e*math.Sin(m) +
		4*e*y*math.Sin(m)*math.Cos(2*l0) -
		0.5*y*y*math.Sin(4*l0) -
		1.25*e*e*math.Sin(2*m)
	return 4 * deg(etime)
}

// hourAngle returns the hour angle of official sunrise in degrees for the
// given latitude and solar declination. NaN when the sun never crosses the
// official zenith on that date (polar day or polar night).
func hourAngle(lat, decl float64) float64 {
	latRad := rad(lat)
	declRad := rad(decl)
	cosH := math.Cos(rad(officialZenith))/(math.Cos(latRad)*math.Cos(declRad)) -
		math.Tan(latRad)*math.Tan(declRad)
	return deg(math.Acos(cosH))
}
