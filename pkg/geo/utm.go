package geo

import "math"

// WGS84 transverse Mercator, UTM zone 17N (EPSG:32617). Series terms follow
// Krüger's expansion to n^3, good to well under a metre inside the zone.
const (
	wgs84A        = 6378137.0
	wgs84F        = 1 / 298.257223563
	utmK0         = 0.9996
	utmFalseEast  = 500000.0
	zone17Central = -81.0
)

var (
	tmN     = wgs84F / (2 - wgs84F)
	tmA     = wgs84A / (1 + tmN) * (1 + tmN*tmN/4 + tmN*tmN*tmN*tmN/64)
	tmAlpha = [3]float64{
		tmN/2 - 2*tmN*tmN/3 + 5*tmN*tmN*tmN/16,
		13*tmN*tmN/48 - 3*tmN*tmN*tmN/5,
		61 * tmN * tmN * tmN / 240,
	}
	tmBeta = [3]float64{
		tmN/2 - 2*tmN*tmN/3 + 37*tmN*tmN*tmN/96,
		tmN*tmN/48 + tmN*tmN*tmN/15,
		17 * tmN * tmN * tmN / 480,
	}
	tmDelta = [3]float64{
		2*tmN - 2*tmN*tmN/3 - 2*tmN*tmN*tmN,
		7*tmN*tmN/3 - 8*tmN*tmN*tmN/5,
		56 * tmN * tmN * tmN / 15,
	}
)

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

// ToUTM17N projects WGS84 lon/lat degrees to zone 17N easting/northing metres.
func ToUTM17N(lon, lat float64) (easting, northing float64) {
	phi := rad(lat)
	dl := rad(lon - zone17Central)

	c := 2 * math.Sqrt(tmN) / (1 + tmN)
	t := math.Sinh(math.Atanh(math.Sin(phi)) - c*math.Atanh(c*math.Sin(phi)))
	xi := math.Atan2(t, math.Cos(dl))
	eta := math.Atanh(math.Sin(dl) / math.Sqrt(1+t*t))

	e, n := eta, xi
	for j := 1; j <= 3; j++ {
		a := tmAlpha[j-1]
		fj := float64(2 * j)
		e += a * math.Cos(fj*xi) * math.Sinh(fj*eta)
		n += a * math.Sin(fj*xi) * math.Cosh(fj*eta)
	}
	return utmFalseEast + utmK0*tmA*e, utmK0 * tmA * n
}

// FromUTM17N is the inverse of ToUTM17N.
func FromUTM17N(easting, northing float64) (lon, lat float64) {
	xi := northing / (utmK0 * tmA)
	eta := (easting - utmFalseEast) / (utmK0 * tmA)

	xiP, etaP := xi, eta
	for j := 1; j <= 3; j++ {
		b := tmBeta[j-1]
		fj := float64(2 * j)
		xiP -= b * math.Sin(fj*xi) * math.Cosh(fj*eta)
		etaP -= b * math.Cos(fj*xi) * math.Sinh(fj*eta)
	}

	chi := math.Asin(math.Sin(xiP) / math.Cosh(etaP))
	phi := chi
	for j := 1; j <= 3; j++ {
		phi += tmDelta[j-1] * math.Sin(float64(2*j)*chi)
	}
	return zone17Central + deg(math.Atan2(math.Sinh(etaP), math.Cos(xiP))), deg(phi)
}
