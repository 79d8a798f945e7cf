package geo

import "math"

// EarthRadiusM is the spherical approximation radius used for
// interchange-gap distances.
const EarthRadiusM = 6371000.0

// HaversineDistance returns the great-circle distance between two points
// in meters, using the spherical WGS84 approximation.
func HaversineDistance(p1, p2 Point) float64 {
	lat1 := toRadians(p1.Lat)
	lon1 := toRadians(p1.Lon)
	lat2 := toRadians(p2.Lat)
	lon2 := toRadians(p2.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// Distance returns the WGS84 ellipsoidal distance between two points in
// meters, computed with the iterative inverse formula. Used where meter
// accuracy matters, such as nearby-location radius filtering.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const maxIters = 20
	lat1 = toRadians(lat1)
	lat2 = toRadians(lat2)
	lon1 = toRadians(lon1)
	lon2 = toRadians(lon2)

	const a = 6378137.0    // WGS84 major axis
	const b = 6356752.3142 // WGS84 semi-minor axis
	const f = (a - b) / a
	const aSqMinusBSqOverBSq = (a*a - b*b) / (b * b)

	l := lon2 - lon1
	bigA := 0.0
	u1 := math.Atan((1.0 - f) * math.Tan(lat1))
	u2 := math.Atan((1.0 - f) * math.Tan(lat2))

	cosU1 := math.Cos(u1)
	cosU2 := math.Cos(u2)
	sinU1 := math.Sin(u1)
	sinU2 := math.Sin(u2)
	cosU1cosU2 := cosU1 * cosU2
	sinU1sinU2 := sinU1 * sinU2

	var sigma, deltaSigma, cosSqAlpha, cos2SM, cosSigma, sinSigma, cosLambda, sinLambda float64

	lambda := l // initial guess
	for iter := 0; iter < maxIters; iter++ {
		lambdaOrig := lambda
		cosLambda = math.Cos(lambda)
		sinLambda = math.Sin(lambda)
		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSqSigma := t1*t1 + t2*t2
		sinSigma = math.Sqrt(sinSqSigma)
		cosSigma = sinU1sinU2 + cosU1cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := 0.0
		if sinSigma != 0 {
			sinAlpha = cosU1cosU2 * sinLambda / sinSigma
		}
		cosSqAlpha = 1.0 - sinAlpha*sinAlpha
		cos2SM = 0.0
		if cosSqAlpha != 0 {
			cos2SM = cosSigma - 2.0*sinU1sinU2/cosSqAlpha
		}

		uSquared := cosSqAlpha * aSqMinusBSqOverBSq
		bigA = 1 + (uSquared/16384.0)*
			(4096.0+uSquared*(-768+uSquared*(320.0-175.0*uSquared)))
		bigB := (uSquared / 1024.0) *
			(256.0 + uSquared*(-128.0+uSquared*(74.0-47.0*uSquared)))
		c := (f / 16.0) * cosSqAlpha * (4.0 + f*(4.0-3.0*cosSqAlpha))
		cos2SMSq := cos2SM * cos2SM
		deltaSigma = bigB * sinSigma * (cos2SM + (bigB/4.0)*(cosSigma*(-1.0+2.0*cos2SMSq)-
			(bigB/6.0)*cos2SM*(-3.0+4.0*sinSigma*sinSigma)*(-3.0+4.0*cos2SMSq)))

		lambda = l + ((1.0-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SM+c*cosSigma*(-1.0+2.0*cos2SM*cos2SM))))

		delta := (lambda - lambdaOrig) / lambda
		if math.Abs(delta) < 1.0e-12 {
			break
		}
	}

	return b * bigA * (sigma - deltaSigma)
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
