package geodesy

import "math"

// ITM implements the Projection interface for Israel Transverse Mercator
// (EPSG:2039), using the Snyder/USGS transverse-Mercator series on the
// GRS80 ellipsoid. Round-trip error is below 1 cm inside Israel.
type ITM struct{}

func (ITM) CRS() string { return "ITM" }

const (
	itmE0   = 219_529.584
	itmN0   = 626_907.390
	itmK0   = 1.0000067
	itmLat0 = 31.73439361 * degToRad
	itmLon0 = 35.20451694 * degToRad

	grs80A  = 6_378_137.0
	grs80Rf = 298.257222101
)

var (
	grs80F  = 1 / grs80Rf
	grs80E2 = 2*grs80F - grs80F*grs80F
)

// meridianArc returns the true meridional arc length from the equator
// to latitude phi (radians), GRS80 ellipsoid, four-term series (phi,
// sin 2phi, sin 4phi, sin 6phi) with coefficients through e^6; higher-order
// terms are not included.
func meridianArc(phi float64) float64 {
	e2 := grs80E2
	e4 := e2 * e2
	e6 := e4 * e2

	return grs80A * (
		(1-e2/4-3*e4/64-5*e6/256)*phi -
			(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
			(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
			(35*e6/3072)*math.Sin(6*phi))
}

// FromWGS84 converts WGS84 (lon, lat) degrees to ITM (easting, northing) metres.
func (ITM) FromWGS84(lonDeg, latDeg float64) (easting, northing float64) {
	phi := clampLat(latDeg) * degToRad
	lambda := lonDeg * degToRad

	e2 := grs80E2
	ep2 := e2 / (1 - e2) // e'^2

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := math.Tan(phi)

	T := tanPhi * tanPhi
	C := ep2 * cosPhi * cosPhi
	N := grs80A / math.Sqrt(1-e2*sinPhi*sinPhi)
	A := (lambda - itmLon0) * cosPhi

	A2, A3, A4, A5 := A*A, A*A*A, A*A*A*A, A*A*A*A*A
	A6 := A5 * A

	M := meridianArc(phi)
	M0 := meridianArc(itmLat0)

	x := itmE0 + itmK0*N*(A+(1-T+C)*A3/6+(5-18*T+T*T+72*C-58*ep2)*A5/120)
	y := itmN0 + itmK0*(M-M0+N*tanPhi*(A2/2+(5-T+9*C+4*C*C)*A4/24+(61-58*T+T*T+600*C-330*ep2)*A6/720))

	return x, y
}

// ToWGS84 converts ITM (easting, northing) metres to WGS84 (lon, lat) degrees.
func (ITM) ToWGS84(easting, northing float64) (lon, lat float64) {
	e2 := grs80E2
	ep2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	M0 := meridianArc(itmLat0)
	M := M0 + (northing-itmN0)/itmK0

	mu := M / (grs80A * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1_2, e1_3, e1_4 := e1*e1, e1*e1*e1, e1*e1*e1*e1

	phi1 := mu +
		(3*e1/2-27*e1_3/32)*math.Sin(2*mu) +
		(21*e1_2/16-55*e1_4/32)*math.Sin(4*mu) +
		(151*e1_3/96)*math.Sin(6*mu) +
		(1097*e1_4/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sin(phi1), math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	C1 := ep2 * cosPhi1 * cosPhi1
	T1 := tanPhi1 * tanPhi1
	N1 := grs80A / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	R1 := grs80A * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)

	D := (easting - itmE0) / (N1 * itmK0)
	D2, D3, D4, D5, D6 := D*D, D*D*D, D*D*D*D, D*D*D*D*D, D*D*D*D*D*D

	phi := phi1 - (N1*tanPhi1/R1)*(D2/2-
		(5+3*T1+10*C1-4*C1*C1-9*ep2)*D4/24+
		(61+90*T1+298*C1+45*T1*T1-252*ep2-3*C1*C1)*D6/720)

	lambda := itmLon0 + (D-
		(1+2*T1+C1)*D3/6+
		(5-2*C1+28*T1-3*C1*C1+8*ep2+24*T1*T1)*D5/120)/cosPhi1

	return lambda * radToDeg, phi * radToDeg
}
