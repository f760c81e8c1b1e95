package geodesy

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestITMRoundTrip(t *testing.T) {
	// A grid of points spread across Israel's bounding box.
	pts := []struct{ lat, lon float64 }{
		{31.7767, 35.2345}, // Jerusalem
		{32.0853, 34.7818}, // Tel Aviv
		{32.7940, 34.9896}, // Haifa
		{29.5581, 34.9482}, // Eilat
		{33.2043, 35.5702}, // northern border
		{31.0461, 35.3027}, // Dead Sea
	}

	for _, p := range pts {
		e, n := ITM{}.FromWGS84(p.lon, p.lat)
		lon2, lat2 := ITM{}.ToWGS84(e, n)

		distErr := GreatCircleDistance(p.lat, p.lon, lat2, lon2)
		if distErr > 0.01 {
			t.Errorf("ITM round trip (%v,%v): positional error %.4f m exceeds 1 cm", p.lat, p.lon, distErr)
		}
		if !approxEqual(lat2, p.lat, 1e-7) || !approxEqual(lon2, p.lon, 1e-7) {
			t.Errorf("ITM round trip (%v,%v) -> (%v,%v): degree error exceeds 1e-7", p.lat, p.lon, lat2, lon2)
		}
	}
}

func TestICSIsITMShifted(t *testing.T) {
	lat, lon := 32.0853, 34.7818
	eITM, nITM := ITM{}.FromWGS84(lon, lat)
	eICS, nICS := ICS{}.FromWGS84(lon, lat)

	if !approxEqual(eICS, eITM+icsEastingOffset, 1e-6) {
		t.Errorf("ICS easting = %v, want ITM easting %v shifted by %v", eICS, eITM, icsEastingOffset)
	}
	if !approxEqual(nICS, nITM+icsNorthingOffset, 1e-6) {
		t.Errorf("ICS northing = %v, want ITM northing %v shifted by %v", nICS, nITM, icsNorthingOffset)
	}

	lon2, lat2 := ICS{}.ToWGS84(eICS, nICS)
	if !approxEqual(lat2, lat, 1e-7) || !approxEqual(lon2, lon, 1e-7) {
		t.Errorf("ICS round trip mismatch: got (%v,%v), want (%v,%v)", lat2, lon2, lat, lon)
	}
}

func TestDestinationPointAndBearingInverse(t *testing.T) {
	lat1, lon1 := 32.0, 34.8
	bearing := 47.0
	dist := 12_345.0

	lat2, lon2 := DestinationPoint(lat1, lon1, bearing, dist)

	gotDist := GreatCircleDistance(lat1, lon1, lat2, lon2)
	if !approxEqual(gotDist, dist, 1.0) {
		t.Errorf("distance from destination point = %.3f, want %.3f", gotDist, dist)
	}

	gotBearing := InitialBearing(lat1, lon1, lat2, lon2)
	if !approxEqual(gotBearing, bearing, 0.01) {
		t.Errorf("initial bearing = %.4f, want %.4f", gotBearing, bearing)
	}
}

func TestMetresToDegrees(t *testing.T) {
	if got := MetresToDegreesLat(111_320); !approxEqual(got, 1.0, 1e-9) {
		t.Errorf("MetresToDegreesLat(111320) = %v, want 1.0", got)
	}
	lonDeg := MetresToDegreesLon(111_320, 0)
	if !approxEqual(lonDeg, 1.0, 1e-9) {
		t.Errorf("MetresToDegreesLon at equator = %v, want 1.0", lonDeg)
	}
}

func TestNormaliseAzimuth(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0}, {360, 0}, {-10, 350}, {720 + 30, 30}, {-720 - 5, 355},
	}
	for _, c := range cases {
		if got := NormaliseAzimuth(c.in); !approxEqual(got, c.want, 1e-9) {
			t.Errorf("NormaliseAzimuth(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDetectCRS(t *testing.T) {
	cases := []struct {
		name                   string
		w, s, e, n             float64
		want                   string
	}{
		{"wgs84 small box", 34.7, 31.9, 34.9, 32.1, "WGS84"},
		{"itm israel box", 170000, 580000, 200000, 650000, "ITM"},
		{"ics legacy box", 120000, 80000, 150000, 150000, "ICS"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DetectCRS(c.w, c.s, c.e, c.n); got != c.want {
				t.Errorf("DetectCRS(%v,%v,%v,%v) = %q, want %q", c.w, c.s, c.e, c.n, got, c.want)
			}
		})
	}
}
