package geodesy

// ICS implements the Projection interface for the legacy Israel
// Cassini-Soldner grid. The spec treats ICS as ITM shifted by
// (-50,000 E, -500,000 N) — exact for the purposes of this repo,
// not a true Cassini-Soldner reprojection.
type ICS struct{}

const (
	icsEastingOffset  = -50_000.0
	icsNorthingOffset = -500_000.0
)

func (ICS) CRS() string { return "ICS" }

func (ICS) FromWGS84(lonDeg, latDeg float64) (easting, northing float64) {
	e, n := ITM{}.FromWGS84(lonDeg, latDeg)
	return e + icsEastingOffset, n + icsNorthingOffset
}

func (ICS) ToWGS84(easting, northing float64) (lon, lat float64) {
	return ITM{}.ToWGS84(easting-icsEastingOffset, northing-icsNorthingOffset)
}
