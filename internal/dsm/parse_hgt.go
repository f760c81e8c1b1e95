package dsm

import (
	"encoding/binary"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelrf/losengine/internal/rferr"
)

const hgtNoData = -32768

var hgtNameRE = regexp.MustCompile(`^([NS])(\d{2})([EW])(\d{3})\.hgt$`)

// hgtSide returns one side length of a square SRTM tile for a given arc-second
// resolution (3 arc-second = 1201, 1 arc-second = 3601).
func hgtSide(byteLen int) (int, bool) {
	switch byteLen {
	case 1201 * 1201 * 2:
		return 1201, true
	case 3601 * 3601 * 2:
		return 3601, true
	default:
		return 0, false
	}
}

// parseHGTFilename extracts the tile's south-west corner (degrees) from
// its filename, e.g. "N32E034.hgt" -> (32, 34).
func parseHGTFilename(name string) (lat, lon float64, err error) {
	base := filepath.Base(name)
	m := hgtNameRE.FindStringSubmatch(base)
	if m == nil {
		return 0, 0, rferr.New(rferr.KindParse, "dsm.parseHGTFilename",
			errParseMsg("bad-format: filename %q does not match [NS]dd[EW]ddd.hgt", base))
	}
	latDeg, _ := strconv.Atoi(m[2])
	lonDeg, _ := strconv.Atoi(m[4])
	if strings.EqualFold(m[1], "S") {
		latDeg = -latDeg
	}
	if strings.EqualFold(m[3], "W") {
		lonDeg = -lonDeg
	}
	return float64(latDeg), float64(lonDeg), nil
}

// parseHGT parses an SRTM HGT elevation tile. filename is used only to
// recover the tile's geographic origin; the sample data comes from r.
func parseHGT(r io.Reader, filename, id, displayName string) (*Layer, error) {
	swLat, swLon, err := parseHGTFilename(filename)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseHGT", err)
	}

	side, ok := hgtSide(len(raw))
	if !ok {
		return nil, rferr.New(rferr.KindParse, "dsm.parseHGT",
			errParseMsg("bad-format: unexpected byte length %d (want 1201^2*2 or 3601^2*2)", len(raw)))
	}

	data := make([]float32, side*side)
	for i := 0; i < side*side; i++ {
		v := int16(binary.BigEndian.Uint16(raw[i*2 : i*2+2]))
		data[i] = float32(v)
	}

	bounds := Bounds{West: swLon, South: swLat, East: swLon + 1, North: swLat + 1}

	layer := &Layer{
		ID:             id,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
		Width:          side,
		Height:         side,
		Data:           data,
		NoDataSentinel: hgtNoData,
		CRS:            "WGS84",
		Format:         "hgt",
	}
	applyBounds(layer, bounds)
	computeMinMax(layer)
	return layer, nil
}
