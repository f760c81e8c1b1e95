package dsm

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/kestrelrf/losengine/internal/rferr"
)

// israelCentreLat/Lon anchor the headerless-square-grid fallback; RES
// files without any readable header are historically always Israel
// coverage, so a 2x2 degree box centred on the country is the best
// available guess.
const (
	israelCentreLat = 31.5
	israelCentreLon = 34.75
	israelBoxDegrees = 2.0
)

// parseRES implements the RES fallback chain: ASCII-first, then a
// binary header attempt, then a narrower binary header attempt with a
// float32 cellsize, then a headerless square-grid guess.
func parseRES(raw []byte, id, displayName string) (*Layer, error) {
	if layer, err := parseASC(bytes.NewReader(raw), id, displayName); err == nil {
		layer.Format = "res"
		return layer, nil
	}

	if layer, err := parseRESBinaryHeader(raw, id, displayName, false); err == nil {
		return layer, nil
	}
	if layer, err := parseRESBinaryHeader(raw, id, displayName, true); err == nil {
		return layer, nil
	}
	if layer, err := parseRESHeaderless(raw, id, displayName); err == nil {
		return layer, nil
	}

	return nil, rferr.New(rferr.KindParse, "dsm.parseRES",
		errParseMsg("unsupported: no RES parsing strategy matched %d input bytes", len(raw)))
}

// parseRESBinaryHeader attempts the [int32 ncols, int32 nrows, float64
// xll, float64 yll, {float64|float32} cellsize] header.
func parseRESBinaryHeader(raw []byte, id, displayName string, narrowCellsize bool) (*Layer, error) {
	headerSize := 32
	if narrowCellsize {
		headerSize = 28
	}
	if len(raw) < headerSize {
		return nil, rferr.New(rferr.KindParse, "dsm.parseRESBinaryHeader", errParseMsg("truncated: shorter than header"))
	}

	ncols := int(int32(binary.LittleEndian.Uint32(raw[0:4])))
	nrows := int(int32(binary.LittleEndian.Uint32(raw[4:8])))
	xll := math.Float64frombits(binary.LittleEndian.Uint64(raw[8:16]))
	yll := math.Float64frombits(binary.LittleEndian.Uint64(raw[16:24]))

	var cellsize float64
	if narrowCellsize {
		cellsize = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[24:28])))
	} else {
		cellsize = math.Float64frombits(binary.LittleEndian.Uint64(raw[24:32]))
	}

	if ncols <= 0 || nrows <= 0 || cellsize <= 0 || cellsize > 1000 {
		return nil, rferr.New(rferr.KindParse, "dsm.parseRESBinaryHeader",
			errParseMsg("bad-format: implausible header (ncols=%d nrows=%d cellsize=%v)", ncols, nrows, cellsize))
	}

	body := raw[headerSize:]
	wantBytes := ncols * nrows * 4
	if len(body) != wantBytes {
		return nil, rferr.New(rferr.KindParse, "dsm.parseRESBinaryHeader",
			errParseMsg("truncated: expected %d body bytes, got %d", wantBytes, len(body)))
	}

	data := make([]float32, ncols*nrows)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4 : i*4+4]))
	}

	west := xll
	south := yll
	east := west + float64(ncols)*cellsize
	north := south + float64(nrows)*cellsize
	bounds := Bounds{West: west, South: south, East: east, North: north}

	layer := &Layer{
		ID:             id,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
		Width:          ncols,
		Height:         nrows,
		Data:           data,
		NoDataSentinel: defaultASCNoData,
		CRS:            geodesyDetectCRS(bounds),
		Format:         "res",
	}
	applyBounds(layer, bounds)
	computeMinMax(layer)
	return layer, nil
}

// parseRESHeaderless assumes raw is a bare row-major float32 grid whose
// sample count is a perfect square, with no geodetic metadata at all.
func parseRESHeaderless(raw []byte, id, displayName string) (*Layer, error) {
	if len(raw)%4 != 0 {
		return nil, rferr.New(rferr.KindParse, "dsm.parseRESHeaderless",
			errParseMsg("bad-format: byte count %d is not a multiple of 4", len(raw)))
	}
	n := len(raw) / 4
	side := int(math.Sqrt(float64(n)))
	if side*side != n {
		return nil, rferr.New(rferr.KindParse, "dsm.parseRESHeaderless",
			errParseMsg("bad-format: sample count %d is not a perfect square", n))
	}

	data := make([]float32, n)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
	}

	half := israelBoxDegrees / 2
	bounds := Bounds{
		West:  israelCentreLon - half,
		East:  israelCentreLon + half,
		South: israelCentreLat - half,
		North: israelCentreLat + half,
	}

	layer := &Layer{
		ID:             id,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
		Width:          side,
		Height:         side,
		Data:           data,
		NoDataSentinel: defaultASCNoData,
		CRS:            "WGS84",
		Format:         "res",
	}
	applyBounds(layer, bounds)
	computeMinMax(layer)
	return layer, nil
}
