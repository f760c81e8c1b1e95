package dsm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelrf/losengine/internal/rferr"
)

const defaultASCNoData = -9999

// ascHeaderKeys is the recognised (case-insensitive) header key set.
var ascHeaderKeys = map[string]bool{
	"ncols": true, "nrows": true,
	"xllcorner": true, "xllcenter": true,
	"yllcorner": true, "yllcenter": true,
	"cellsize": true, "nodata_value": true,
}

type ascHeader struct {
	ncols, nrows       int
	xll, yll, cellsize float64
	nodata             float64
	nodataSeen         bool
}

// parseASC parses an ESRI ASCII grid (.asc) text stream into a Layer.
// Header keys are case-insensitive; xllcenter is treated identically to
// xllcorner — no half-cell offset is applied (see DESIGN.md decision 1).
func parseASC(r io.Reader, id, displayName string) (*Layer, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	header := ascHeader{nodata: defaultASCNoData}
	var leftoverTokens []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])

		if !ascHeaderKeys[key] {
			// First non-header line: the sample block has begun.
			leftoverTokens = fields
			break
		}
		if len(fields) < 2 {
			return nil, rferr.New(rferr.KindParse, "dsm.parseASC", errParseMsg("bad-format: malformed header line %q", line))
		}
		val := fields[1]

		var err error
		switch key {
		case "ncols":
			header.ncols, err = strconv.Atoi(val)
		case "nrows":
			header.nrows, err = strconv.Atoi(val)
		case "xllcorner", "xllcenter":
			header.xll, err = strconv.ParseFloat(val, 64)
		case "yllcorner", "yllcenter":
			header.yll, err = strconv.ParseFloat(val, 64)
		case "cellsize":
			header.cellsize, err = strconv.ParseFloat(val, 64)
		case "nodata_value":
			header.nodata, err = strconv.ParseFloat(val, 64)
			header.nodataSeen = true
		}
		if err != nil {
			return nil, rferr.New(rferr.KindParse, "dsm.parseASC", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseASC", err)
	}

	if header.ncols <= 0 || header.nrows <= 0 || header.cellsize <= 0 {
		return nil, rferr.New(rferr.KindParse, "dsm.parseASC", errParseMsg("bad-format: missing or non-positive ncols/nrows/cellsize"))
	}

	data := make([]float32, header.ncols*header.nrows)
	idx := 0
	appendTokens := func(tokens []string) error {
		for _, tok := range tokens {
			if idx >= len(data) {
				return rferr.New(rferr.KindParse, "dsm.parseASC", errParseMsg("bad-format: more samples than ncols*nrows"))
			}
			f, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return rferr.New(rferr.KindParse, "dsm.parseASC", err)
			}
			data[idx] = float32(f)
			idx++
		}
		return nil
	}

	if err := appendTokens(leftoverTokens); err != nil {
		return nil, err
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := appendTokens(strings.Fields(line)); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseASC", err)
	}
	if idx != len(data) {
		return nil, rferr.New(rferr.KindParse, "dsm.parseASC", errParseMsg("truncated: expected %d samples, got %d", len(data), idx))
	}

	west := header.xll
	south := header.yll
	east := west + float64(header.ncols)*header.cellsize
	north := south + float64(header.nrows)*header.cellsize

	bounds := Bounds{West: west, South: south, East: east, North: north}
	crs := geodesyDetectCRS(bounds)

	layer := &Layer{
		ID:             id,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
		Width:          header.ncols,
		Height:         header.nrows,
		Data:           data,
		NoDataSentinel: float32(header.nodata),
		CRS:            crs,
		Format:         "asc",
	}
	applyBounds(layer, bounds)
	computeMinMax(layer)
	return layer, nil
}
