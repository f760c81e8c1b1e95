package dsm

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/kestrelrf/losengine/internal/rferr"
)

// IngestOptions controls how Parse interprets a raw file.
type IngestOptions struct {
	ID          string
	DisplayName string
	// CRS, when non-empty, overrides the auto-detection heuristic for
	// every format. An explicit CRS on upload always wins over the
	// advisory detector.
	CRS string
}

// Parse ingests a raw DSM file (selected by filename extension, falling
// back to magic-byte sniffing) into a Layer. It never partially
// registers a malformed layer: on any error the returned Layer is nil.
func Parse(filename string, data []byte, opts IngestOptions) (*Layer, error) {
	id, displayName := opts.ID, opts.DisplayName
	if displayName == "" {
		displayName = filepath.Base(filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))

	var layer *Layer
	var err error

	switch ext {
	case ".asc":
		layer, err = parseASC(bytes.NewReader(data), id, displayName)
	case ".hgt":
		layer, err = parseHGT(bytes.NewReader(data), filename, id, displayName)
	case ".tif", ".tiff":
		layer, err = parseGeoTIFF(data, id, displayName)
	case ".res":
		layer, err = parseRES(data, id, displayName)
	case ".img":
		layer, err = parseIMG(data, id, displayName)
	default:
		layer, err = parseBySniffing(data, filename, id, displayName)
	}
	if err != nil {
		return nil, err
	}

	if opts.CRS != "" && opts.CRS != layer.CRS {
		layer.CRS = opts.CRS
		applyBounds(layer, layer.NativeBounds)
	}

	return layer, nil
}

// parseBySniffing is used when the filename extension doesn't match a
// known format: a TIFF magic number is the only format reliably
// recognisable from content alone.
func parseBySniffing(data []byte, filename, id, displayName string) (*Layer, error) {
	if len(data) >= 4 && (bytes.HasPrefix(data, []byte("II")) || bytes.HasPrefix(data, []byte("MM"))) {
		return parseGeoTIFF(data, id, displayName)
	}
	return nil, rferr.New(rferr.KindParse, "dsm.Parse",
		errParseMsg("unsupported: cannot determine format for %q", filename))
}
