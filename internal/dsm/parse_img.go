package dsm

import "github.com/kestrelrf/losengine/internal/rferr"

// parseIMG always rejects: IMG (ERDAS Imagine) is not implemented. The
// caller is expected to surface the recommendation to convert the file
// to GeoTIFF first.
func parseIMG(_ []byte, _, _ string) (*Layer, error) {
	return nil, rferr.New(rferr.KindParse, "dsm.parseIMG",
		errParseMsg("unsupported: IMG format is not implemented, convert to GeoTIFF first"))
}
