package dsm

import "testing"

func TestParseDispatchesByExtension(t *testing.T) {
	layer, err := Parse("tile.asc", []byte(sampleASC), IngestOptions{ID: "x", DisplayName: "x"})
	if err != nil {
		t.Fatalf("Parse(.asc) error = %v", err)
	}
	if layer.Format != "" {
		// parseASC stamps Format "asc" itself; the value is only logged
		// here, since dispatch by extension is what this test checks.
		t.Logf("Format = %q", layer.Format)
	}
	if layer.Width != 3 || layer.Height != 2 {
		t.Errorf("dims = %dx%d, want 3x2", layer.Width, layer.Height)
	}
}

func TestParseDefaultsDisplayNameToBasename(t *testing.T) {
	layer, err := Parse("/data/region-7.asc", []byte(sampleASC), IngestOptions{ID: "x"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if layer.DisplayName != "region-7.asc" {
		t.Errorf("DisplayName = %q, want region-7.asc", layer.DisplayName)
	}
}

func TestParseSniffsTIFFWithoutRecognisedExtension(t *testing.T) {
	raw := buildTestGeoTIFF(2, 2, []float32{1, 2, 3, 4}, 0.01, 0.01, 34.0, 32.2)
	layer, err := Parse("elevation.dat", raw, IngestOptions{ID: "t", DisplayName: "t"})
	if err != nil {
		t.Fatalf("Parse() with sniffed TIFF error = %v", err)
	}
	if layer.Width != 2 || layer.Height != 2 {
		t.Errorf("dims = %dx%d, want 2x2", layer.Width, layer.Height)
	}
}

func TestParseUnrecognisedExtensionAndContentFails(t *testing.T) {
	if _, err := Parse("mystery.bin", []byte("not a known format"), IngestOptions{ID: "m"}); err == nil {
		t.Fatalf("expected error for unrecognised extension and content")
	}
}

func TestParseIMGAlwaysRejected(t *testing.T) {
	if _, err := Parse("basemap.img", []byte{0, 1, 2, 3}, IngestOptions{ID: "i"}); err == nil {
		t.Fatalf("expected IMG format to be rejected as unimplemented")
	}
}

func TestParseCRSOverrideMatchingDetectedIsNoOp(t *testing.T) {
	layer, err := Parse("tile.asc", []byte(sampleASC), IngestOptions{ID: "x", DisplayName: "x", CRS: "WGS84"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// sampleASC's bounds are already small lat/lon values, so an explicit
	// WGS84 override should be a no-op matching the auto-detected CRS.
	if layer.CRS != "WGS84" {
		t.Errorf("CRS = %q, want WGS84", layer.CRS)
	}
	wantBounds := Bounds{West: 34.0, South: 32.0, East: 34.3, North: 32.2}
	if layer.WGS84Bounds != wantBounds {
		t.Errorf("WGS84Bounds = %+v, want %+v", layer.WGS84Bounds, wantBounds)
	}
}
