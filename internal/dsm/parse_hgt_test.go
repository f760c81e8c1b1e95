package dsm

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildHGTBytes(side int, fill func(i int) int16) []byte {
	buf := make([]byte, side*side*2)
	for i := 0; i < side*side; i++ {
		binary.BigEndian.PutUint16(buf[i*2:i*2+2], uint16(fill(i)))
	}
	return buf
}

func TestParseHGTFilename(t *testing.T) {
	cases := []struct {
		name        string
		wantLat     float64
		wantLon     float64
		wantErr     bool
	}{
		{"N32E034.hgt", 32, 34, false},
		{"S10W070.hgt", -10, -70, false},
		{"bogus.hgt", 0, 0, true},
	}
	for _, c := range cases {
		lat, lon, err := parseHGTFilename(c.name)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseHGTFilename(%q) expected error", c.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseHGTFilename(%q) error = %v", c.name, err)
		}
		if lat != c.wantLat || lon != c.wantLon {
			t.Errorf("parseHGTFilename(%q) = (%v,%v), want (%v,%v)", c.name, lat, lon, c.wantLat, c.wantLon)
		}
	}
}

func TestParseHGT3ArcSecond(t *testing.T) {
	raw := buildHGTBytes(1201, func(i int) int16 {
		if i == 500 {
			return -32768
		}
		return int16(i % 100)
	})
	layer, err := parseHGT(bytes.NewReader(raw), "N32E034.hgt", "h1", "hgt test")
	if err != nil {
		t.Fatalf("parseHGT() error = %v", err)
	}
	if layer.Width != 1201 || layer.Height != 1201 {
		t.Errorf("dims = %dx%d, want 1201x1201", layer.Width, layer.Height)
	}
	wantBounds := Bounds{West: 34, South: 32, East: 35, North: 33}
	if layer.WGS84Bounds != wantBounds {
		t.Errorf("WGS84Bounds = %+v, want %+v", layer.WGS84Bounds, wantBounds)
	}
	if layer.NoDataSentinel != -32768 {
		t.Errorf("NoDataSentinel = %v, want -32768", layer.NoDataSentinel)
	}
	if !layer.isNoData(layer.Data[500]) {
		t.Errorf("expected index 500 to read as no-data")
	}
}

func TestParseHGTWrongByteLength(t *testing.T) {
	if _, err := parseHGT(bytes.NewReader(make([]byte, 100)), "N32E034.hgt", "h", "h"); err == nil {
		t.Fatalf("expected error for wrong byte length")
	}
}
