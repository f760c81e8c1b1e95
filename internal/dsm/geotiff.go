package dsm

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelrf/losengine/internal/rferr"
)

// parseGeoTIFF parses a single-band, 32-bit float or integer GeoTIFF into
// a Layer. Strip- and tile-organised files are both supported; only
// compressions None(1)/LZW(5)/Deflate(8, 32946) are recognised.
func parseGeoTIFF(raw []byte, id, displayName string) (*Layer, error) {
	ifds, bo, err := parseTIFF(bytes.NewReader(raw))
	if err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF", err)
	}
	if len(ifds) == 0 {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF", errParseMsg("bad-format: no IFDs found"))
	}
	ifd := ifds[0]

	if ifd.SamplesPerPixel != 1 {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF",
			errParseMsg("unsupported: %d samples per pixel, want single-band", ifd.SamplesPerPixel))
	}
	if ifd.Width == 0 || ifd.Height == 0 {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF", errParseMsg("bad-format: zero-sized raster"))
	}

	planeBytes, err := decodePlane(raw, &ifd)
	if err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF", err)
	}

	data, err := samplesToFloat32(planeBytes, &ifd, bo)
	if err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF", err)
	}
	if len(data) != int(ifd.Width)*int(ifd.Height) {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF",
			errParseMsg("truncated: decoded %d samples, want %d", len(data), int(ifd.Width)*int(ifd.Height)))
	}

	bounds, err := geoInfoBounds(&ifd)
	if err != nil {
		return nil, rferr.New(rferr.KindParse, "dsm.parseGeoTIFF", err)
	}

	noData := float32(-9999)
	if ifd.NoDataASCII != "" {
		if f, parseErr := parseASCIIFloat(ifd.NoDataASCII); parseErr == nil {
			noData = f
		}
	}

	layer := &Layer{
		ID:             id,
		DisplayName:    displayName,
		CreatedAt:      time.Now(),
		Width:          int(ifd.Width),
		Height:         int(ifd.Height),
		Data:           data,
		NoDataSentinel: noData,
		CRS:            geodesyDetectCRS(bounds),
		Format:         "geotiff",
	}
	applyBounds(layer, bounds)
	computeMinMax(layer)
	return layer, nil
}

// geoInfoBounds derives the native-CRS bounding box from ModelTiepoint +
// ModelPixelScale via standard tiepoint-to-origin arithmetic.
func geoInfoBounds(ifd *tiffIFD) (Bounds, error) {
	if len(ifd.ModelPixelScale) < 2 || len(ifd.ModelTiepoint) < 6 {
		return Bounds{}, errParseMsg("bad-format: missing ModelPixelScale/ModelTiepoint geokeys")
	}
	pixelSizeX := ifd.ModelPixelScale[0]
	pixelSizeY := ifd.ModelPixelScale[1]

	originX := ifd.ModelTiepoint[3] - ifd.ModelTiepoint[0]*pixelSizeX
	originY := ifd.ModelTiepoint[4] + ifd.ModelTiepoint[1]*pixelSizeY

	west := originX
	north := originY
	east := west + float64(ifd.Width)*pixelSizeX
	south := north - float64(ifd.Height)*pixelSizeY

	return Bounds{West: west, South: south, East: east, North: north}, nil
}

func parseASCIIFloat(s string) (float32, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "\x00")
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

// decodePlane returns the single image plane's raw decompressed bytes,
// row-major, with the horizontal-differencing predictor already undone.
func decodePlane(raw []byte, ifd *tiffIFD) ([]byte, error) {
	bytesPerSample := bitsToBytes(ifd)

	if len(ifd.TileOffsets) > 0 {
		return decodeTiles(raw, ifd, bytesPerSample)
	}
	return decodeStrips(raw, ifd, bytesPerSample)
}

func bitsToBytes(ifd *tiffIFD) int {
	if len(ifd.BitsPerSample) == 0 {
		return 4
	}
	return int(ifd.BitsPerSample[0]+7) / 8
}

func decodeStrips(raw []byte, ifd *tiffIFD, bytesPerSample int) ([]byte, error) {
	if len(ifd.StripOffsets) == 0 {
		return nil, errParseMsg("bad-format: no strip or tile offsets present")
	}

	var out []byte
	for s := range ifd.StripOffsets {
		offset := ifd.StripOffsets[s]
		size := uint64(0)
		if s < len(ifd.StripByteCounts) {
			size = ifd.StripByteCounts[s]
		}
		if size == 0 {
			continue
		}
		end := offset + size
		if end > uint64(len(raw)) {
			return nil, errParseMsg("truncated: strip %d data exceeds file size", s)
		}
		chunk, err := decompressChunk(raw[offset:end], ifd.Compression)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}

	if ifd.Predictor == 2 {
		undoHorizontalDifferencing(out, int(ifd.Width), int(ifd.SamplesPerPixel), bytesPerSample)
	}
	return out, nil
}

func decodeTiles(raw []byte, ifd *tiffIFD, bytesPerSample int) ([]byte, error) {
	if ifd.TileWidth == 0 || ifd.TileHeight == 0 {
		return nil, errParseMsg("bad-format: tile offsets present without tile dimensions")
	}
	tilesAcross := int((ifd.Width + ifd.TileWidth - 1) / ifd.TileWidth)
	tilesDown := int((ifd.Height + ifd.TileHeight - 1) / ifd.TileHeight)

	rowBytes := int(ifd.Width) * bytesPerSample
	out := make([]byte, rowBytes*int(ifd.Height))

	tileRowBytes := int(ifd.TileWidth) * bytesPerSample

	for ty := 0; ty < tilesDown; ty++ {
		for tx := 0; tx < tilesAcross; tx++ {
			idx := ty*tilesAcross + tx
			if idx >= len(ifd.TileOffsets) {
				continue
			}
			offset := ifd.TileOffsets[idx]
			size := uint64(0)
			if idx < len(ifd.TileByteCounts) {
				size = ifd.TileByteCounts[idx]
			}
			if size == 0 {
				continue
			}
			end := offset + size
			if end > uint64(len(raw)) {
				return nil, errParseMsg("truncated: tile %d data exceeds file size", idx)
			}
			tile, err := decompressChunk(raw[offset:end], ifd.Compression)
			if err != nil {
				return nil, err
			}
			if ifd.Predictor == 2 {
				undoHorizontalDifferencing(tile, int(ifd.TileWidth), int(ifd.SamplesPerPixel), bytesPerSample)
			}

			for row := 0; row < int(ifd.TileHeight); row++ {
				destY := ty*int(ifd.TileHeight) + row
				if destY >= int(ifd.Height) {
					break
				}
				srcOff := row * tileRowBytes
				if srcOff+tileRowBytes > len(tile) {
					break
				}
				destX := tx * int(ifd.TileWidth)
				destOff := destY*rowBytes + destX*bytesPerSample
				copyWidth := tileRowBytes
				if destX*bytesPerSample+copyWidth > rowBytes {
					copyWidth = rowBytes - destX*bytesPerSample
				}
				copy(out[destOff:destOff+copyWidth], tile[srcOff:srcOff+copyWidth])
			}
		}
	}
	return out, nil
}

func decompressChunk(chunk []byte, compression uint16) ([]byte, error) {
	switch compression {
	case 0, 1:
		return chunk, nil
	case 5:
		return decompressTIFFLZW(chunk)
	case 8, 32946:
		return decompressDeflate(chunk)
	default:
		return nil, errParseMsg("unsupported: TIFF compression %d", compression)
	}
}

// samplesToFloat32 reinterprets a decoded byte plane as float32 elevation
// samples according to the IFD's bit depth and sample format.
func samplesToFloat32(plane []byte, ifd *tiffIFD, bo binary.ByteOrder) ([]float32, error) {
	bytesPerSample := bitsToBytes(ifd)
	n := len(plane) / bytesPerSample
	out := make([]float32, n)

	switch {
	case ifd.SampleFormat == sampleFormatFloat && bytesPerSample == 4:
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(bo.Uint32(plane[i*4 : i*4+4]))
		}
	case ifd.SampleFormat == sampleFormatFloat && bytesPerSample == 8:
		for i := 0; i < n; i++ {
			out[i] = float32(math.Float64frombits(bo.Uint64(plane[i*8 : i*8+8])))
		}
	case bytesPerSample == 4 && ifd.SampleFormat != sampleFormatFloat:
		for i := 0; i < n; i++ {
			v := bo.Uint32(plane[i*4 : i*4+4])
			if ifd.SampleFormat == sampleFormatInt {
				out[i] = float32(int32(v))
			} else {
				out[i] = float32(v)
			}
		}
	case bytesPerSample == 2:
		for i := 0; i < n; i++ {
			v := bo.Uint16(plane[i*2 : i*2+2])
			if ifd.SampleFormat == sampleFormatInt {
				out[i] = float32(int16(v))
			} else {
				out[i] = float32(v)
			}
		}
	case bytesPerSample == 1:
		for i := 0; i < n; i++ {
			out[i] = float32(plane[i])
		}
	default:
		return nil, errParseMsg("unsupported: %d-byte sample format %d", bytesPerSample, ifd.SampleFormat)
	}

	return out, nil
}
