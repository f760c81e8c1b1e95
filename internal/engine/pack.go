package engine

import "github.com/kestrelrf/losengine/internal/raster"

// PackPoint encodes a classified grid point into a wire-tight 32-bit
// word: px:12 | py:12 | state:8. Pixel indices above 4095 can't occur
// since raster.MaxDimension is 4096.
func PackPoint(px, py int, state raster.State) uint32 {
	return uint32(px&0xFFF)<<20 | uint32(py&0xFFF)<<8 | uint32(state)
}

// UnpackPoint reverses PackPoint.
func UnpackPoint(word uint32) (px, py int, state raster.State) {
	px = int(word >> 20 & 0xFFF)
	py = int(word >> 8 & 0xFFF)
	state = raster.State(word & 0xFF)
	return
}
