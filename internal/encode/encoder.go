package encode

import "image"

// Encoder encodes a raster snapshot into bytes for publication.
type Encoder interface {
	// Encode encodes an image to bytes in the wire format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "png").
	Format() string

	// FileExtension returns the appropriate file extension.
	FileExtension() string
}
