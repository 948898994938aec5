package media

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Thumbnailer derives fixed-size square previews from source image bytes.
type Thumbnailer struct {
	// Size is the edge length of the square output.
	Size int
	// Quality is the lossy WebP quality, lower than the main transcode.
	Quality float32
}

// NewThumbnailer returns a Thumbnailer with defaults applied for zero values.
func NewThumbnailer(size int, quality float32) Thumbnailer {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	if quality <= 0 {
		quality = DefaultThumbnailQuality
	}
	return Thumbnailer{Size: size, Quality: quality}
}

// Generate produces a Size x Size preview using a cover + center-crop policy:
// the source is scaled to cover the square and the overflow is cropped, never
// letterboxed. Small sources are scaled up here; a preview grid needs uniform
// tiles even when the original is tiny.
func (t Thumbnailer) Generate(src []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrTranscodeFailure, err)
	}

	thumb := imaging.Fill(img, t.Size, t.Size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: t.Quality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrTranscodeFailure, err)
	}
	return buf.Bytes(), nil
}
