package media

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Register the WebP decoder so image/webp uploads pass through image.Decode.
	_ "golang.org/x/image/webp"
)

// Defaults for the image pipeline.
const (
	DefaultMaxDimension     = 1920
	DefaultImageQuality     = 80
	DefaultThumbnailSize    = 300
	DefaultThumbnailQuality = 60
)

// TranscodeResult is the in-memory output of a transcode: the encoded WebP
// bytes plus the final pixel dimensions.
type TranscodeResult struct {
	Data   []byte
	Width  int
	Height int
}

// Dimensions returns the "<width>x<height>" form persisted in descriptors.
func (r *TranscodeResult) Dimensions() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Transcoder re-encodes arbitrary source images into bounded WebP.
type Transcoder struct {
	// MaxDimension bounds both edges of the output. Sources already inside the
	// bound keep their original dimensions; there is no upscaling.
	MaxDimension int
	// Quality is the lossy WebP quality, 0-100.
	Quality float32
}

// NewTranscoder returns a Transcoder with defaults applied for zero values.
func NewTranscoder(maxDimension int, quality float32) Transcoder {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 {
		quality = DefaultImageQuality
	}
	return Transcoder{MaxDimension: maxDimension, Quality: quality}
}

// Transcode decodes src, resizes it to fit inside MaxDimension x MaxDimension
// preserving aspect ratio, and re-encodes it as WebP. Decode failures surface
// as ErrTranscodeFailure so callers can tell corrupt content apart from a
// disallowed type.
func (t Transcoder) Transcode(src []byte) (*TranscodeResult, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrTranscodeFailure, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > t.MaxDimension || bounds.Dy() > t.MaxDimension {
		img = imaging.Fit(img, t.MaxDimension, t.MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: t.Quality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrTranscodeFailure, err)
	}

	out := img.Bounds()
	return &TranscodeResult{
		Data:   buf.Bytes(),
		Width:  out.Dx(),
		Height: out.Dy(),
	}, nil
}
