package media

import "fmt"

// DefaultMaxUploadBytes is the upload cap applied when no override is configured.
const DefaultMaxUploadBytes = 50 << 20 // 50 MiB

// allowedTypes is the fixed allow-list of accepted content types.
// Executables and anything not named here are rejected before any bytes touch storage.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,

	"video/mp4":  true,
	"video/webm": true,

	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// Validate checks the declared content type against the allow-list and the byte
// length against maxBytes (inclusive: a payload of exactly maxBytes is accepted).
// A maxBytes of zero falls back to DefaultMaxUploadBytes. Pure function, no side
// effects; must run before anything is written.
func Validate(contentType string, size int64, maxBytes int64) error {
	if !allowedTypes[contentType] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if size > maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrSizeExceeded, size, maxBytes)
	}
	return nil
}
