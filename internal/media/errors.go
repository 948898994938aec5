package media

import "errors"

// Failure kinds returned by the ingestion pipeline. Callers match with
// errors.Is so the kind survives wrapping across layers.
var (
	// ErrUnsupportedType means the declared content type is not in the allow-list.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrSizeExceeded means the upload is larger than the configured cap.
	ErrSizeExceeded = errors.New("upload exceeds the maximum allowed size")

	// ErrTranscodeFailure means the bytes passed MIME validation but could not be
	// decoded or re-encoded as an image. Kept distinct from ErrUnsupportedType:
	// the declared type and the actual content can diverge.
	ErrTranscodeFailure = errors.New("image could not be processed")

	// ErrIOFailure means a storage read or write failed (permissions, disk full).
	ErrIOFailure = errors.New("storage operation failed")
)
