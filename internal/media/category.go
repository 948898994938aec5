package media

import "strings"

// Category is the coarse classification that decides which processor handles an
// upload. It is fixed when the descriptor is created and never re-derived.
type Category int

const (
	CategoryImage Category = iota
	CategoryVideo
	CategoryDocument
)

// String returns the wire name persisted in descriptors ("image", "video", "document").
func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryVideo:
		return "video"
	case CategoryDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Dir returns the storage subdirectory for the category.
func (c Category) Dir() string {
	switch c {
	case CategoryImage:
		return "images"
	case CategoryVideo:
		return "videos"
	default:
		return "documents"
	}
}

// ThumbnailDir is where derived previews live, outside the three upload categories.
const ThumbnailDir = "thumbnails"

// Classify maps a validated content type to its category. The mapping is total
// over the allow-list: anything accepted by Validate that is not an image or a
// video is a document.
func Classify(contentType string) Category {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return CategoryImage
	case strings.HasPrefix(contentType, "video/"):
		return CategoryVideo
	default:
		return CategoryDocument
	}
}
