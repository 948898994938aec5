package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewStoredName generates a collision-resistant filename for an upload. The
// result is <sanitized-base>-<unixnano>-<rand>.<ext> and is never equal to the
// original name, so concurrent uploads of identically named files cannot
// overwrite each other. The timestamp keeps names sortable for operators; the
// random suffix removes the same-clock-tick collision window.
//
// ext overrides the original extension when non-empty (images are always stored
// as .webp); otherwise the original extension is kept.
func NewStoredName(originalFilename, ext string) string {
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(originalFilename))
	}
	base := sanitizeBase(originalFilename)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixNano(), suffix, ext)
}

// ThumbnailName derives the preview name from a stored image name.
func ThumbnailName(storedName string) string {
	return "thumb-" + storedName
}

// sanitizeBase reduces the original basename to a safe, portable token:
// path components are stripped, anything outside [a-z0-9-] becomes a hyphen,
// and runs of hyphens collapse. An empty or fully-hostile name becomes "file".
func sanitizeBase(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)

	var b strings.Builder
	lastHyphen := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "file"
	}
	const maxBase = 64
	if len(out) > maxBase {
		out = out[:maxBase]
	}
	return out
}
