package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"mediapi/internal/media"
)

// categoryDirs are the subdirectories every deployment must have before the
// first upload is accepted.
var categoryDirs = []string{
	media.CategoryImage.Dir(),
	media.CategoryVideo.Dir(),
	media.CategoryDocument.Dir(),
	media.ThumbnailDir,
}

// Local is a Storage backed by a directory tree on local disk. The web server
// exposes the tree read-only under publicBase, so PresignGet returns stable
// public paths instead of signed URLs.
type Local struct {
	root       string
	publicBase string
}

// NewLocal creates a local-disk storage rooted at root. publicBase is the URL
// path prefix the tree is served under (default /uploads). Call Initialize
// before first use.
func NewLocal(root, publicBase string) *Local {
	if publicBase == "" {
		publicBase = "/uploads"
	}
	return &Local{root: root, publicBase: publicBase}
}

// Initialize creates the root and all category directories. It is idempotent
// and must run once during startup; the process must not accept uploads if it
// fails, since per-request recovery from a missing directory is not possible.
func (l *Local) Initialize() error {
	if l.root == "" {
		return fmt.Errorf("storage root is required")
	}
	for _, dir := range categoryDirs {
		if err := os.MkdirAll(filepath.Join(l.root, dir), 0o755); err != nil {
			return fmt.Errorf("create storage directory %s: %w", dir, err)
		}
	}
	return nil
}

// resolve maps a slash key onto the tree, rejecting anything that would
// escape the root.
func (l *Local) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

// Put writes the object to disk. Keys are never reused by the pipeline, so an
// already-existing file is treated as a failure rather than overwritten.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	target, err := l.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create %s: %w", key, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}

	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the file for streaming.
func (l *Local) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	target, err := l.resolve(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{Key: key, Size: st.Size(), LastModified: st.ModTime()}, nil
}

// Delete removes the file; a missing file is not an error.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PresignGet returns the stable public path for the key; expiry is ignored
// because local files are served without credentials.
func (l *Local) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u := url.URL{Path: path.Join(l.publicBase, path.Clean("/"+key))}
	return u.String(), nil
}
