package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"mediapi/internal/media"
	"mediapi/internal/model"
	"mediapi/internal/repository"
	"mediapi/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("media not found")
	ErrReaderNil  = errors.New("reader is nil")
)

// MediaListResult is the service-level DTO for paginated media.
type MediaListResult struct {
	Items []model.Media `json:"data"`
	Total int           `json:"total"`
}

// MediaService defines the use cases of the media pipeline.
type MediaService interface {
	// Ingest runs the full pipeline for one upload: validate, classify,
	// process (transcode + thumbnail for images, raw write otherwise),
	// persist the descriptor. At most one attempt per call; on failure
	// nothing written by this call is left behind.
	Ingest(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Media, error)

	// List returns media records using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*MediaListResult, error)

	// Get returns a single media record by its ID.
	Get(ctx context.Context, id string) (*model.Media, error)

	// Delete removes a media record and its stored files.
	Delete(ctx context.Context, id string) error
}

// Options tune the pipeline. Zero values fall back to defaults.
type Options struct {
	MaxUploadBytes   int64
	Transcoder       media.Transcoder
	Thumbnailer      media.Thumbnailer
	TranscodeWorkers int
	TranscodeTimeout time.Duration
}

// mediaService is the concrete MediaService.
type mediaService struct {
	store       storage.Storage
	repo        repository.MediaRepository
	transcoder  media.Transcoder
	thumbnailer media.Thumbnailer
	maxBytes    int64
	workers     *semaphore.Weighted
	timeout     time.Duration
}

// NewMediaService constructs the pipeline service. Image decode/resize/encode
// is CPU-bound, so concurrent transcodes are capped by a weighted semaphore;
// uploads past the cap queue until a slot frees or their context ends.
func NewMediaService(store storage.Storage, repo repository.MediaRepository, opts Options) MediaService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = media.DefaultMaxUploadBytes
	}
	if opts.Transcoder == (media.Transcoder{}) {
		opts.Transcoder = media.NewTranscoder(0, 0)
	}
	if opts.Thumbnailer == (media.Thumbnailer{}) {
		opts.Thumbnailer = media.NewThumbnailer(0, 0)
	}
	if opts.TranscodeWorkers <= 0 {
		opts.TranscodeWorkers = 4
	}
	if opts.TranscodeTimeout <= 0 {
		opts.TranscodeTimeout = 30 * time.Second
	}
	return &mediaService{
		store:       store,
		repo:        repo,
		transcoder:  opts.Transcoder,
		thumbnailer: opts.Thumbnailer,
		maxBytes:    opts.MaxUploadBytes,
		workers:     semaphore.NewWeighted(int64(opts.TranscodeWorkers)),
		timeout:     opts.TranscodeTimeout,
	}
}

func (s *mediaService) Ingest(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Media, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	// Validation runs before any byte is written or even fully buffered.
	if err := media.Validate(contentType, size, s.maxBytes); err != nil {
		return nil, err
	}

	// The declared size passed the cap; the actual stream still gets bounded.
	data, err := readCapped(r, s.maxBytes)
	if err != nil {
		return nil, err
	}

	var (
		m    *model.Media
		keys []string
	)
	switch cat := media.Classify(contentType); cat {
	case media.CategoryImage:
		m, keys, err = s.processImage(ctx, data, originalFilename, contentType)
	case media.CategoryVideo, media.CategoryDocument:
		m, keys, err = s.storeRaw(ctx, data, originalFilename, contentType, cat)
	default:
		err = fmt.Errorf("%w: unhandled category %v", media.ErrIOFailure, cat)
	}
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Create(ctx, m)
	if err != nil {
		if delErr := s.removeStored(keys); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// processImage runs the image branch: both the bounded WebP rendition and the
// thumbnail are derived in memory before the first write, so a derivation
// failure never leaves a file behind; a failed second write removes the first.
func (s *mediaService) processImage(ctx context.Context, data []byte, originalFilename, contentType string) (*model.Media, []string, error) {
	if err := s.workers.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("%w: waiting for transcode slot: %v", media.ErrTranscodeFailure, err)
	}
	defer s.workers.Release(1)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, thumbData, err := s.deriveImage(tctx, data)
	if err != nil {
		return nil, nil, err
	}

	name := media.NewStoredName(originalFilename, ".webp")
	key := path.Join(media.CategoryImage.Dir(), name)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(res.Data), storage.PutObjectOptions{
		Size:        int64(len(res.Data)),
		ContentType: "image/webp",
		Metadata:    map[string]string{"original-filename": originalFilename},
	}); err != nil {
		return nil, nil, fmt.Errorf("%w: store image: %v", media.ErrIOFailure, err)
	}

	thumbName := media.ThumbnailName(name)
	thumbKey := path.Join(media.ThumbnailDir, thumbName)
	if _, err := s.store.Put(ctx, thumbKey, bytes.NewReader(thumbData), storage.PutObjectOptions{
		Size:        int64(len(thumbData)),
		ContentType: "image/webp",
	}); err != nil {
		if delErr := s.removeStored([]string{key}); delErr != nil {
			return nil, nil, fmt.Errorf("%w: store thumbnail: %v; rollback delete failed: %v", media.ErrIOFailure, err, delErr)
		}
		return nil, nil, fmt.Errorf("%w: store thumbnail: %v", media.ErrIOFailure, err)
	}

	dims := res.Dimensions()
	m := &model.Media{
		ID:          uuid.NewString(),
		Filename:    name,
		Category:    media.CategoryImage.String(),
		StoragePath: key,
		Size:        int64(len(res.Data)),
		ContentType: contentType,
		Dimensions:  &dims,
		Thumbnail:   &thumbName,
		CreatedAt:   time.Now().UTC(),
	}
	return m, []string{key, thumbKey}, nil
}

// deriveImage produces the bounded rendition and the thumbnail, giving up as
// soon as the deadline expires. The imaging calls cannot be interrupted
// mid-call, so an abandoned derivation finishes in the background and its
// result is discarded; nothing is written either way.
func (s *mediaService) deriveImage(ctx context.Context, data []byte) (*media.TranscodeResult, []byte, error) {
	type derived struct {
		res   *media.TranscodeResult
		thumb []byte
		err   error
	}

	done := make(chan derived, 1)
	go func() {
		res, err := s.transcoder.Transcode(data)
		if err != nil {
			done <- derived{err: err}
			return
		}
		thumb, err := s.thumbnailer.Generate(data)
		done <- derived{res: res, thumb: thumb, err: err}
	}()

	select {
	case d := <-done:
		return d.res, d.thumb, d.err
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%w: transcode deadline exceeded", media.ErrTranscodeFailure)
	}
}

// storeRaw writes video and document uploads unchanged under a generated name.
func (s *mediaService) storeRaw(ctx context.Context, data []byte, originalFilename, contentType string, cat media.Category) (*model.Media, []string, error) {
	name := media.NewStoredName(originalFilename, "")
	key := path.Join(cat.Dir(), name)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": originalFilename},
	}); err != nil {
		return nil, nil, fmt.Errorf("%w: store %s: %v", media.ErrIOFailure, cat, err)
	}

	m := &model.Media{
		ID:          uuid.NewString(),
		Filename:    name,
		Category:    cat.String(),
		StoragePath: key,
		Size:        int64(len(data)),
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	return m, []string{key}, nil
}

// List returns paginated media without exposing repository types.
func (s *mediaService) List(ctx context.Context, limit, offset int) (*MediaListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &MediaListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a media record by ID.
func (s *mediaService) Get(ctx context.Context, id string) (*model.Media, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Delete removes the stored files first, then the descriptor row.
func (s *mediaService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	keys := []string{m.StoragePath}
	if m.Thumbnail != nil {
		keys = append(keys, path.Join(media.ThumbnailDir, *m.Thumbnail))
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}

// removeStored deletes files written by a failed call. It runs on a fresh
// context so cleanup still happens when the request context is already dead.
func (s *mediaService) removeStored(keys []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// readCapped buffers at most max bytes and rejects longer streams; the
// per-request cap keeps buffering bounded even when the declared size lies.
func readCapped(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", media.ErrIOFailure, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: stream longer than declared", media.ErrSizeExceeded)
	}
	return data, nil
}
