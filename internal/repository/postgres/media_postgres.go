package postgres

import (
	"context"
	"database/sql"

	"mediapi/internal/model"
	"mediapi/internal/repository"
)

// MediaPostgres is a PostgreSQL implementation of repository.MediaRepository.
// It uses database/sql with parameterized queries; dimensions and thumbnail are
// nullable columns that only image rows populate.
type MediaPostgres struct {
	db *sql.DB
}

// NewMediaPostgres creates a new MediaPostgres repository.
func NewMediaPostgres(db *sql.DB) *MediaPostgres {
	return &MediaPostgres{db: db}
}

var _ repository.MediaRepository = (*MediaPostgres)(nil)

const mediaColumns = "id, filename, category, storage_path, size, content_type, dimensions, thumbnail, created_at"

func scanMedia(s interface{ Scan(...any) error }) (*model.Media, error) {
	var m model.Media
	if err := s.Scan(
		&m.ID,
		&m.Filename,
		&m.Category,
		&m.StoragePath,
		&m.Size,
		&m.ContentType,
		&m.Dimensions,
		&m.Thumbnail,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media row and returns the stored record.
func (r *MediaPostgres) Create(ctx context.Context, m *model.Media) (*model.Media, error) {
	const q = `
		INSERT INTO media (id, filename, category, storage_path, size, content_type, dimensions, thumbnail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + mediaColumns
	row := r.db.QueryRowContext(ctx, q,
		m.ID,
		m.Filename,
		m.Category,
		m.StoragePath,
		m.Size,
		m.ContentType,
		m.Dimensions,
		m.Thumbnail,
		m.CreatedAt,
	)
	return scanMedia(row)
}

// FindByID fetches a single media record by its ID.
func (r *MediaPostgres) FindByID(ctx context.Context, id string) (*model.Media, error) {
	const q = `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`
	return scanMedia(r.db.QueryRowContext(ctx, q, id))
}

// List returns media records using LIMIT/OFFSET pagination and a total count.
func (r *MediaPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Media], error) {
	const qCount = `SELECT COUNT(*) FROM media`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + mediaColumns + `
		FROM media
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Media]{Items: items, Total: total}, nil
}

// Delete removes a media row by ID. A missing row is not an error.
func (r *MediaPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM media WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
