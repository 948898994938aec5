package repository

import (
	"context"

	"mediapi/internal/model"
)

// MediaRepository defines persistence for media descriptors using SQL queries
// only. No pipeline logic lives here.
type MediaRepository interface {
	// Create inserts a new media row and returns the stored record
	// (including values set by database defaults).
	Create(ctx context.Context, m *model.Media) (*model.Media, error)

	// FindByID returns a media record by its ID.
	FindByID(ctx context.Context, id string) (*model.Media, error)

	// List returns a paginated list of media records and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Media], error)

	// Delete removes a media record by ID. Returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
