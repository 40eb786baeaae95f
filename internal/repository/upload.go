package repository

import (
	"context"

	"painter/internal/model"
)

// UploadRepository records accepted uploads using SQL queries only.
// It is an audit trail; the upload root stays the source of truth for what exists.
type UploadRepository interface {
	// Create inserts a new upload record and returns the stored row.
	Create(ctx context.Context, rec *model.UploadRecord) (*model.UploadRecord, error)

	// List returns a page of upload records, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.UploadRecord], error)

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
