package postgres

import (
	"context"
	"database/sql"

	"painter/internal/model"
	"painter/internal/repository"
)

// UploadPostgres is a PostgreSQL implementation of repository.UploadRepository.
type UploadPostgres struct {
	db *sql.DB
}

// NewUploadPostgres creates a new UploadPostgres repository.
func NewUploadPostgres(db *sql.DB) *UploadPostgres {
	return &UploadPostgres{db: db}
}

var _ repository.UploadRepository = (*UploadPostgres)(nil)

// Create inserts a new upload row and returns the stored record.
func (r *UploadPostgres) Create(ctx context.Context, rec *model.UploadRecord) (*model.UploadRecord, error) {
	const q = `
		INSERT INTO uploads (id, filename, original_name, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, filename, original_name, storage_path, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.Filename,
		rec.OriginalName,
		rec.StoragePath,
		rec.Size,
		rec.ContentType,
		rec.CreatedAt,
	)
	var out model.UploadRecord
	if err := row.Scan(
		&out.ID,
		&out.Filename,
		&out.OriginalName,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns upload records using LIMIT/OFFSET pagination and a total count.
func (r *UploadPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.UploadRecord], error) {
	const qCount = `SELECT COUNT(*) FROM uploads`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, filename, original_name, storage_path, size, content_type, created_at
		FROM uploads
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UploadRecord, 0)
	for rows.Next() {
		var u model.UploadRecord
		if err := rows.Scan(
			&u.ID,
			&u.Filename,
			&u.OriginalName,
			&u.StoragePath,
			&u.Size,
			&u.ContentType,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.UploadRecord]{
		Items: items,
		Total: total,
	}, nil
}

// Ping checks connectivity to the catalog database.
func (r *UploadPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
