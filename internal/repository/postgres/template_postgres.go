package postgres

import (
	"context"
	"database/sql"
	"errors"

	"doctransform/internal/model"
	"doctransform/internal/repository"
)

// TemplatePostgres is a PostgreSQL implementation of repository.TemplateRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type TemplatePostgres struct {
	db *sql.DB
}

// NewTemplatePostgres creates a new TemplatePostgres repository.
func NewTemplatePostgres(db *sql.DB) *TemplatePostgres {
	return &TemplatePostgres{db: db}
}

var _ repository.TemplateRepository = (*TemplatePostgres)(nil)

// IsNoRowsError reports whether err stems from a query that matched no rows.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Create inserts a new template row and returns the stored record.
func (r *TemplatePostgres) Create(ctx context.Context, tmpl *model.Template) (*model.Template, error) {
	const q = `
		INSERT INTO templates (id, filename, original_filename, storage_path, size, content_type, format, page_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, filename, original_filename, storage_path, size, content_type, format, page_count, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		tmpl.ID,
		tmpl.Filename,
		tmpl.OriginalFilename,
		tmpl.StoragePath,
		tmpl.Size,
		tmpl.ContentType,
		tmpl.Format,
		tmpl.PageCount,
		tmpl.CreatedAt,
	)
	var out model.Template
	if err := row.Scan(
		&out.ID,
		&out.Filename,
		&out.OriginalFilename,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.Format,
		&out.PageCount,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single template by its ID.
func (r *TemplatePostgres) FindByID(ctx context.Context, id string) (*model.Template, error) {
	const q = `
		SELECT id, filename, original_filename, storage_path, size, content_type, format, page_count, created_at
		FROM templates
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var t model.Template
	if err := row.Scan(
		&t.ID,
		&t.Filename,
		&t.OriginalFilename,
		&t.StoragePath,
		&t.Size,
		&t.ContentType,
		&t.Format,
		&t.PageCount,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns templates using LIMIT/OFFSET pagination and a total count.
func (r *TemplatePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Template], error) {
	const qCount = `SELECT COUNT(*) FROM templates`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, filename, original_filename, storage_path, size, content_type, format, page_count, created_at
		FROM templates
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Template, 0)
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(
			&t.ID,
			&t.Filename,
			&t.OriginalFilename,
			&t.StoragePath,
			&t.Size,
			&t.ContentType,
			&t.Format,
			&t.PageCount,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Template]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a template by ID. It does not return an error if the row does not exist.
func (r *TemplatePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM templates WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
