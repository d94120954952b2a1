package repository

import (
	"context"

	"doctransform/internal/model"
)

// TemplateRepository defines data access for uploaded templates using SQL queries only.
// No business logic here — strictly persistence operations.
type TemplateRepository interface {
	// Create inserts a new template record and returns the stored row
	// (may include values set by the database).
	Create(ctx context.Context, tmpl *model.Template) (*model.Template, error)

	// FindByID returns a template by its ID.
	FindByID(ctx context.Context, id string) (*model.Template, error)

	// List returns a paginated list of templates and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Template], error)

	// Delete removes a template by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
