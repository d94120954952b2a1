package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"doctransform/internal/docio"
	"doctransform/internal/model"
	"doctransform/internal/repository"
	"doctransform/internal/storage"
)

var (
	ErrIDRequired  = errors.New("id is required")
	ErrNotFound    = errors.New("template not found")
	ErrReaderNil   = errors.New("reader is nil")
	ErrInvalidFile = errors.New("file failed validation")
)

// TemplateListResult is the service-level DTO for paginated templates.
type TemplateListResult struct {
	Items []model.Template `json:"data"`
	Total int              `json:"total"`
}

// TemplateService defines the use cases for handling uploaded templates.
type TemplateService interface {
	// Upload validates the file format, uploads the content to object storage,
	// saves metadata to DB, and rolls back storage if the DB save fails.
	// - originalFilename is used for format detection; the stored filename is UUID + extension.
	Upload(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Template, error)

	// List returns templates using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*TemplateListResult, error)

	// Get returns a single template by its ID.
	Get(ctx context.Context, id string) (*model.Template, error)

	// Content returns the template row together with its extracted plain text.
	Content(ctx context.Context, id string) (*model.Template, string, error)

	// Delete removes a template by ID from both storage and repository.
	Delete(ctx context.Context, id string) error
}

// templateService is a concrete implementation of TemplateService.
type templateService struct {
	store storage.Storage
	repo  repository.TemplateRepository
}

// NewTemplateService constructs a new TemplateService.
func NewTemplateService(store storage.Storage, repo repository.TemplateRepository) TemplateService {
	return &templateService{store: store, repo: repo}
}

func (s *templateService) Upload(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Template, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	format, err := docio.DetectFormat(originalFilename, data)
	if err != nil {
		return nil, err
	}

	// PDFs get validated up front so a broken file fails at upload, not mid-pipeline.
	pageCount := 0
	if format == docio.FormatPDF {
		pageCount, err = docio.InspectPDF(data)
		if err != nil {
			return nil, fmt.Errorf("%w: inspect pdf: %v", ErrInvalidFile, err)
		}
	}

	genName := uuid.New().String() + format.Ext()
	key := filepath.ToSlash(filepath.Join("templates", genName))

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: format.ContentType(),
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	tmpl := &model.Template{
		ID:               uuid.New().String(),
		Filename:         genName,
		OriginalFilename: originalFilename,
		StoragePath:      objInfo.Key,
		Size:             objInfo.Size,
		ContentType:      objInfo.ContentType,
		Format:           string(format),
		PageCount:        pageCount,
		CreatedAt:        time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, tmpl)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated templates without exposing repository types.
func (s *templateService) List(ctx context.Context, limit, offset int) (*TemplateListResult, error) {
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
	return &TemplateListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a template by ID.
func (s *templateService) Get(ctx context.Context, id string) (*model.Template, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	tmpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tmpl, nil
}

// Content fetches the stored object and extracts its plain text.
func (s *templateService) Content(ctx context.Context, id string) (*model.Template, string, error) {
	tmpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	obj, _, err := s.store.Get(ctx, tmpl.StoragePath)
	if err != nil {
		return nil, "", fmt.Errorf("fetch template object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("read template object: %w", err)
	}

	text, err := docio.Extract(data, docio.Format(tmpl.Format))
	if err != nil {
		return nil, "", fmt.Errorf("extract template text: %w", err)
	}
	return tmpl, text, nil
}

// Delete removes a template from storage, then deletes its record.
func (s *templateService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	tmpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, tmpl.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
