package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/model"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
	"github.com/OnteruYallaiah21/Getiva-app/internal/storage"
)

var (
	ErrCompanyRequired = errors.New("company is required")
	ErrNotFound        = errors.New("application not found")
	ErrReaderNil       = errors.New("reader is nil")
	ErrFileType        = errors.New("file type not allowed")
)

// FileUploader stores an upload and returns the links to persist with the
// application row. *storage.Uploader is the production implementation.
type FileUploader interface {
	Upload(ctx context.Context, owner, category, filename string, r io.Reader, contentType string) (storage.Result, error)
}

// UploadInput describes a file attached to a create or update request.
type UploadInput struct {
	Reader   io.Reader
	Filename string
	Category string
}

// CreateApplicationInput carries the fields of a new application. File is
// optional; an application may be tracked without an attachment.
type CreateApplicationInput struct {
	Company        string
	JobDescription string
	Status         string
	File           *UploadInput
}

// UpdateApplicationInput carries a partial update. Nil pointers leave the
// stored value untouched; a non-nil File replaces the stored attachment links.
type UpdateApplicationInput struct {
	Company        *string
	JobDescription *string
	Status         *string
	File           *UploadInput
}

// ApplicationListResult is the service-level DTO for a paginated listing.
type ApplicationListResult struct {
	Items []model.Application `json:"data"`
	Total int                 `json:"total"`
}

// ApplicationService defines the use cases for one user's application
// collection. The username always comes from the authenticated session, never
// from the request body.
type ApplicationService interface {
	// List returns a page of the owner's applications, newest first. A limit
	// of zero or less returns the whole collection.
	List(ctx context.Context, username string, limit, offset int) (*ApplicationListResult, error)

	// Create stores a new application, uploading the attachment first when one
	// is present.
	Create(ctx context.Context, username string, in CreateApplicationInput) (*model.Application, error)

	// Update applies a partial update and refreshes the row's timestamp.
	Update(ctx context.Context, username string, id int, in UpdateApplicationInput) (*model.Application, error)

	// Delete removes a single application.
	Delete(ctx context.Context, username string, id int) error

	// DeleteCollection removes every application the owner has.
	DeleteCollection(ctx context.Context, username string) error
}

type applicationService struct {
	repo        repository.ApplicationRepository
	uploader    FileUploader
	allowedExts []string
	now         func() time.Time
}

// NewApplicationService constructs an ApplicationService. allowedExts is the
// lowercase extension allow-list for attachments, including the leading dot.
func NewApplicationService(repo repository.ApplicationRepository, uploader FileUploader, allowedExts []string) ApplicationService {
	return &applicationService{
		repo:        repo,
		uploader:    uploader,
		allowedExts: allowedExts,
		now:         time.Now,
	}
}

func (s *applicationService) List(ctx context.Context, username string, limit, offset int) (*ApplicationListResult, error) {
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, username, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ApplicationListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *applicationService) Create(ctx context.Context, username string, in CreateApplicationInput) (*model.Application, error) {
	company := strings.TrimSpace(in.Company)
	if company == "" {
		return nil, ErrCompanyRequired
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = model.StatusApplied
	}

	app := &model.Application{
		Company:        company,
		JobDescription: in.JobDescription,
		Status:         status,
		Timestamp:      s.now().UTC(),
	}

	if in.File != nil {
		res, filename, err := s.storeFile(ctx, username, in.File)
		if err != nil {
			return nil, err
		}
		app.Filename = filename
		app.DownloadLink = res.DownloadLink
		app.ViewLink = res.ViewLink
	}

	stored, err := s.repo.Create(ctx, username, app)
	if err != nil {
		return nil, fmt.Errorf("save application: %w", err)
	}
	return stored, nil
}

func (s *applicationService) Update(ctx context.Context, username string, id int, in UpdateApplicationInput) (*model.Application, error) {
	upd := repository.ApplicationUpdate{
		Company:        in.Company,
		JobDescription: in.JobDescription,
		Status:         in.Status,
		Timestamp:      s.now().UTC(),
	}

	if in.File != nil {
		res, filename, err := s.storeFile(ctx, username, in.File)
		if err != nil {
			return nil, err
		}
		upd.File = &repository.FileUpdate{
			Filename:     filename,
			DownloadLink: res.DownloadLink,
			ViewLink:     res.ViewLink,
		}
	}

	stored, err := s.repo.Update(ctx, username, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stored, nil
}

func (s *applicationService) Delete(ctx context.Context, username string, id int) error {
	err := s.repo.Delete(ctx, username, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *applicationService) DeleteCollection(ctx context.Context, username string) error {
	return s.repo.DeleteCollection(ctx, username)
}

// storeFile validates the attachment and hands it to the uploader. It returns
// the storage links and the sanitized filename stored on the row.
func (s *applicationService) storeFile(ctx context.Context, username string, f *UploadInput) (storage.Result, string, error) {
	if f.Reader == nil {
		return storage.Result{}, "", ErrReaderNil
	}

	base := filepath.Base(f.Filename)
	if !s.extensionAllowed(base) {
		return storage.Result{}, "", fmt.Errorf("%w: %s", ErrFileType, filepath.Ext(base))
	}

	category := f.Category
	if category == "" {
		category = storage.CategoryResume
	}

	res, err := s.uploader.Upload(ctx, username, category, base, f.Reader, storage.ContentTypeFor(base))
	if err != nil {
		return storage.Result{}, "", fmt.Errorf("store attachment: %w", err)
	}
	return res, base, nil
}

func (s *applicationService) extensionAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.allowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
