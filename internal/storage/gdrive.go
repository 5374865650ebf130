package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/OnteruYallaiah21/Getiva-app/internal/config"
)

// DriveProvider stores objects in Google Drive using a service account.
// Each uploaded file is made world-readable so the returned links work
// without authentication.
type DriveProvider struct {
	svc *drive.Service
}

// NewDrive builds the Drive client from the configured service-account
// credentials file.
func NewDrive(ctx context.Context, cfg config.GoogleDriveConfig) (*DriveProvider, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("google drive credentials file is required")
	}
	svc, err := drive.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile), option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveProvider{svc: svc}, nil
}

var _ Provider = (*DriveProvider)(nil)

func (p *DriveProvider) Name() string { return "gdrive" }

func (p *DriveProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	meta := &drive.File{Name: path.Base(key)}

	file, err := p.svc.Files.Create(meta).
		Media(r).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return Result{}, fmt.Errorf("create drive file: %w", err)
	}

	_, err = p.svc.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return Result{}, fmt.Errorf("share drive file: %w", err)
	}

	return Result{
		ViewLink:     fmt.Sprintf("https://drive.google.com/file/d/%s/view", file.Id),
		DownloadLink: fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", file.Id),
		StoragePath:  file.Id,
	}, nil
}
