package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/OnteruYallaiah21/Getiva-app/internal/config"
)

// S3Provider implements Provider against any S3-compatible backend (MinIO,
// AWS S3, Supabase's S3 gateway). Links are pre-signed GETs: the view link
// renders inline, the download link forces an attachment.
type S3Provider struct {
	client        *minio.Client
	bucket        string
	region        string
	presignExpiry time.Duration
}

// NewS3 creates the S3 provider and ensures the bucket exists.
func NewS3(cfg config.S3Config) (*S3Provider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	p := &S3Provider{
		client:        cli,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		presignExpiry: cfg.PresignExpiry,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return p, nil
}

var _ Provider = (*S3Provider)(nil)

func (p *S3Provider) Name() string { return "s3" }

func (p *S3Provider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	_, err := p.client.PutObject(ctx, p.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Result{}, fmt.Errorf("put object: %w", err)
	}

	view, err := p.client.PresignedGetObject(ctx, p.bucket, key, p.presignExpiry, url.Values{})
	if err != nil {
		return Result{}, fmt.Errorf("presign view link: %w", err)
	}

	dl, err := p.client.PresignedGetObject(ctx, p.bucket, key, p.presignExpiry, url.Values{
		"response-content-disposition": {"attachment"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("presign download link: %w", err)
	}

	return Result{
		ViewLink:     view.String(),
		DownloadLink: dl.String(),
		StoragePath:  key,
	}, nil
}
