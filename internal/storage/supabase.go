package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/config"
)

// SupabaseProvider uploads through the Supabase Storage REST API and returns
// the public object URL for both links. The bucket must be public for the
// links to resolve without a token.
type SupabaseProvider struct {
	baseURL string
	apiKey  string
	bucket  string
	client  *http.Client
}

// NewSupabase validates the configuration and returns the provider. No
// network call is made until the first upload.
func NewSupabase(cfg config.SupabaseConfig) (*SupabaseProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("supabase key is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("supabase bucket is required")
	}
	return &SupabaseProvider{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.Key,
		bucket:  cfg.Bucket,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

var _ Provider = (*SupabaseProvider)(nil)

func (p *SupabaseProvider) Name() string { return "supabase" }

func (p *SupabaseProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", p.baseURL, p.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return Result{}, fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return Result{}, fmt.Errorf("upload object: %s", apiErr.Message)
	}

	public := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", p.baseURL, p.bucket, key)
	return Result{
		ViewLink:     public,
		DownloadLink: public,
		StoragePath:  key,
	}, nil
}
