package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Uploader names objects and routes them to the bound provider, falling back
// to local disk when the provider rejects an upload. Keys follow the pattern
// {owner}/{category}/{base}_{timestamp}{ext} so one owner's files never
// collide with another's.
type Uploader struct {
	provider Provider
	local    *LocalProvider
	now      func() time.Time
}

func NewUploader(provider Provider, local *LocalProvider) *Uploader {
	return &Uploader{
		provider: provider,
		local:    local,
		now:      time.Now,
	}
}

// ProviderName reports which provider is bound for this process.
func (u *Uploader) ProviderName() string { return u.provider.Name() }

// Upload stores the file and returns the links callers persist alongside the
// application record. The content is buffered so a failed provider attempt
// can be retried against local disk with the same bytes.
func (u *Uploader) Upload(ctx context.Context, owner, category, filename string, r io.Reader, contentType string) (Result, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}

	key := u.objectKey(owner, category, filename)
	size := int64(buf.Len())

	res, err := u.provider.Upload(ctx, key, bytes.NewReader(buf.Bytes()), size, contentType)
	if err == nil {
		return res, nil
	}
	if u.provider.Name() == u.local.Name() {
		return Result{}, fmt.Errorf("store %s: %w", key, err)
	}

	res, localErr := u.local.Upload(ctx, key, bytes.NewReader(buf.Bytes()), size, contentType)
	if localErr != nil {
		return Result{}, fmt.Errorf("store %s: provider %s failed (%v), local fallback failed: %w", key, u.provider.Name(), err, localErr)
	}
	return res, nil
}

func (u *Uploader) objectKey(owner, category, filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := u.now().Format("20060102_150405")
	return fmt.Sprintf("%s/%s/%s_%s%s", owner, category, stem, stamp, ext)
}
