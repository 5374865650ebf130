package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/OnteruYallaiah21/Getiva-app/internal/config"
)

// Select binds the upload provider for the lifetime of the process. Providers
// are tried in priority order (Google Drive, Supabase, S3) and the first one
// whose configuration is complete and valid wins. Malformed or missing
// configuration is logged and skipped; the local provider is the terminal
// fallback and always succeeds.
func Select(ctx context.Context, cfg *config.AppConfig, local *LocalProvider) Provider {
	if cfg.GoogleDrive.CredentialsFile != "" {
		p, err := NewDrive(ctx, cfg.GoogleDrive)
		if err == nil {
			logSelect(p.Name())
			return p
		}
		logSkip("gdrive", err)
	}

	if cfg.Supabase.URL != "" || cfg.Supabase.Key != "" {
		p, err := NewSupabase(cfg.Supabase)
		if err == nil {
			logSelect(p.Name())
			return p
		}
		logSkip("supabase", err)
	}

	if cfg.S3.Endpoint != "" {
		p, err := NewS3(cfg.S3)
		if err == nil {
			logSelect(p.Name())
			return p
		}
		logSkip("s3", err)
	}

	logSelect(local.Name())
	return local
}

func logSelect(name string) {
	logEvent(map[string]any{
		"component": "storage",
		"event":     "provider_selected",
		"status":    "success",
		"provider":  name,
	})
}

func logSkip(name string, err error) {
	logEvent(map[string]any{
		"component": "storage",
		"event":     "provider_skipped",
		"status":    "warning",
		"level":     "warn",
		"provider":  name,
		"error":     err.Error(),
	})
}

func logEvent(data map[string]any) {
	data["ts"] = time.Now().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal storage log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
