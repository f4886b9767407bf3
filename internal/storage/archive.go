package storage

import (
	"context"
	"fmt"
	"mime"
)

// Archive keeps copies of uploaded recordings
type Archive interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
}

// Config holds configuration for an archive backend
type Config struct {
	Backend   string
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New creates the archive selected by cfg.Backend
func New(ctx context.Context, cfg Config) (Archive, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Archive(ctx, cfg)
	case "minio":
		return NewMinioArchive(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// RecordingKey returns the object key of an archived upload
func RecordingKey(analysisID string) string {
	return "recordings/" + analysisID
}

// normalizeContentType strips parameters such as codecs and falls back to a
// generic binary type for anything unparsable
func normalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return "application/octet-stream"
	}
	return mediaType
}
