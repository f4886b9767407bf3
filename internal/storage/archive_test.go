package storage

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestRecordingKey(t *testing.T) {
	assert.Equal(t, "recordings/0f8e6a52-3c1d-4d2b-9b5e-1a2b3c4d5e6f", RecordingKey("0f8e6a52-3c1d-4d2b-9b5e-1a2b3c4d5e6f"))
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"audio/webm", "audio/webm"},
		{"audio/webm;codecs=opus", "audio/webm"},
		{"", "application/octet-stream"},
		{"not a type;;", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeContentType(tt.in), tt.in)
	}
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Backend: "gcs", Bucket: "b"})
	assert.ErrorContains(t, err, "unknown archive backend")

	_, err = New(ctx, Config{Backend: "s3"})
	assert.ErrorContains(t, err, "S3_BUCKET")

	_, err = New(ctx, Config{Backend: "minio", Bucket: "b"})
	assert.ErrorContains(t, err, "S3_ENDPOINT")
}

func TestArchive_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcminio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := Config{
		Bucket:    "pitchscope-test-" + uuid.New().String()[:8],
		Endpoint:  endpoint,
		Region:    "us-east-1",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}

	cfg.Backend = "minio"
	minioStore, err := New(ctx, cfg)
	require.NoError(t, err)

	cfg.Backend = "s3"
	s3Store, err := New(ctx, cfg)
	require.NoError(t, err)

	client := minioStore.(*minioArchive).client

	t.Run("minio backend", func(t *testing.T) {
		key := RecordingKey(uuid.New().String())
		require.NoError(t, minioStore.Store(ctx, key, []byte("webm bytes"), "audio/webm;codecs=opus"))

		obj, err := client.GetObject(ctx, cfg.Bucket, key, minio.GetObjectOptions{})
		require.NoError(t, err)
		defer obj.Close()

		data, err := io.ReadAll(obj)
		require.NoError(t, err)
		assert.Equal(t, "webm bytes", string(data))

		info, err := obj.Stat()
		require.NoError(t, err)
		assert.Equal(t, "audio/webm", info.ContentType)
	})

	t.Run("s3 backend", func(t *testing.T) {
		key := RecordingKey(uuid.New().String())
		require.NoError(t, s3Store.Store(ctx, key, []byte("ogg bytes"), "audio/ogg"))

		obj, err := client.GetObject(ctx, cfg.Bucket, key, minio.GetObjectOptions{})
		require.NoError(t, err)
		defer obj.Close()

		data, err := io.ReadAll(obj)
		require.NoError(t, err)
		assert.Equal(t, "ogg bytes", string(data))
	})

	t.Run("existing bucket is reused", func(t *testing.T) {
		cfg.Backend = "minio"
		_, err := New(ctx, cfg)
		assert.NoError(t, err)
	})
}
