package s3_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/storage/s3"
	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MinIO speaks the S3 API, so it stands in for AWS here.
func setupS3Container(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, port.Port()), func() { _ = container.Terminate(ctx) }
}

func TestAdapter(t *testing.T) {
	endpoint, cleanup := setupS3Container(t)
	defer cleanup()
	ctx := context.Background()

	adapter, err := s3.NewAdapter(ctx, config.S3Config{
		Endpoint:     endpoint,
		Region:       "us-east-1",
		BucketName:   "archive-s3",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	t.Run("Put then Get - Round trip", func(t *testing.T) {
		// Arrange
		name := domain.NewStorageName("contract.pdf")
		content := "%PDF-1.7 engagement letter"

		// Act
		err := adapter.PutObject(ctx, name, strings.NewReader(content), int64(len(content)), "application/pdf")

		// Assert
		require.NoError(t, err)
		body, err := adapter.GetObject(ctx, name)
		require.NoError(t, err)
		defer body.Close()
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	})

	t.Run("Exists - Absent then present then deleted", func(t *testing.T) {
		// Arrange
		name := domain.NewStorageName("memo.txt")

		// Act
		before, errBefore := adapter.ObjectExists(ctx, name)
		require.NoError(t, adapter.PutObject(ctx, name, strings.NewReader("memo"), 4, "text/plain"))
		during, errDuring := adapter.ObjectExists(ctx, name)
		require.NoError(t, adapter.DeleteObject(ctx, name))
		after, errAfter := adapter.ObjectExists(ctx, name)

		// Assert
		require.NoError(t, errBefore)
		require.NoError(t, errDuring)
		require.NoError(t, errAfter)
		assert.False(t, before)
		assert.True(t, during)
		assert.False(t, after)
	})

	t.Run("Get - Missing object", func(t *testing.T) {
		// Act
		_, err := adapter.GetObject(ctx, "missing-key")

		// Assert
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	t.Run("Delete - Absent object", func(t *testing.T) {
		// Act
		err := adapter.DeleteObject(ctx, "never-written")

		// Assert
		assert.NoError(t, err)
	})
}
