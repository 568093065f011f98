package config

import (
	"context"
	"fmt"

	file "filmbase/src/modules/files/services"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ConnectMinio returns a store bound to the configured bucket, creating it if needed.
func ConnectMinio(ctx context.Context, s MinioSettings) (*file.MinioStore, error) {
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := file.NewMinioStore(client, s.Bucket)
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Infof("action: minio_connect | result: success | endpoint: %s | bucket: %s", s.Endpoint, s.Bucket)
	return store, nil
}
