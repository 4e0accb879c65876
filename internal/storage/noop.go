package storage

import (
	"context"
	"fmt"
)

// NoopStorage is used when no backup bucket is configured. Uploads are
// dropped silently so the backup download flow still works offline.
type NoopStorage struct{}

func NewNoopStorage() *NoopStorage {
	return &NoopStorage{}
}

func (*NoopStorage) Upload(ctx context.Context, key string, payload []byte, contentType string) error {
	return nil
}

func (*NoopStorage) Download(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("no backup storage configured")
}

func (*NoopStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return []ObjectInfo{}, nil
}

var _ ObjectStorage = (*NoopStorage)(nil)
