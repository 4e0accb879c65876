package storage

import (
	"context"
	"time"
)

// ObjectInfo is metadata for one stored backup archive.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage captures the S3-compatible operations the backup flow
// needs. Keys are workbook filenames under a fixed prefix.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, payload []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
