package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Object is a single blob to store.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service stores user uploaded media in remote object storage.
type Service interface {
	// Put uploads obj and returns the URL it is publicly served from.
	Put(ctx context.Context, obj Object) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DeleteObjects(ctx context.Context, keys ...string) error
}
