// Package storage provides publishing of final pipeline artifacts.
// It defines the Publisher port and implementations for a local output
// directory and S3.
package storage

import (
	"context"
	"io"
)

// Publisher defines where a finished artifact ends up.
// Implementations must return a location string the operator can use:
// a filesystem path for local publishing, a public URL for S3.
type Publisher interface {
	// Publish stores the artifact data under the given key and returns
	// its final location.
	Publish(ctx context.Context, key string, data io.Reader) (location string, err error)
}
