package core

import (
	"context"
	"io"
)

// FileStore persists uploaded files.
type FileStore interface {
	// Save stores the content under a generated name and returns its public path.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
}
