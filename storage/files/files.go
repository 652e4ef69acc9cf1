// Package files stores uploaded files and returns their public path.
package files

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
)

const (
	BackendLocal = "local"
	BackendB2    = "b2"
)

// New returns the store selected by uploads.backend.
func New(ctx context.Context, conf *core.Config) (core.FileStore, error) {
	switch conf.Uploads.Backend {
	case "", BackendLocal:
		return NewLocalStore(conf.Uploads.Dir, conf.Uploads.URLPrefix)
	case BackendB2:
		return NewB2Store(ctx, conf.Uploads.B2KeyID, conf.Uploads.B2AppKey, conf.Uploads.B2Bucket)
	default:
		return nil, errors.Errorf("unknown uploads backend %q", conf.Uploads.Backend)
	}
}

// objectName keeps the extension of the original name only.
func objectName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.New().String() + ext
}
