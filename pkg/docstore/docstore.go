// Package docstore uploads generated workbooks to a document store and
// returns a URL for the stored copy. An unconfigured store yields an empty
// URL rather than an error.
package docstore

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/snehn77/Editor/pkg/config"
	"github.com/snehn77/Editor/pkg/storage"
)

// Uploader stores a document under folder/fileName.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, folder string) (string, error)
}

// New builds the uploader selected by cfg.Driver.
func New(cfg config.DocStoreConfig, logger *zap.Logger) (Uploader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		up  Uploader
		err error
	)
	switch cfg.Driver {
	case "", config.DocStoreNone:
		logger.Info("document store not configured, submissions will carry no document url")
		return Noop{}, nil
	case config.DocStoreLocal:
		var local *storage.LocalStorage
		local, err = storage.NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		up = NewLocal(local, storage.NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL), cfg.PublicBaseURL)
	case config.DocStoreS3:
		up, err = NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown document store driver %q", cfg.Driver)
	}

	return WithTimeout(up, cfg.UploadTimeout), nil
}

// Noop is the unconfigured store.
type Noop struct{}

// Upload always returns an empty URL.
func (Noop) Upload(context.Context, []byte, string, string) (string, error) {
	return "", nil
}

type timeoutUploader struct {
	next    Uploader
	timeout time.Duration
}

// WithTimeout bounds every upload made through next.
func WithTimeout(next Uploader, timeout time.Duration) Uploader {
	if timeout <= 0 {
		return next
	}
	return &timeoutUploader{next: next, timeout: timeout}
}

func (u *timeoutUploader) Upload(ctx context.Context, data []byte, fileName, folder string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.next.Upload(ctx, data, fileName, folder)
}

// ObjectKey joins folder and file name into a slash separated key.
func ObjectKey(folder, fileName string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return fileName
	}
	return path.Join(folder, fileName)
}

// AsLocal returns the filesystem store behind up, if any.
func AsLocal(up Uploader) (*Local, bool) {
	if t, ok := up.(*timeoutUploader); ok {
		up = t.next
	}
	local, ok := up.(*Local)
	return local, ok
}
