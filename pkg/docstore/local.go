package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/snehn77/Editor/pkg/storage"
)

// Local stores documents on disk and hands out signed download links served
// by the API's /documents route.
type Local struct {
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	baseURL string
}

// NewLocal constructs a filesystem backed uploader.
func NewLocal(store *storage.LocalStorage, signer *storage.SignedURLSigner, baseURL string) *Local {
	return &Local{storage: store, signer: signer, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes the document and returns a signed download URL.
func (l *Local) Upload(ctx context.Context, data []byte, fileName, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := l.storage.Save(ObjectKey(folder, fileName), data)
	if err != nil {
		return "", err
	}
	token, _, err := l.signer.Generate(uuid.NewString(), rel)
	if err != nil {
		return "", fmt.Errorf("sign document url: %w", err)
	}
	return l.baseURL + "/documents/" + token, nil
}

// Open resolves a signed token to the stored document bytes and file name.
func (l *Local) Open(token string) ([]byte, string, error) {
	_, rel, err := l.signer.Parse(token)
	if err != nil {
		return nil, "", err
	}
	data, err := l.storage.Read(rel)
	if err != nil {
		return nil, "", err
	}
	name := rel
	if idx := strings.LastIndex(rel, "/"); idx >= 0 {
		name = rel[idx+1:]
	}
	return data, name, nil
}
