package handler

import (
	"errors"
	"mime"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/response"
	"github.com/snehn77/Editor/pkg/storage"
)

type documentOpener interface {
	Open(token string) ([]byte, string, error)
}

// DocumentHandler streams workbooks kept by the local document store.
type DocumentHandler struct {
	store documentOpener
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(store documentOpener) *DocumentHandler {
	return &DocumentHandler{store: store}
}

// Download godoc
// @Summary Download a stored submission workbook
// @Tags Documents
// @Produce application/octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{token} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	if h.store == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "document store not configured"))
		return
	}
	data, name, err := h.store.Open(c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenInvalid), errors.Is(err, storage.ErrTokenExpired):
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired document link"))
		case errors.Is(err, os.ErrNotExist):
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "document not found"))
		default:
			response.Error(c, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "read document"))
		}
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	response.Attachment(c, name, contentType, data)
}
