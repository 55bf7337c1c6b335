package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/dto"
	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/response"
)

type tableDataService interface {
	QueryBatch(ctx context.Context, q models.RowQuery, username string) (*models.BatchCreated, error)
	ImportBatch(ctx context.Context, r io.Reader, fileName string, size int64, username string) (*models.BatchCreated, error)
	GetRows(ctx context.Context, batchID string) ([]models.Row, error)
	Export(ctx context.Context, batchID string, view models.ExportView, format models.ExportFormat) (*models.ExportFile, error)
}

// TableDataHandler loads batches and serves their base rows.
type TableDataHandler struct {
	service tableDataService
}

// NewTableDataHandler constructs the handler.
func NewTableDataHandler(service tableDataService) *TableDataHandler {
	return &TableDataHandler{service: service}
}

// Query godoc
// @Summary Create a batch from the source table
// @Tags TableData
// @Accept json
// @Produce json
// @Param payload body dto.QueryBatchRequest true "Selection"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tabledata/query [post]
func (h *TableDataHandler) Query(c *gin.Context) {
	var req dto.QueryBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "process and layer are required"))
		return
	}
	created, err := h.service.QueryBatch(c.Request.Context(), models.RowQuery{
		Process:   req.Process,
		Layer:     req.Layer,
		Operation: req.Operation,
	}, actingUser(c, req.Username))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toBatchCreated(created))
}

// Import godoc
// @Summary Create a batch from an uploaded workbook
// @Tags TableData
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Param username formData string false "Uploader"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /tabledata/import [post]
func (h *TableDataHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no file uploaded"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable upload"))
		return
	}
	defer file.Close()

	created, err := h.service.ImportBatch(c.Request.Context(), file, header.Filename, header.Size, actingUser(c, c.PostForm("username")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toBatchCreated(created))
}

// Rows godoc
// @Summary List a batch's base rows
// @Tags TableData
// @Produce json
// @Param batchId path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /tabledata/{batchId} [get]
func (h *TableDataHandler) Rows(c *gin.Context) {
	rows, err := h.service.GetRows(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"count": len(rows)})
}

// Export godoc
// @Summary Download a batch
// @Tags TableData
// @Produce application/octet-stream
// @Param batchId path string true "Batch ID"
// @Param view query string false "original or effective"
// @Param format query string false "xlsx, csv or pdf"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /tabledata/export/{batchId} [get]
func (h *TableDataHandler) Export(c *gin.Context) {
	view := models.ExportView(strings.ToLower(strings.TrimSpace(c.Query("view"))))
	format := models.ExportFormat(strings.ToLower(strings.TrimSpace(c.Query("format"))))
	file, err := h.service.Export(c.Request.Context(), c.Param("batchId"), view, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.FileName, file.ContentType, file.Data)
}

func toBatchCreated(created *models.BatchCreated) dto.BatchCreatedResponse {
	return dto.BatchCreatedResponse{BatchID: created.BatchID, RecordCount: created.RecordCount, Source: created.Source}
}
