package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snehn77/Editor/internal/changeset"
	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/export"
)

type rowStore interface {
	ListActiveByBatch(ctx context.Context, batchID string) ([]models.Row, error)
	CopyFromSource(ctx context.Context, batchID string, q models.RowQuery, username string, now time.Time) (int64, error)
	InsertBatch(ctx context.Context, batchID string, source models.RowSource, rows []models.Row) error
}

type batchMetadataStore interface {
	UpsertBatchMetadata(ctx context.Context, meta models.BatchMetadata) error
	GetBatchMetadata(ctx context.Context, batchID string) (*models.BatchMetadata, error)
}

type activeDraftReader interface {
	ListActive(ctx context.Context, batchID string) ([]models.Change, error)
}

type workbookRenderer interface {
	Render(base []models.Row, changes []models.Change, process, layer string) ([]byte, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// TableDataConfig tunes batch loading.
type TableDataConfig struct {
	MaxImportBytes int64
	RowsCacheTTL   time.Duration
}

// TableDataService loads batches from the source table or a workbook and
// serves their base rows.
type TableDataService struct {
	rows      rowStore
	batches   batchMetadataStore
	drafts    activeDraftReader
	cache     *CacheService
	workbook  workbookRenderer
	csv       datasetRenderer
	pdf       datasetRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TableDataConfig
	now       func() time.Time
}

// NewTableDataService constructs the service.
func NewTableDataService(rows rowStore, batches batchMetadataStore, drafts activeDraftReader, cache *CacheService, workbook workbookRenderer, cfg TableDataConfig, logger *zap.Logger) *TableDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workbook == nil {
		workbook = NewWorkbookRenderer()
	}
	if cfg.MaxImportBytes <= 0 {
		cfg.MaxImportBytes = 10 * 1024 * 1024
	}
	return &TableDataService{
		rows:      rows,
		batches:   batches,
		drafts:    drafts,
		cache:     cache,
		workbook:  workbook,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validator.New(),
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// QueryBatch copies the source rows matching q into a new batch.
func (s *TableDataService) QueryBatch(ctx context.Context, q models.RowQuery, username string) (*models.BatchCreated, error) {
	q.Process = strings.TrimSpace(q.Process)
	q.Layer = strings.TrimSpace(q.Layer)
	q.Operation = strings.TrimSpace(q.Operation)
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "process and layer are required")
	}

	batchID := uuid.NewString()
	count, err := s.rows.CopyFromSource(ctx, batchID, q, username, s.now())
	if err != nil {
		return nil, s.storageFailure("copy_source_rows", batchID, err)
	}
	if count == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no data found for the specified criteria")
	}

	meta := models.BatchMetadata{
		BatchID:       batchID,
		Source:        models.RowSourceExternalDB,
		Process:       q.Process,
		Layer:         q.Layer,
		OperationList: q.Operation,
		Username:      username,
	}
	if err := s.batches.UpsertBatchMetadata(ctx, meta); err != nil {
		return nil, s.storageFailure("upsert_batch_metadata", batchID, err)
	}

	s.logger.Info("batch created from source table",
		zap.String("batch_id", batchID),
		zap.String("process", q.Process),
		zap.String("layer", q.Layer),
		zap.Int64("records", count),
	)
	return &models.BatchCreated{BatchID: batchID, RecordCount: count, Source: models.RowSourceExternalDB}, nil
}

// ImportBatch creates a batch from the first worksheet of an uploaded workbook.
func (s *TableDataService) ImportBatch(ctx context.Context, r io.Reader, fileName string, size int64, username string) (*models.BatchCreated, error) {
	if size > s.cfg.MaxImportBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxImportBytes))
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only .xlsx workbooks can be imported")
	}

	sheet, err := export.ReadFirstSheet(io.LimitReader(r, s.cfg.MaxImportBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workbook")
	}
	rows := parseImportedRows(sheet, username, s.now())
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no valid data found in the workbook")
	}

	batchID := uuid.NewString()
	if err := s.rows.InsertBatch(ctx, batchID, models.RowSourceExcel, rows); err != nil {
		return nil, s.storageFailure("import_rows", batchID, err)
	}

	name := filepath.Base(fileName)
	meta := models.BatchMetadata{
		BatchID:       batchID,
		Source:        models.RowSourceExcel,
		FileName:      &name,
		Process:       rows[0].Process,
		Layer:         rows[0].Layer,
		OperationList: rows[0].OperationList,
		Username:      username,
	}
	if err := s.batches.UpsertBatchMetadata(ctx, meta); err != nil {
		return nil, s.storageFailure("upsert_batch_metadata", batchID, err)
	}

	s.logger.Info("batch imported from workbook",
		zap.String("batch_id", batchID),
		zap.String("file", name),
		zap.Int("records", len(rows)),
	)
	return &models.BatchCreated{BatchID: batchID, RecordCount: int64(len(rows)), Source: models.RowSourceExcel}, nil
}

// GetRows returns the batch's active base rows ordered by row id. Base rows
// never change once loaded, so they are cached by batch id.
func (s *TableDataService) GetRows(ctx context.Context, batchID string) ([]models.Row, error) {
	if strings.TrimSpace(batchID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch id is required")
	}
	var rows []models.Row
	if s.cache.Get(ctx, BatchRowsKey(batchID), &rows) {
		return rows, nil
	}
	rows, err := s.rows.ListActiveByBatch(ctx, batchID)
	if err != nil {
		return nil, s.storageFailure("list_rows", batchID, err)
	}
	if rows == nil {
		rows = []models.Row{}
	}
	if len(rows) > 0 {
		s.cache.Set(ctx, BatchRowsKey(batchID), rows, s.cfg.RowsCacheTTL)
	}
	return rows, nil
}

// Export renders the batch's original or effective rows in the requested format.
func (s *TableDataService) Export(ctx context.Context, batchID string, view models.ExportView, format models.ExportFormat) (*models.ExportFile, error) {
	switch format {
	case models.ExportFormatXLSX, models.ExportFormatCSV, models.ExportFormatPDF:
	case "":
		format = models.ExportFormatXLSX
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	switch view {
	case models.ExportViewOriginal, models.ExportViewEffective:
	case "":
		view = models.ExportViewOriginal
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export view %q", view))
	}

	base, err := s.GetRows(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no data found for the specified batch")
	}

	changes := []models.Change{}
	if view == models.ExportViewEffective {
		if changes, err = s.drafts.ListActive(ctx, batchID); err != nil {
			return nil, s.storageFailure("list_drafts", batchID, err)
		}
	}
	process, layer := s.describe(ctx, batchID, base)

	var data []byte
	switch format {
	case models.ExportFormatXLSX:
		data, err = s.workbook.Render(base, changes, process, layer)
	case models.ExportFormatCSV:
		data, err = s.csv.Render(RowsDataset(exportTitle(process, layer, view), changeset.Project(base, changes)))
	case models.ExportFormatPDF:
		data, err = s.pdf.Render(RowsDataset(exportTitle(process, layer, view), changeset.Project(base, changes)))
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("batch_id", batchID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRender.Code, appErrors.ErrRender.Status, appErrors.ErrRender.Message)
	}

	return &models.ExportFile{
		FileName:    ArtifactFileName(process, layer, s.now(), string(format)),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// describe returns the process and layer recorded for the batch, falling back to its first row.
func (s *TableDataService) describe(ctx context.Context, batchID string, base []models.Row) (string, string) {
	meta, err := s.batches.GetBatchMetadata(ctx, batchID)
	if err == nil && meta.Process != "" {
		return meta.Process, meta.Layer
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("batch metadata lookup failed", zap.String("batch_id", batchID), zap.Error(err))
	}
	if len(base) > 0 {
		return base[0].Process, base[0].Layer
	}
	return "", ""
}

func (s *TableDataService) storageFailure(operation, batchID string, err error) error {
	s.logger.Error("storage operation failed",
		zap.String("operation", operation),
		zap.String("batch_id", batchID),
		zap.Error(err),
	)
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, appErrors.ErrStorage.Message)
}

func exportTitle(process, layer string, view models.ExportView) string {
	if view == models.ExportViewEffective {
		return fmt.Sprintf("RC Table %s / %s (with pending changes)", process, layer)
	}
	return fmt.Sprintf("RC Table %s / %s", process, layer)
}

// ArtifactFileName names generated workbooks TableData_{process}_{layer}_{yyyyMMdd_HHmmss}.{ext}.
func ArtifactFileName(process, layer string, at time.Time, ext string) string {
	return fmt.Sprintf("TableData_%s_%s_%s.%s", sanitizeName(process), sanitizeName(layer), at.UTC().Format("20060102_150405"), ext)
}

func sanitizeName(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, v)
}
