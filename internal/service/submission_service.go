package service

import (
	"context"
	"database/sql"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snehn77/Editor/internal/changeset"
	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type historyWriter interface {
	Insert(ctx context.Context, record *models.HistoryRecord, details []models.ChangeDetail) error
}

type batchStatusStore interface {
	GetBatchMetadata(ctx context.Context, batchID string) (*models.BatchMetadata, error)
	SetBatchStatus(ctx context.Context, batchID string, status models.BatchStatus) error
}

type documentUploader interface {
	Upload(ctx context.Context, data []byte, fileName, folder string) (string, error)
}

// SubmissionConfig tunes submissions.
type SubmissionConfig struct {
	RootFolder     string
	RejectResubmit bool
}

// SubmitRequest carries the submitter and optional notes.
type SubmitRequest struct {
	Username string
	Notes    string
}

// SubmissionService turns a batch's draft into a permanent audit record and
// its review workbook.
type SubmissionService struct {
	rows     baseRowReader
	drafts   activeDraftReader
	batches  batchStatusStore
	history  historyWriter
	renderer workbookRenderer
	uploader documentUploader
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      SubmissionConfig
	now      func() time.Time
	newID    func() string
}

// NewSubmissionService constructs the service.
func NewSubmissionService(rows baseRowReader, drafts activeDraftReader, batches batchStatusStore, history historyWriter, renderer workbookRenderer, uploader documentUploader, metrics *MetricsService, cfg SubmissionConfig, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = NewWorkbookRenderer()
	}
	if cfg.RootFolder == "" {
		cfg.RootFolder = "RC_Table_Editor"
	}
	return &SubmissionService{
		rows:     rows,
		drafts:   drafts,
		batches:  batches,
		history:  history,
		renderer: renderer,
		uploader: uploader,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Submit renders, uploads and records the batch's active change-set.
//
// Rendering failures abort before anything is uploaded or written. Upload
// failures only cost the document link. Marking the batch Submitted happens
// after the audit record is committed and is not rolled back on failure.
func (s *SubmissionService) Submit(ctx context.Context, batchID string, req SubmitRequest) (*models.HistoryRecord, error) {
	record, err := s.submit(ctx, batchID, req)
	switch {
	case err == nil:
		s.metrics.RecordSubmission(SubmissionSucceeded)
	case appErrors.Is(err, appErrors.ErrValidation), appErrors.Is(err, appErrors.ErrNotFound), appErrors.Is(err, appErrors.ErrAlreadySubmitted):
		s.metrics.RecordSubmission(SubmissionRejected)
	default:
		s.metrics.RecordSubmission(SubmissionFailed)
	}
	return record, err
}

func (s *SubmissionService) submit(ctx context.Context, batchID string, req SubmitRequest) (*models.HistoryRecord, error) {
	if err := requireBatchID(batchID); err != nil {
		return nil, err
	}
	base, err := s.rows.GetRows(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no data found for the specified batch")
	}
	changes, err := s.drafts.ListActive(ctx, batchID)
	if err != nil {
		return nil, s.storageFailure("list_drafts", batchID, err)
	}
	if len(changes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no changes to submit")
	}
	if err := s.guardResubmit(ctx, batchID); err != nil {
		return nil, err
	}

	username := ResolveUsername(nil, req.Username)
	process, layer := base[0].Process, base[0].Layer
	changeID := s.newID()
	now := s.now()

	details, err := changeset.BuildDetails(changeID, process, layer, changes, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "draft contains an invalid change")
	}

	start := time.Now()
	workbook, err := s.renderer.Render(base, changes, process, layer)
	s.metrics.ObserveRender(time.Since(start))
	if err != nil {
		s.logger.Error("submission render failed", zap.String("batch_id", batchID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRender.Code, appErrors.ErrRender.Status, appErrors.ErrRender.Message)
	}

	fileName := ArtifactFileName(process, layer, now, "xlsx")
	documentURL := s.upload(ctx, batchID, workbook, fileName, path.Join(s.cfg.RootFolder, sanitizeName(process), sanitizeName(layer)))

	record := &models.HistoryRecord{
		ChangeID:       changeID,
		BatchID:        batchID,
		Timestamp:      now,
		Username:       username,
		ChangeType:     changeset.AggregateChangeType(changes),
		Process:        process,
		ExcelFilePath:  &fileName,
		DocumentURL:    optionalString(documentURL),
		ApprovalStatus: models.ApprovalStatusPending,
		Notes:          optionalString(strings.TrimSpace(req.Notes)),
		CreatedAt:      now,
	}
	if err := s.history.Insert(ctx, record, details); err != nil {
		return nil, s.storageFailure("insert_history", batchID, err)
	}

	if err := s.batches.SetBatchStatus(ctx, batchID, models.BatchStatusSubmitted); err != nil {
		s.logger.Warn("batch status not updated after submission",
			zap.String("batch_id", batchID),
			zap.String("change_id", changeID),
			zap.Error(err),
		)
	}

	s.logger.Info("batch submitted",
		zap.String("batch_id", batchID),
		zap.String("change_id", changeID),
		zap.String("username", username),
		zap.Int("changes", len(changes)),
		zap.Int("details", len(details)),
		zap.Bool("document_stored", documentURL != ""),
	)
	return record, nil
}

func (s *SubmissionService) guardResubmit(ctx context.Context, batchID string) error {
	if !s.cfg.RejectResubmit {
		return nil
	}
	meta, err := s.batches.GetBatchMetadata(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return s.storageFailure("get_batch_metadata", batchID, err)
	}
	if meta.Status == models.BatchStatusSubmitted {
		return appErrors.Clone(appErrors.ErrAlreadySubmitted, "batch "+batchID+" was already submitted")
	}
	return nil
}

// upload stores the workbook and returns its URL, or "" when no document
// store is configured or the upload failed.
func (s *SubmissionService) upload(ctx context.Context, batchID string, data []byte, fileName, folder string) string {
	if s.uploader == nil {
		s.metrics.RecordUpload(UploadSkipped)
		return ""
	}
	url, err := s.uploader.Upload(ctx, data, fileName, folder)
	if err != nil {
		s.metrics.RecordUpload(UploadDegraded)
		s.logger.Warn("document upload failed; submitting without a link",
			zap.String("batch_id", batchID),
			zap.String("file", fileName),
			zap.Error(err),
		)
		return ""
	}
	if url == "" {
		s.metrics.RecordUpload(UploadSkipped)
		return ""
	}
	s.metrics.RecordUpload(UploadStored)
	return url
}

func (s *SubmissionService) storageFailure(operation, batchID string, err error) error {
	s.logger.Error("storage operation failed",
		zap.String("operation", operation),
		zap.String("batch_id", batchID),
		zap.Error(err),
	)
	return storageError(err)
}
