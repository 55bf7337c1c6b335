package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type historyReader interface {
	GetByID(ctx context.Context, changeID string) (*models.HistoryRecord, error)
	ListDetails(ctx context.Context, changeID string) ([]models.ChangeDetail, error)
	List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, int, error)
}

// HistoryEntry is a history record with its details.
type HistoryEntry struct {
	models.HistoryRecord
	Details []models.ChangeDetail `json:"details"`
}

// SubmissionStatus is the approval state of one submission.
type SubmissionStatus struct {
	ChangeID     string                `json:"changeId"`
	Status       models.ApprovalStatus `json:"status"`
	Timestamp    time.Time             `json:"timestamp"`
	ApprovalDate *time.Time            `json:"approvalDate,omitempty"`
	ApprovedBy   *string               `json:"approvedBy,omitempty"`
	DocumentURL  *string               `json:"documentUrl,omitempty"`
}

// HistoryService reads the submission audit trail.
type HistoryService struct {
	repo   historyReader
	logger *zap.Logger
}

// NewHistoryService constructs the service.
func NewHistoryService(repo historyReader, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{repo: repo, logger: logger}
}

// List returns matching records newest first with pagination metadata.
func (s *HistoryService) List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, *models.Pagination, error) {
	switch filter.Status {
	case "", models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ApprovalStatusRejected:
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "status must be Pending, Approved or Rejected")
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "toDate must not be before fromDate")
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("history list failed", zap.Error(err))
		return nil, nil, storageError(err)
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	return records, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a record and its details.
func (s *HistoryService) Get(ctx context.Context, changeID string) (*HistoryEntry, error) {
	record, err := s.record(ctx, changeID)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.ListDetails(ctx, changeID)
	if err != nil {
		s.logger.Error("history details lookup failed", zap.String("change_id", changeID), zap.Error(err))
		return nil, storageError(err)
	}
	if details == nil {
		details = []models.ChangeDetail{}
	}
	return &HistoryEntry{HistoryRecord: *record, Details: details}, nil
}

// Status reports the approval state of a submission.
func (s *HistoryService) Status(ctx context.Context, changeID string) (*SubmissionStatus, error) {
	record, err := s.record(ctx, changeID)
	if err != nil {
		return nil, err
	}
	return &SubmissionStatus{
		ChangeID:     record.ChangeID,
		Status:       record.ApprovalStatus,
		Timestamp:    record.Timestamp,
		ApprovalDate: record.ApprovalDate,
		ApprovedBy:   record.ApprovedBy,
		DocumentURL:  record.DocumentURL,
	}, nil
}

// DocumentURL returns where the submission's workbook was stored.
func (s *HistoryService) DocumentURL(ctx context.Context, changeID string) (string, error) {
	record, err := s.record(ctx, changeID)
	if err != nil {
		return "", err
	}
	if record.DocumentURL == nil || *record.DocumentURL == "" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no workbook was stored for this submission")
	}
	return *record.DocumentURL, nil
}

func (s *HistoryService) record(ctx context.Context, changeID string) (*models.HistoryRecord, error) {
	if strings.TrimSpace(changeID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "change id is required")
	}
	record, err := s.repo.GetByID(ctx, changeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "change history not found")
		}
		s.logger.Error("history lookup failed", zap.String("change_id", changeID), zap.Error(err))
		return nil, storageError(err)
	}
	return record, nil
}
