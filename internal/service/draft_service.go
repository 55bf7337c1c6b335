package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/snehn77/Editor/internal/changeset"
	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type draftStore interface {
	SaveChangeSet(ctx context.Context, batchID string, changes []models.Change) error
	ListActive(ctx context.Context, batchID string) ([]models.Change, error)
	Discard(ctx context.Context, batchID string) error
}

// DraftService maintains each batch's pending change-set.
//
// Saves replace the stored set wholesale. Two sessions writing the same batch
// race and the later write wins; nothing here locks across requests.
type DraftService struct {
	store   draftStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewDraftService constructs the service.
func NewDraftService(store draftStore, metrics *MetricsService, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{store: store, metrics: metrics, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the active change-set, empty when none was saved.
func (s *DraftService) Get(ctx context.Context, batchID string) ([]models.Change, error) {
	if err := requireBatchID(batchID); err != nil {
		return nil, err
	}
	changes, err := s.store.ListActive(ctx, batchID)
	if err != nil {
		return nil, storageError(err)
	}
	if changes == nil {
		changes = []models.Change{}
	}
	return changes, nil
}

// Replace stores changes as the batch's entire change-set, keeping the last
// change per row. An empty set clears the draft.
func (s *DraftService) Replace(ctx context.Context, batchID string, changes []models.Change, username string) ([]models.Change, error) {
	if err := requireBatchID(batchID); err != nil {
		return nil, err
	}
	prepared, err := s.prepare(nil, changes, username)
	if err != nil {
		return nil, err
	}
	prepared = changeset.Reconcile(nil, prepared)
	if err := s.store.SaveChangeSet(ctx, batchID, prepared); err != nil {
		return nil, storageError(err)
	}
	s.metrics.RecordDraftSave("replace", len(prepared))
	s.logger.Info("draft replaced", zap.String("batch_id", batchID), zap.String("username", username), zap.Int("changes", len(prepared)))
	return prepared, nil
}

// Merge reconciles incoming changes into the stored set: a change on a row
// supersedes every earlier change on that row, new adds are appended.
func (s *DraftService) Merge(ctx context.Context, batchID string, incoming []models.Change, username string) ([]models.Change, error) {
	if err := requireBatchID(batchID); err != nil {
		return nil, err
	}
	existing, err := s.store.ListActive(ctx, batchID)
	if err != nil {
		return nil, storageError(err)
	}
	prepared, err := s.prepare(existing, incoming, username)
	if err != nil {
		return nil, err
	}
	merged := changeset.Reconcile(existing, prepared)
	if err := s.store.SaveChangeSet(ctx, batchID, merged); err != nil {
		return nil, storageError(err)
	}
	s.metrics.RecordDraftSave("merge", len(merged))
	s.logger.Info("draft merged",
		zap.String("batch_id", batchID),
		zap.String("username", username),
		zap.Int("incoming", len(prepared)),
		zap.Int("changes", len(merged)),
	)
	return merged, nil
}

// Discard tombstones the batch's draft. The batch itself stays Active.
func (s *DraftService) Discard(ctx context.Context, batchID string) error {
	if err := requireBatchID(batchID); err != nil {
		return err
	}
	if err := s.store.Discard(ctx, batchID); err != nil {
		return storageError(err)
	}
	s.metrics.RecordDraftSave("discard", 0)
	s.logger.Info("draft discarded", zap.String("batch_id", batchID))
	return nil
}

// prepare validates and normalises changes: timestamps, modifiedFields,
// attribution stamps and temporary ids for adds that arrived without one.
func (s *DraftService) prepare(existing, changes []models.Change, username string) ([]models.Change, error) {
	now := s.now()
	next := nextTemporaryID(existing, changes)
	out := make([]models.Change, 0, len(changes))
	for i, c := range changes {
		if !c.ChangeType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "change "+strconv.Itoa(i)+": unknown change type "+string(c.ChangeType))
		}
		c = cloneChange(c)
		if c.ChangeType == models.ChangeTypeAdd && c.NewData != nil && c.NewData.RowID == 0 {
			c.NewData.RowID = next
			next--
		}
		c = changeset.Normalize(c, now)
		if c.NewData != nil {
			c.NewData.LastModified = c.Timestamp
			c.NewData.LastModifiedBy = username
		}
		if err := changeset.Validate(c); err != nil {
			return nil, validationError(i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// nextTemporaryID returns an unused negative row id.
func nextTemporaryID(sets ...[]models.Change) int64 {
	lowest := int64(0)
	for _, set := range sets {
		for _, c := range set {
			if key, ok := c.RowKey(); ok && key < lowest {
				lowest = key
			}
		}
	}
	return lowest - 1
}

func cloneChange(c models.Change) models.Change {
	if c.TargetRowID != nil {
		id := *c.TargetRowID
		c.TargetRowID = &id
	}
	if c.OriginalData != nil {
		row := c.OriginalData.Clone()
		c.OriginalData = &row
	}
	if c.NewData != nil {
		row := c.NewData.Clone()
		c.NewData = &row
	}
	if c.ModifiedFields != nil {
		c.ModifiedFields = append([]string(nil), c.ModifiedFields...)
	}
	return c
}

func requireBatchID(batchID string) error {
	if strings.TrimSpace(batchID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "batch id is required")
	}
	return nil
}

func storageError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, appErrors.ErrStorage.Message)
}

func validationError(index int, err error) error {
	msg := err.Error()
	if errors.Is(err, changeset.ErrInvalidChange) {
		msg = strings.TrimPrefix(msg, changeset.ErrInvalidChange.Error()+": ")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "change "+strconv.Itoa(index)+": "+msg)
}
