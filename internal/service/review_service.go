package service

import (
	"context"

	"github.com/snehn77/Editor/internal/changeset"
	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type baseRowReader interface {
	GetRows(ctx context.Context, batchID string) ([]models.Row, error)
}

// ReviewResult is the side-by-side view of a batch before submission.
type ReviewResult struct {
	OriginalData []models.Row      `json:"originalData"`
	ModifiedData []models.Row      `json:"modifiedData"`
	Changes      []models.Change   `json:"changes"`
	Summary      changeset.Summary `json:"summary"`
}

// ReviewService projects a batch's draft onto its base rows.
type ReviewService struct {
	rows   baseRowReader
	drafts activeDraftReader
}

// NewReviewService constructs the service.
func NewReviewService(rows baseRowReader, drafts activeDraftReader) *ReviewService {
	return &ReviewService{rows: rows, drafts: drafts}
}

// Review returns the base rows, their projection and the pending changes.
func (s *ReviewService) Review(ctx context.Context, batchID string) (*ReviewResult, error) {
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
		return nil, storageError(err)
	}
	if changes == nil {
		changes = []models.Change{}
	}
	return &ReviewResult{
		OriginalData: base,
		ModifiedData: changeset.Project(base, changes),
		Changes:      changes,
		Summary:      changeset.Summarize(changes),
	}, nil
}
