package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type rowReaderStub struct {
	rows map[string][]models.Row
	err  error
}

func (s *rowReaderStub) GetRows(ctx context.Context, batchID string) ([]models.Row, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[batchID], nil
}

type batchStatusStub struct {
	meta     map[string]*models.BatchMetadata
	setErr   error
	setCalls []models.BatchStatus
}

func (s *batchStatusStub) GetBatchMetadata(ctx context.Context, batchID string) (*models.BatchMetadata, error) {
	meta, ok := s.meta[batchID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return meta, nil
}

func (s *batchStatusStub) SetBatchStatus(ctx context.Context, batchID string, status models.BatchStatus) error {
	s.setCalls = append(s.setCalls, status)
	if s.setErr != nil {
		return s.setErr
	}
	if meta, ok := s.meta[batchID]; ok {
		meta.Status = status
	}
	return nil
}

type historyWriterStub struct {
	records []*models.HistoryRecord
	details [][]models.ChangeDetail
	err     error
}

func (s *historyWriterStub) Insert(ctx context.Context, record *models.HistoryRecord, details []models.ChangeDetail) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	s.details = append(s.details, details)
	return nil
}

type rendererStub struct {
	calls int
	err   error
}

func (r *rendererStub) Render(base []models.Row, changes []models.Change, process, layer string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("workbook"), nil
}

type uploaderStub struct {
	url    string
	err    error
	calls  int
	folder string
	file   string
}

func (u *uploaderStub) Upload(ctx context.Context, data []byte, fileName, folder string) (string, error) {
	u.calls++
	u.file = fileName
	u.folder = folder
	return u.url, u.err
}

type submissionFixture struct {
	rows     *rowReaderStub
	drafts   *draftStoreStub
	batches  *batchStatusStub
	history  *historyWriterStub
	renderer *rendererStub
	uploader *uploaderStub
	metrics  *MetricsService
	svc      *SubmissionService
}

func newSubmissionFixture(rejectResubmit bool) *submissionFixture {
	f := &submissionFixture{
		rows: &rowReaderStub{rows: map[string][]models.Row{
			"batch-1": {{RowID: 1, Process: "P1", Layer: "L1", DefectType: "D1", Comments: strPtr("orig")}},
		}},
		drafts:   newDraftStoreStub(),
		batches:  &batchStatusStub{meta: map[string]*models.BatchMetadata{"batch-1": {BatchID: "batch-1", Status: models.BatchStatusActive}}},
		history:  &historyWriterStub{},
		renderer: &rendererStub{},
		uploader: &uploaderStub{url: "https://docs.example/TableData.xlsx"},
		metrics:  NewMetricsService(),
	}
	f.svc = NewSubmissionService(f.rows, f.drafts, f.batches, f.history, f.renderer, f.uploader, f.metrics,
		SubmissionConfig{RootFolder: "RC_Table_Editor", RejectResubmit: rejectResubmit}, nil)
	f.svc.now = func() time.Time { return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC) }
	f.svc.newID = func() string { return "change-1" }
	return f
}

func (f *submissionFixture) stageCommentEdit() {
	orig := models.Row{RowID: 1, Process: "P1", Layer: "L1", DefectType: "D1", Comments: strPtr("orig")}
	updated := orig
	updated.Comments = strPtr("updated")
	f.drafts.active["batch-1"] = []models.Change{{
		ChangeType:     models.ChangeTypeEdit,
		TargetRowID:    idPtr(1),
		OriginalData:   &orig,
		NewData:        &updated,
		ModifiedFields: []string{"comments"},
	}}
}

func TestSubmitEndToEndEdit(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()

	record, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice", Notes: " please review "})
	require.NoError(t, err)

	assert.Equal(t, "change-1", record.ChangeID)
	assert.Equal(t, "Edit", record.ChangeType)
	assert.Equal(t, "P1", record.Process)
	assert.Equal(t, "alice", record.Username)
	assert.Equal(t, models.ApprovalStatusPending, record.ApprovalStatus)
	require.NotNil(t, record.DocumentURL)
	assert.Equal(t, "https://docs.example/TableData.xlsx", *record.DocumentURL)
	require.NotNil(t, record.ExcelFilePath)
	assert.Equal(t, "TableData_P1_L1_20240601_083000.xlsx", *record.ExcelFilePath)
	require.NotNil(t, record.Notes)
	assert.Equal(t, "please review", *record.Notes)
	assert.Equal(t, "RC_Table_Editor/P1/L1", f.uploader.folder)

	require.Len(t, f.history.details, 1)
	details := f.history.details[0]
	require.Len(t, details, 1)
	assert.Equal(t, "comments", *details[0].FieldName)
	assert.Equal(t, "orig", *details[0].OldValue)
	assert.Equal(t, "updated", *details[0].NewValue)

	assert.Equal(t, []models.BatchStatus{models.BatchStatusSubmitted}, f.batches.setCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.submissions.WithLabelValues(SubmissionSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.uploads.WithLabelValues(UploadStored)))
}

func TestSubmitRejectsEmptyChangeSetWithoutSideEffects(t *testing.T) {
	f := newSubmissionFixture(true)

	_, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, f.renderer.calls)
	assert.Zero(t, f.uploader.calls)
	assert.Empty(t, f.history.records)
	assert.Empty(t, f.batches.setCalls)
}

func TestSubmitRejectsMissingBaseRows(t *testing.T) {
	f := newSubmissionFixture(true)
	f.drafts.active["batch-2"] = []models.Change{addChange(-1)}

	_, err := f.svc.Submit(context.Background(), "batch-2", SubmitRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Zero(t, f.renderer.calls)
}

func TestSubmitRenderFailureAbortsBeforeUpload(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()
	f.renderer.err = errors.New("bad cell")

	_, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRender))
	assert.Zero(t, f.uploader.calls)
	assert.Empty(t, f.history.records)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.submissions.WithLabelValues(SubmissionFailed)))
}

func TestSubmitUploadFailureStillRecordsHistory(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()
	f.uploader.err = errors.New("connection reset")

	record, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Nil(t, record.DocumentURL)
	require.Len(t, f.history.records, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.uploads.WithLabelValues(UploadDegraded)))
}

func TestSubmitStatusFlipFailureIsNotFatal(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()
	f.batches.setErr = errors.New("locked")

	record, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "change-1", record.ChangeID)
	require.Len(t, f.history.records, 1)
}

func TestSubmitHistoryFailureIsStorageError(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()
	f.history.err = errors.New("tx aborted")

	_, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStorage))
	assert.Empty(t, f.batches.setCalls)
}

func TestSubmitGuardsAgainstResubmission(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()

	_, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadySubmitted))
	assert.Len(t, f.history.records, 1)
}

func TestSubmitAllowsResubmissionWhenGuardDisabled(t *testing.T) {
	f := newSubmissionFixture(false)
	f.stageCommentEdit()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{})
		require.NoError(t, err)
	}
	assert.Len(t, f.history.records, 2)
	assert.Equal(t, AnonymousUser, f.history.records[0].Username)
}

func TestSubmitWithoutDocumentStoreLeavesURLEmpty(t *testing.T) {
	f := newSubmissionFixture(true)
	f.stageCommentEdit()
	f.uploader.url = ""

	record, err := f.svc.Submit(context.Background(), "batch-1", SubmitRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Nil(t, record.DocumentURL)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.uploads.WithLabelValues(UploadSkipped)))
}
