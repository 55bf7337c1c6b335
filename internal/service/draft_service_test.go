package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type draftStoreStub struct {
	active    map[string][]models.Change
	discarded map[string][]models.Change
	saves     int
	err       error
}

func newDraftStoreStub() *draftStoreStub {
	return &draftStoreStub{active: map[string][]models.Change{}, discarded: map[string][]models.Change{}}
}

func (s *draftStoreStub) SaveChangeSet(ctx context.Context, batchID string, changes []models.Change) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.active[batchID] = append([]models.Change(nil), changes...)
	return nil
}

func (s *draftStoreStub) ListActive(ctx context.Context, batchID string) ([]models.Change, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Change(nil), s.active[batchID]...), nil
}

func (s *draftStoreStub) Discard(ctx context.Context, batchID string) error {
	if s.err != nil {
		return s.err
	}
	s.discarded[batchID] = append(s.discarded[batchID], s.active[batchID]...)
	delete(s.active, batchID)
	return nil
}

func strPtr(v string) *string { return &v }
func idPtr(v int64) *int64    { return &v }

func sampleRow(id int64, comments string) models.Row {
	return models.Row{RowID: id, Process: "P1", Layer: "L1", DefectType: "D1", Comments: strPtr(comments), Product: strPtr("x")}
}

func editChange(id int64, from, to string) models.Change {
	orig := sampleRow(id, from)
	updated := sampleRow(id, to)
	return models.Change{ChangeType: models.ChangeTypeEdit, TargetRowID: idPtr(id), OriginalData: &orig, NewData: &updated}
}

func removeChange(id int64) models.Change {
	orig := sampleRow(id, "gone")
	return models.Change{ChangeType: models.ChangeTypeRemove, TargetRowID: idPtr(id), OriginalData: &orig}
}

func addChange(id int64) models.Change {
	row := sampleRow(id, "new")
	return models.Change{ChangeType: models.ChangeTypeAdd, NewData: &row}
}

func newTestDraftService(store *draftStoreStub) *DraftService {
	svc := NewDraftService(store, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestDraftServiceReplaceNormalisesChanges(t *testing.T) {
	store := newDraftStoreStub()
	svc := newTestDraftService(store)

	edit := editChange(5, "a", "b")
	edit.ModifiedFields = []string{"product", "bogus"}
	saved, err := svc.Replace(context.Background(), "batch-1", []models.Change{edit, addChange(0), addChange(0)}, "alice")
	require.NoError(t, err)
	require.Len(t, saved, 3)

	assert.Equal(t, []string{"comments"}, saved[0].ModifiedFields)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), saved[0].Timestamp)
	assert.Equal(t, "alice", saved[0].NewData.LastModifiedBy)
	assert.Equal(t, int64(-1), saved[1].NewData.RowID)
	assert.Equal(t, int64(-2), saved[2].NewData.RowID)
	assert.Equal(t, []string{}, saved[1].ModifiedFields)
	assert.Equal(t, saved, store.active["batch-1"])
	assert.Empty(t, edit.NewData.LastModifiedBy, "input must not be mutated")
}

func TestDraftServiceReplaceCollapsesPerRow(t *testing.T) {
	store := newDraftStoreStub()
	svc := newTestDraftService(store)

	payload := []models.Change{editChange(5, "a", "b"), editChange(6, "a", "c"), removeChange(5), editChange(6, "a", "d")}
	saved, err := svc.Replace(context.Background(), "batch-1", payload, "alice")
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.Equal(t, models.ChangeTypeRemove, saved[0].ChangeType)
	assert.Equal(t, int64(5), *saved[0].TargetRowID)
	assert.Equal(t, models.ChangeTypeEdit, saved[1].ChangeType)
	assert.Equal(t, int64(6), *saved[1].TargetRowID)
	assert.Equal(t, "d", *saved[1].NewData.Comments)
	assert.Equal(t, saved, store.active["batch-1"])
}

func TestDraftServiceReplaceWithEmptySetClears(t *testing.T) {
	store := newDraftStoreStub()
	store.active["batch-1"] = []models.Change{addChange(-1)}
	svc := newTestDraftService(store)

	saved, err := svc.Replace(context.Background(), "batch-1", nil, "alice")
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.Empty(t, store.active["batch-1"])
}

func TestDraftServiceRejectsInvalidShapes(t *testing.T) {
	store := newDraftStoreStub()
	svc := newTestDraftService(store)

	bad := removeChange(3)
	bad.NewData = bad.OriginalData
	_, err := svc.Replace(context.Background(), "batch-1", []models.Change{bad}, "alice")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, store.saves)

	_, err = svc.Merge(context.Background(), "batch-1", []models.Change{{ChangeType: "Rename"}}, "alice")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	tagged := addChange(0)
	tagged.TargetRowID = idPtr(5)
	_, err = svc.Replace(context.Background(), "batch-1", []models.Change{tagged}, "alice")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, store.saves)

	_, err = svc.Replace(context.Background(), " ", nil, "alice")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestDraftServiceMergeCollapsesPerRow(t *testing.T) {
	store := newDraftStoreStub()
	svc := newTestDraftService(store)
	ctx := context.Background()

	_, err := svc.Merge(ctx, "batch-1", []models.Change{editChange(5, "a", "b"), editChange(6, "a", "c")}, "alice")
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, "batch-1", []models.Change{removeChange(5), addChange(0), addChange(0)}, "alice")
	require.NoError(t, err)
	require.Len(t, merged, 4)
	assert.Equal(t, int64(6), *merged[0].TargetRowID)
	assert.Equal(t, models.ChangeTypeRemove, merged[1].ChangeType)
	assert.Equal(t, int64(5), *merged[1].TargetRowID)
	assert.NotEqual(t, merged[2].NewData.RowID, merged[3].NewData.RowID)
}

func TestDraftServiceMergeFoldsEditIntoAddedRow(t *testing.T) {
	store := newDraftStoreStub()
	svc := newTestDraftService(store)
	ctx := context.Background()

	added, err := svc.Merge(ctx, "batch-1", []models.Change{addChange(0)}, "alice")
	require.NoError(t, err)
	tempID := added[0].NewData.RowID

	merged, err := svc.Merge(ctx, "batch-1", []models.Change{editChange(tempID, "new", "newer")}, "bob")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, models.ChangeTypeAdd, merged[0].ChangeType)
	assert.Equal(t, "newer", *merged[0].NewData.Comments)
	assert.Equal(t, tempID, merged[0].NewData.RowID)
}

func TestDraftServiceStorageFailuresAreTyped(t *testing.T) {
	store := newDraftStoreStub()
	store.err = errors.New("disk full")
	svc := newTestDraftService(store)

	_, err := svc.Get(context.Background(), "batch-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrStorage))
	assert.ErrorContains(t, err, "disk full")

	err = svc.Discard(context.Background(), "batch-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrStorage))
}

func TestDraftServiceDiscard(t *testing.T) {
	store := newDraftStoreStub()
	store.active["batch-1"] = []models.Change{addChange(-1)}
	svc := newTestDraftService(store)

	require.NoError(t, svc.Discard(context.Background(), "batch-1"))
	changes, err := svc.Get(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Len(t, store.discarded["batch-1"], 1)
}
