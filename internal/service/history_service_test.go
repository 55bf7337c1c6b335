package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehn77/Editor/internal/models"
	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type historyReaderStub struct {
	records    map[string]*models.HistoryRecord
	details    map[string][]models.ChangeDetail
	lastFilter models.HistoryFilter
	err        error
}

func (s *historyReaderStub) GetByID(ctx context.Context, changeID string) (*models.HistoryRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	record, ok := s.records[changeID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return record, nil
}

func (s *historyReaderStub) ListDetails(ctx context.Context, changeID string) ([]models.ChangeDetail, error) {
	return s.details[changeID], nil
}

func (s *historyReaderStub) List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, int, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, 0, s.err
	}
	out := make([]models.HistoryRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func newHistoryFixture() (*HistoryService, *historyReaderStub) {
	url := "https://docs.example/a.xlsx"
	stub := &historyReaderStub{
		records: map[string]*models.HistoryRecord{
			"with-doc": {ChangeID: "with-doc", ApprovalStatus: models.ApprovalStatusPending, DocumentURL: &url, Timestamp: time.Now()},
			"no-doc":   {ChangeID: "no-doc", ApprovalStatus: models.ApprovalStatusApproved},
		},
		details: map[string][]models.ChangeDetail{
			"with-doc": {{ChangeID: "with-doc", ChangeType: models.ChangeTypeAdd}},
		},
	}
	return NewHistoryService(stub, nil), stub
}

func TestHistoryListDefaultsPaging(t *testing.T) {
	svc, stub := newHistoryFixture()

	records, page, err := svc.List(context.Background(), models.HistoryFilter{Process: "P1"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "P1", stub.lastFilter.Process)
}

func TestHistoryListValidatesFilter(t *testing.T) {
	svc, _ := newHistoryFixture()

	_, _, err := svc.List(context.Background(), models.HistoryFilter{Status: "Unknown"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, _, err = svc.List(context.Background(), models.HistoryFilter{FromDate: &from, ToDate: &to})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestHistoryGetIncludesDetails(t *testing.T) {
	svc, _ := newHistoryFixture()

	entry, err := svc.Get(context.Background(), "with-doc")
	require.NoError(t, err)
	assert.Len(t, entry.Details, 1)

	entry, err = svc.Get(context.Background(), "no-doc")
	require.NoError(t, err)
	assert.NotNil(t, entry.Details)
	assert.Empty(t, entry.Details)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestHistoryStatusAndDocumentURL(t *testing.T) {
	svc, stub := newHistoryFixture()

	status, err := svc.Status(context.Background(), "no-doc")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, status.Status)

	url, err := svc.DocumentURL(context.Background(), "with-doc")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example/a.xlsx", url)

	_, err = svc.DocumentURL(context.Background(), "no-doc")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	stub.err = errors.New("connection refused")
	_, err = svc.Status(context.Background(), "no-doc")
	assert.True(t, appErrors.Is(err, appErrors.ErrStorage))
}
