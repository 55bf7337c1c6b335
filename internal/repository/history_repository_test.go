package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehn77/Editor/internal/models"
)

var historyColumnNames = []string{"change_id", "batch_id", "timestamp", "username", "change_type", "process",
	"excel_file_path", "document_url", "approval_status", "approval_date", "approved_by", "notes", "created_at"}

func TestHistoryRepositoryInsertWritesRecordAndDetails(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewHistoryRepository(db)

	now := time.Now().UTC()
	record := &models.HistoryRecord{
		ChangeID:       "change-1",
		BatchID:        "batch-1",
		Timestamp:      now,
		Username:       "alice",
		ChangeType:     "Edit,Remove",
		Process:        "P1",
		ApprovalStatus: models.ApprovalStatusPending,
		CreatedAt:      now,
	}
	field := "comments"
	details := []models.ChangeDetail{
		{ChangeID: "change-1", ChangeType: models.ChangeTypeEdit, FieldName: &field, CreatedAt: now},
		{ChangeID: "change-1", ChangeType: models.ChangeTypeRemove, CreatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_history")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_details")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_details")).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(context.Background(), record, details))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryInsertRollsBackWhenDetailFails(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewHistoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_history")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO change_details")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), &models.HistoryRecord{ChangeID: "c"}, []models.ChangeDetail{{ChangeID: "c"}})
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryListAppliesFiltersAndPaging(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewHistoryRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM change_history WHERE process = $1 AND approval_status = $2")).
		WithArgs("P1", models.ApprovalStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("FROM change_history WHERE process = $1 AND approval_status = $2 ORDER BY timestamp DESC LIMIT 10 OFFSET 10")).
		WithArgs("P1", models.ApprovalStatusPending).
		WillReturnRows(sqlmock.NewRows(historyColumnNames).
			AddRow("change-1", "batch-1", now, "alice", "Add", "P1", nil, nil, "Pending", nil, nil, nil, now))

	records, total, err := repo.List(context.Background(), models.HistoryFilter{
		Process:  "P1",
		Status:   models.ApprovalStatusPending,
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, records, 1)
	assert.Equal(t, "change-1", records[0].ChangeID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryListDetails(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewHistoryRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM change_details WHERE change_id = $1 ORDER BY id ASC")).
		WithArgs("change-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "change_id", "change_type", "row_id", "process", "layer", "defect_type",
			"operation_list", "field_name", "old_value", "new_value", "created_at"}).
			AddRow(1, "change-1", "Edit", 5, "P", "L", "D", "OP", "comments", "a", "b", now))

	details, err := repo.ListDetails(context.Background(), "change-1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].FieldName)
	assert.Equal(t, "comments", *details[0].FieldName)
	require.NoError(t, mock.ExpectationsWereMet())
}
