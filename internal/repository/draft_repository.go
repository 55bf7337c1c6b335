package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/snehn77/Editor/internal/models"
)

// DraftRepository is the embedded draft store: one active change set per
// batch plus batch metadata. Saves replace the active set wholesale and
// discards tombstone rows instead of deleting them.
type DraftRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftRepository constructs the repository.
func NewDraftRepository(db *sqlx.DB, logger *zap.Logger) *DraftRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftRepository{db: db, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

type draftRow struct {
	ID             int64              `db:"id"`
	BatchID        string             `db:"batch_id"`
	Position       int                `db:"position"`
	ChangeType     models.ChangeType  `db:"change_type"`
	TargetRowID    *int64             `db:"target_row_id"`
	OriginalData   []byte             `db:"original_data"`
	NewData        []byte             `db:"new_data"`
	ModifiedFields []byte             `db:"modified_fields"`
	Status         models.DraftStatus `db:"status"`
	Timestamp      string             `db:"timestamp"`
}

// SaveChangeSet replaces the batch's active change set. An empty set only clears.
func (r *DraftRepository) SaveChangeSet(ctx context.Context, batchID string, changes []models.Change) error {
	rows := make([]draftRow, 0, len(changes))
	for i, c := range changes {
		row, err := encodeChange(batchID, i, c)
		if err != nil {
			return r.fail("save_change_set", batchID, err)
		}
		rows = append(rows, row)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.fail("save_change_set", batchID, fmt.Errorf("begin draft tx: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_changes WHERE batch_id = ? AND status = ?`,
		batchID, models.DraftStatusActive); err != nil {
		_ = tx.Rollback()
		return r.fail("save_change_set", batchID, fmt.Errorf("clear active drafts: %w", err))
	}

	const insert = `INSERT INTO draft_changes
	(batch_id, position, change_type, target_row_id, original_data, new_data, modified_fields, status, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, insert, row.BatchID, row.Position, row.ChangeType, row.TargetRowID,
			nullableText(row.OriginalData), nullableText(row.NewData), string(row.ModifiedFields), row.Status, row.Timestamp); err != nil {
			_ = tx.Rollback()
			return r.fail("save_change_set", batchID, fmt.Errorf("insert draft change %d: %w", row.Position, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return r.fail("save_change_set", batchID, fmt.Errorf("commit drafts: %w", err))
	}
	return nil
}

// ListActive returns the batch's active changes in insertion order.
func (r *DraftRepository) ListActive(ctx context.Context, batchID string) ([]models.Change, error) {
	const query = `SELECT id, batch_id, position, change_type, target_row_id, original_data, new_data,
       modified_fields, status, timestamp
	FROM draft_changes WHERE batch_id = ? AND status = ? ORDER BY position ASC, id ASC`
	var rows []draftRow
	if err := r.db.SelectContext(ctx, &rows, query, batchID, models.DraftStatusActive); err != nil {
		return nil, r.fail("list_active", batchID, fmt.Errorf("list drafts: %w", err))
	}
	changes := make([]models.Change, 0, len(rows))
	for _, row := range rows {
		c, err := decodeChange(row)
		if err != nil {
			return nil, r.fail("list_active", batchID, err)
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// Discard tombstones every active change of the batch.
func (r *DraftRepository) Discard(ctx context.Context, batchID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE draft_changes SET status = ? WHERE batch_id = ? AND status = ?`,
		models.DraftStatusDiscarded, batchID, models.DraftStatusActive); err != nil {
		return r.fail("discard", batchID, fmt.Errorf("discard drafts: %w", err))
	}
	return nil
}

// CountByStatus reports how many stored changes the batch has per status, tombstones included.
func (r *DraftRepository) CountByStatus(ctx context.Context, batchID string) (map[models.DraftStatus]int, error) {
	var rows []struct {
		Status models.DraftStatus `db:"status"`
		Count  int                `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM draft_changes WHERE batch_id = ? GROUP BY status`, batchID); err != nil {
		return nil, r.fail("count_by_status", batchID, fmt.Errorf("count drafts: %w", err))
	}
	out := make(map[models.DraftStatus]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// UpsertBatchMetadata records a batch on first sight. Later calls mark it
// Active again unless it was submitted and only fill in empty descriptors.
func (r *DraftRepository) UpsertBatchMetadata(ctx context.Context, meta models.BatchMetadata) error {
	now := r.now().Format(time.RFC3339Nano)
	const query = `INSERT INTO batch_metadata
	(batch_id, source, file_name, process, layer, operation_list, status, username, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (batch_id) DO UPDATE SET
		status = CASE WHEN batch_metadata.status = 'Submitted' THEN batch_metadata.status ELSE 'Active' END,
		process = CASE WHEN batch_metadata.process = '' THEN excluded.process ELSE batch_metadata.process END,
		layer = CASE WHEN batch_metadata.layer = '' THEN excluded.layer ELSE batch_metadata.layer END,
		updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, meta.BatchID, meta.Source, meta.FileName, meta.Process, meta.Layer,
		meta.OperationList, models.BatchStatusActive, meta.Username, now, now); err != nil {
		return r.fail("upsert_batch_metadata", meta.BatchID, fmt.Errorf("upsert batch metadata: %w", err))
	}
	return nil
}

// SetBatchStatus moves a batch to status when the transition is allowed.
// Absent batches and disallowed transitions are left untouched.
func (r *DraftRepository) SetBatchStatus(ctx context.Context, batchID string, status models.BatchStatus) error {
	from := make([]interface{}, 0, 2)
	for _, s := range []models.BatchStatus{models.BatchStatusActive, models.BatchStatusSubmitted} {
		if s.CanTransition(status) {
			from = append(from, s)
		}
	}
	if len(from) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE batch_metadata SET status = ?, updated_at = ? WHERE batch_id = ? AND status IN (%s)`,
		strings.TrimSuffix(strings.Repeat("?,", len(from)), ","))
	args := append([]interface{}{status, r.now().Format(time.RFC3339Nano), batchID}, from...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return r.fail("set_batch_status", batchID, fmt.Errorf("set batch status: %w", err))
	}
	return nil
}

type batchRow struct {
	BatchID       string             `db:"batch_id"`
	Source        models.RowSource   `db:"source"`
	FileName      *string            `db:"file_name"`
	Process       string             `db:"process"`
	Layer         string             `db:"layer"`
	OperationList string             `db:"operation_list"`
	Status        models.BatchStatus `db:"status"`
	Username      string             `db:"username"`
	CreatedAt     string             `db:"created_at"`
	UpdatedAt     string             `db:"updated_at"`
}

// GetBatchMetadata returns sql.ErrNoRows when the batch is unknown.
func (r *DraftRepository) GetBatchMetadata(ctx context.Context, batchID string) (*models.BatchMetadata, error) {
	const query = `SELECT batch_id, source, file_name, process, layer, operation_list, status, username, created_at, updated_at
	FROM batch_metadata WHERE batch_id = ?`
	var row batchRow
	if err := r.db.GetContext(ctx, &row, query, batchID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, r.fail("get_batch_metadata", batchID, fmt.Errorf("get batch metadata: %w", err))
	}
	meta := &models.BatchMetadata{
		BatchID:       row.BatchID,
		Source:        row.Source,
		FileName:      row.FileName,
		Process:       row.Process,
		Layer:         row.Layer,
		OperationList: row.OperationList,
		Status:        row.Status,
		Username:      row.Username,
	}
	meta.CreatedAt, _ = time.Parse(time.RFC3339Nano, row.CreatedAt)
	meta.UpdatedAt, _ = time.Parse(time.RFC3339Nano, row.UpdatedAt)
	return meta, nil
}

func (r *DraftRepository) fail(operation, batchID string, err error) error {
	r.logger.Error("draft store operation failed",
		zap.String("operation", operation),
		zap.String("batch_id", batchID),
		zap.Error(err),
	)
	return err
}

func encodeChange(batchID string, position int, c models.Change) (draftRow, error) {
	row := draftRow{
		BatchID:     batchID,
		Position:    position,
		ChangeType:  c.ChangeType,
		TargetRowID: c.TargetRowID,
		Status:      models.DraftStatusActive,
		Timestamp:   c.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	var err error
	if c.OriginalData != nil {
		if row.OriginalData, err = json.Marshal(c.OriginalData); err != nil {
			return draftRow{}, fmt.Errorf("encode original data: %w", err)
		}
	}
	if c.NewData != nil {
		if row.NewData, err = json.Marshal(c.NewData); err != nil {
			return draftRow{}, fmt.Errorf("encode new data: %w", err)
		}
	}
	fields := c.ModifiedFields
	if fields == nil {
		fields = []string{}
	}
	if row.ModifiedFields, err = json.Marshal(fields); err != nil {
		return draftRow{}, fmt.Errorf("encode modified fields: %w", err)
	}
	return row, nil
}

func decodeChange(row draftRow) (models.Change, error) {
	c := models.Change{
		ChangeType:     row.ChangeType,
		TargetRowID:    row.TargetRowID,
		ModifiedFields: []string{},
	}
	if len(row.OriginalData) > 0 {
		c.OriginalData = &models.Row{}
		if err := json.Unmarshal(row.OriginalData, c.OriginalData); err != nil {
			return models.Change{}, fmt.Errorf("decode draft %d original data: %w", row.ID, err)
		}
	}
	if len(row.NewData) > 0 {
		c.NewData = &models.Row{}
		if err := json.Unmarshal(row.NewData, c.NewData); err != nil {
			return models.Change{}, fmt.Errorf("decode draft %d new data: %w", row.ID, err)
		}
	}
	if len(row.ModifiedFields) > 0 {
		if err := json.Unmarshal(row.ModifiedFields, &c.ModifiedFields); err != nil {
			return models.Change{}, fmt.Errorf("decode draft %d modified fields: %w", row.ID, err)
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, row.Timestamp)
	if err != nil {
		return models.Change{}, fmt.Errorf("decode draft %d timestamp: %w", row.ID, err)
	}
	c.Timestamp = ts.UTC()
	return c, nil
}

func nullableText(raw []byte) interface{} {
	if raw == nil {
		return nil
	}
	return string(raw)
}
