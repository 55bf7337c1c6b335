package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/snehn77/Editor/internal/models"
)

const historyColumns = `change_id, batch_id, timestamp, username, change_type, process, excel_file_path, document_url,
       approval_status, approval_date, approved_by, notes, created_at`

// HistoryRepository persists submission audit records and their details.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert writes the record and all details in one transaction.
func (r *HistoryRepository) Insert(ctx context.Context, record *models.HistoryRecord, details []models.ChangeDetail) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}

	const recordQuery = `INSERT INTO change_history (` + historyColumns + `)
VALUES (:change_id, :batch_id, :timestamp, :username, :change_type, :process, :excel_file_path, :document_url,
        :approval_status, :approval_date, :approved_by, :notes, :created_at)`
	if _, err := tx.NamedExecContext(ctx, recordQuery, record); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert change history: %w", err)
	}

	const detailQuery = `INSERT INTO change_details (change_id, change_type, row_id, process, layer, defect_type,
       operation_list, field_name, old_value, new_value, created_at)
VALUES (:change_id, :change_type, :row_id, :process, :layer, :defect_type, :operation_list, :field_name,
        :old_value, :new_value, :created_at)`
	for i := range details {
		if _, err := tx.NamedExecContext(ctx, detailQuery, &details[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert change detail %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit change history: %w", err)
	}
	return nil
}

// GetByID fetches one history record.
func (r *HistoryRepository) GetByID(ctx context.Context, changeID string) (*models.HistoryRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM change_history WHERE change_id = $1`
	var record models.HistoryRecord
	if err := r.db.GetContext(ctx, &record, query, changeID); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListDetails returns the details of a record in insertion order.
func (r *HistoryRepository) ListDetails(ctx context.Context, changeID string) ([]models.ChangeDetail, error) {
	const query = `SELECT id, change_id, change_type, row_id, process, layer, defect_type, operation_list,
       field_name, old_value, new_value, created_at
	FROM change_details WHERE change_id = $1 ORDER BY id ASC`
	var details []models.ChangeDetail
	if err := r.db.SelectContext(ctx, &details, query, changeID); err != nil {
		return nil, fmt.Errorf("list change details: %w", err)
	}
	return details, nil
}

// List returns records matching the filter newest first, plus the total match count.
func (r *HistoryRepository) List(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, int, error) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	if filter.Process != "" {
		args = append(args, filter.Process)
		conditions = append(conditions, fmt.Sprintf("process = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("approval_status = $%d", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM change_history`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count change history: %w", err)
	}

	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf(`SELECT %s FROM change_history%s ORDER BY timestamp DESC LIMIT %d OFFSET %d`,
		historyColumns, where, size, (page-1)*size)

	var records []models.HistoryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list change history: %w", err)
	}
	return records, total, nil
}
