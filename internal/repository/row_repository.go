package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/snehn77/Editor/internal/models"
)

const rowColumns = `row_id, batch_id, process, layer, defect_type, operation_list, class_type, product,
       entity_confidence, comments, generic_data1, generic_data2, generic_data3, edi_attribution,
       edi_attribution_list, security_code, original_id, last_modified, last_modified_by`

const contentColumns = `process, layer, defect_type, operation_list, class_type, product, entity_confidence,
       comments, generic_data1, generic_data2, generic_data3, edi_attribution, edi_attribution_list,
       security_code, original_id`

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// RowRepository reads and loads batch base rows (session_data) and queries
// the source table new batches are copied from.
type RowRepository struct {
	db          *sqlx.DB
	sourceTable string
}

// NewRowRepository constructs the repository. sourceTable must be a plain
// (optionally schema qualified) identifier.
func NewRowRepository(db *sqlx.DB, sourceTable string) (*RowRepository, error) {
	if sourceTable == "" {
		sourceTable = "rc_table"
	}
	if !identifierPattern.MatchString(sourceTable) {
		return nil, fmt.Errorf("invalid source table name %q", sourceTable)
	}
	return &RowRepository{db: db, sourceTable: sourceTable}, nil
}

// ListActiveByBatch returns the batch's active rows ordered by row id.
func (r *RowRepository) ListActiveByBatch(ctx context.Context, batchID string) ([]models.Row, error) {
	query := `SELECT ` + rowColumns + ` FROM session_data WHERE batch_id = $1 AND is_active = TRUE ORDER BY row_id ASC`
	var rows []models.Row
	if err := r.db.SelectContext(ctx, &rows, query, batchID); err != nil {
		return nil, fmt.Errorf("list batch rows: %w", err)
	}
	return rows, nil
}

// CopyFromSource creates a batch from source rows matching q and returns the number copied.
func (r *RowRepository) CopyFromSource(ctx context.Context, batchID string, q models.RowQuery, username string, now time.Time) (int64, error) {
	args := []interface{}{batchID, string(models.RowSourceExternalDB), now, username, q.Process, q.Layer}
	where := "process = $5 AND layer = $6"
	if q.Operation != "" {
		args = append(args, q.Operation)
		where += fmt.Sprintf(" AND strpos(lower(operation_list), lower($%d)) > 0", len(args))
	}
	query := fmt.Sprintf(`INSERT INTO session_data (batch_id, source, %s, last_modified, last_modified_by, created_at, is_active)
SELECT $1, $2, %s, $3, $4, $3, TRUE FROM %s WHERE %s ORDER BY id ASC`, contentColumns, contentColumns, r.sourceTable, where)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("copy source rows: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count copied rows: %w", err)
	}
	return count, nil
}

type rowInsert struct {
	models.Row
	Source    models.RowSource `db:"source"`
	CreatedAt time.Time        `db:"created_at"`
}

// InsertBatch stores imported rows under batchID within one transaction.
func (r *RowRepository) InsertBatch(ctx context.Context, batchID string, source models.RowSource, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin row import tx: %w", err)
	}
	const query = `INSERT INTO session_data (batch_id, source, process, layer, defect_type, operation_list, class_type,
       product, entity_confidence, comments, generic_data1, generic_data2, generic_data3, edi_attribution,
       edi_attribution_list, security_code, original_id, last_modified, last_modified_by, created_at, is_active)
VALUES (:batch_id, :source, :process, :layer, :defect_type, :operation_list, :class_type, :product,
        :entity_confidence, :comments, :generic_data1, :generic_data2, :generic_data3, :edi_attribution,
        :edi_attribution_list, :security_code, :original_id, :last_modified, :last_modified_by, :created_at, TRUE)`
	now := time.Now().UTC()
	for i := range rows {
		row := rows[i]
		row.BatchID = batchID
		if row.LastModified.IsZero() {
			row.LastModified = now
		}
		if _, err := tx.NamedExecContext(ctx, query, rowInsert{Row: row, Source: source, CreatedAt: now}); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert imported row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit row import: %w", err)
	}
	return nil
}

// DistinctProcesses lists the processes available in the source table.
func (r *RowRepository) DistinctProcesses(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT process FROM %s WHERE process <> '' ORDER BY process ASC`, r.sourceTable)
	var out []string
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return out, nil
}

// DistinctLayers lists the layers recorded for a process.
func (r *RowRepository) DistinctLayers(ctx context.Context, process string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT layer FROM %s WHERE process = $1 AND layer <> '' ORDER BY layer ASC`, r.sourceTable)
	var out []string
	if err := r.db.SelectContext(ctx, &out, query, process); err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	return out, nil
}

// DistinctOperations lists the operation lists recorded for a process and layer.
func (r *RowRepository) DistinctOperations(ctx context.Context, process, layer string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT operation_list FROM %s WHERE process = $1 AND layer = $2 AND operation_list <> '' ORDER BY operation_list ASC`, r.sourceTable)
	var out []string
	if err := r.db.SelectContext(ctx, &out, query, process, layer); err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	return out, nil
}
