package models

import "time"

// ApprovalStatus is owned by the external approval workflow.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "Pending"
	ApprovalStatusApproved ApprovalStatus = "Approved"
	ApprovalStatusRejected ApprovalStatus = "Rejected"
)

// HistoryRecord is the immutable audit entry created by one submission.
type HistoryRecord struct {
	ChangeID       string         `db:"change_id" json:"changeId"`
	BatchID        string         `db:"batch_id" json:"batchId"`
	Timestamp      time.Time      `db:"timestamp" json:"timestamp"`
	Username       string         `db:"username" json:"username"`
	ChangeType     string         `db:"change_type" json:"changeType"`
	Process        string         `db:"process" json:"process"`
	ExcelFilePath  *string        `db:"excel_file_path" json:"excelFilePath,omitempty"`
	DocumentURL    *string        `db:"document_url" json:"documentUrl,omitempty"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approvalStatus"`
	ApprovalDate   *time.Time     `db:"approval_date" json:"approvalDate,omitempty"`
	ApprovedBy     *string        `db:"approved_by" json:"approvedBy,omitempty"`
	Notes          *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// ChangeDetail is one audited field change (Edit) or whole row (Add/Remove).
type ChangeDetail struct {
	ID            int64      `db:"id" json:"id"`
	ChangeID      string     `db:"change_id" json:"changeId"`
	ChangeType    ChangeType `db:"change_type" json:"changeType"`
	RowID         *int64     `db:"row_id" json:"rowId,omitempty"`
	Process       string     `db:"process" json:"process"`
	Layer         string     `db:"layer" json:"layer"`
	DefectType    string     `db:"defect_type" json:"defectType"`
	OperationList string     `db:"operation_list" json:"operationList"`
	FieldName     *string    `db:"field_name" json:"fieldName,omitempty"`
	OldValue      *string    `db:"old_value" json:"oldValue,omitempty"`
	NewValue      *string    `db:"new_value" json:"newValue,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// HistoryFilter constrains history listing queries.
type HistoryFilter struct {
	Process  string
	Status   ApprovalStatus
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}
