package models

import "time"

// BatchStatus is the lifecycle state of an editing batch. Submitted is terminal.
type BatchStatus string

const (
	BatchStatusActive    BatchStatus = "Active"
	BatchStatusSubmitted BatchStatus = "Submitted"
)

// CanTransition reports whether a batch may move from s to next.
func (s BatchStatus) CanTransition(next BatchStatus) bool {
	switch s {
	case BatchStatusActive:
		return next == BatchStatusActive || next == BatchStatusSubmitted
	case BatchStatusSubmitted:
		return next == BatchStatusSubmitted
	}
	return false
}

// BatchMetadata describes where a batch came from and where it is in its lifecycle.
type BatchMetadata struct {
	BatchID       string      `db:"batch_id" json:"batchId"`
	Source        RowSource   `db:"source" json:"source"`
	FileName      *string     `db:"file_name" json:"fileName,omitempty"`
	Process       string      `db:"process" json:"process"`
	Layer         string      `db:"layer" json:"layer"`
	OperationList string      `db:"operation_list" json:"operationList"`
	Status        BatchStatus `db:"status" json:"status"`
	Username      string      `db:"username" json:"username"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// BatchCreated reports a newly loaded batch.
type BatchCreated struct {
	BatchID     string    `json:"batchId"`
	RecordCount int64     `json:"recordCount"`
	Source      RowSource `json:"source"`
}
