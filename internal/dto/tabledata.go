package dto

import "github.com/snehn77/Editor/internal/models"

// QueryBatchRequest selects the source rows that seed a new batch.
type QueryBatchRequest struct {
	Process   string `json:"process" binding:"required"`
	Layer     string `json:"layer" binding:"required"`
	Operation string `json:"operation"`
	Username  string `json:"username"`
}

// BatchCreatedResponse reports a newly loaded batch.
type BatchCreatedResponse struct {
	BatchID     string           `json:"batchId"`
	RecordCount int64            `json:"recordCount"`
	Source      models.RowSource `json:"source"`
}

// FilterOptions lists selectable values.
type FilterOptions struct {
	Values []string `json:"values"`
}
