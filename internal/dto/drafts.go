package dto

import (
	"bytes"
	"encoding/json"

	"github.com/snehn77/Editor/internal/models"
)

// SaveDraftRequest carries changes to store for a batch. A bare JSON array of
// changes is accepted as well.
type SaveDraftRequest struct {
	Username string          `json:"username"`
	Changes  []models.Change `json:"changes"`
}

// UnmarshalJSON accepts either {"username":..,"changes":[..]} or [..].
func (r *SaveDraftRequest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		r.Username = ""
		return json.Unmarshal(trimmed, &r.Changes)
	}
	type plain SaveDraftRequest
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*r = SaveDraftRequest(p)
	return nil
}

// DraftResponse is a batch's active change-set.
type DraftResponse struct {
	BatchID string          `json:"batchId"`
	Changes []models.Change `json:"changes"`
	Count   int             `json:"count"`
}
