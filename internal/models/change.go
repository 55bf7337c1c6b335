package models

import "time"

// ChangeType enumerates the mutations a draft may hold.
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "Add"
	ChangeTypeEdit   ChangeType = "Edit"
	ChangeTypeRemove ChangeType = "Remove"
)

// Valid reports whether the change type is known.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypeAdd, ChangeTypeEdit, ChangeTypeRemove:
		return true
	}
	return false
}

// Change is one pending mutation against a batch's base rows.
type Change struct {
	ChangeType     ChangeType `json:"changeType" validate:"required,oneof=Add Edit Remove"`
	TargetRowID    *int64     `json:"targetRowId"`
	OriginalData   *Row       `json:"originalData"`
	NewData        *Row       `json:"newData"`
	ModifiedFields []string   `json:"modifiedFields"`
	Timestamp      time.Time  `json:"timestamp"`
}

// RowKey returns the row a change is about: the target for Edit and Remove,
// or the (temporary) id of the added row.
func (c Change) RowKey() (int64, bool) {
	if c.TargetRowID != nil {
		return *c.TargetRowID, true
	}
	if c.ChangeType == ChangeTypeAdd && c.NewData != nil {
		return c.NewData.RowID, true
	}
	return 0, false
}

// DraftStatus tracks whether a persisted change is still part of the draft.
type DraftStatus string

const (
	DraftStatusActive    DraftStatus = "Active"
	DraftStatusDiscarded DraftStatus = "Discarded"
)
