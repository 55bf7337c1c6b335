package changeset

import (
	"time"

	"github.com/snehn77/Editor/internal/models"
)

// Normalize fills the derived parts of a change: a UTC timestamp when none was
// supplied and, for edits, newData stamped with the target id and
// modifiedFields recomputed against originalData. c is not modified.
func Normalize(c models.Change, now time.Time) models.Change {
	if c.Timestamp.IsZero() {
		c.Timestamp = now
	}
	c.Timestamp = c.Timestamp.UTC()
	if c.ChangeType == models.ChangeTypeEdit && c.TargetRowID != nil && c.NewData != nil && c.NewData.RowID != *c.TargetRowID {
		row := c.NewData.Clone()
		row.RowID = *c.TargetRowID
		c.NewData = &row
	}
	if c.ChangeType == models.ChangeTypeEdit && c.OriginalData != nil && c.NewData != nil {
		c.ModifiedFields = ModifiedFields(*c.OriginalData, *c.NewData)
	} else if c.ModifiedFields == nil {
		c.ModifiedFields = []string{}
	}
	return c
}

// Reconcile merges incoming changes into existing with last-writer-wins per
// row. A change that targets a row drops every earlier change keyed to the
// same row and is appended; adds without a target are always appended.
// An edit of a row added earlier in the set rewrites that add in place.
// The inputs are not modified.
func Reconcile(existing, incoming []models.Change) []models.Change {
	out := make([]models.Change, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	for _, c := range incoming {
		if c.TargetRowID == nil {
			out = append(out, c)
			continue
		}
		target := *c.TargetRowID

		if c.ChangeType == models.ChangeTypeEdit && c.NewData != nil {
			if idx := indexOfAdd(out, target); idx >= 0 {
				row := c.NewData.Clone()
				row.RowID = target
				out[idx].NewData = &row
				out[idx].Timestamp = c.Timestamp
				continue
			}
		}

		kept := out[:0:0]
		for _, prev := range out {
			if key, ok := prev.RowKey(); ok && key == target {
				continue
			}
			kept = append(kept, prev)
		}
		out = append(kept, c)
	}
	return out
}

func indexOfAdd(changes []models.Change, rowID int64) int {
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		if c.ChangeType == models.ChangeTypeAdd && c.TargetRowID == nil && c.NewData != nil && c.NewData.RowID == rowID {
			return i
		}
	}
	return -1
}
