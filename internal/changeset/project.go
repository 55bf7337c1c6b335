package changeset

import "github.com/snehn77/Editor/internal/models"

// Project applies changes, in order, to a copy of base and returns the
// effective rows. Adds append, edits replace the matching row wholesale and
// removes delete the first matching row; edits and removes of unknown rows
// are skipped. base is never modified.
func Project(base []models.Row, changes []models.Change) []models.Row {
	rows := make([]models.Row, 0, len(base)+len(changes))
	for _, r := range base {
		rows = append(rows, r.Clone())
	}

	for _, c := range changes {
		switch c.ChangeType {
		case models.ChangeTypeAdd:
			if c.NewData != nil {
				rows = append(rows, c.NewData.Clone())
			}
		case models.ChangeTypeEdit:
			if c.TargetRowID == nil || c.NewData == nil {
				continue
			}
			if i := indexOfRow(rows, *c.TargetRowID); i >= 0 {
				rows[i] = c.NewData.Clone()
			}
		case models.ChangeTypeRemove:
			if c.TargetRowID == nil {
				continue
			}
			if i := indexOfRow(rows, *c.TargetRowID); i >= 0 {
				rows = append(rows[:i], rows[i+1:]...)
			}
		}
	}
	return rows
}

// Summary counts changes by type.
type Summary struct {
	Adds    int `json:"adds"`
	Edits   int `json:"edits"`
	Removes int `json:"removes"`
	Total   int `json:"total"`
}

// Summarize counts the changes in a set by type.
func Summarize(changes []models.Change) Summary {
	var s Summary
	for _, c := range changes {
		switch c.ChangeType {
		case models.ChangeTypeAdd:
			s.Adds++
		case models.ChangeTypeEdit:
			s.Edits++
		case models.ChangeTypeRemove:
			s.Removes++
		}
	}
	s.Total = len(changes)
	return s
}

func indexOfRow(rows []models.Row, id int64) int {
	for i := range rows {
		if rows[i].RowID == id {
			return i
		}
	}
	return -1
}
