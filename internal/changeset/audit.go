package changeset

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/snehn77/Editor/internal/models"
)

// AggregateChangeType joins the distinct change types in order of first appearance.
func AggregateChangeType(changes []models.Change) string {
	seen := make(map[models.ChangeType]struct{}, 3)
	types := make([]string, 0, 3)
	for _, c := range changes {
		if _, ok := seen[c.ChangeType]; ok {
			continue
		}
		seen[c.ChangeType] = struct{}{}
		types = append(types, string(c.ChangeType))
	}
	return strings.Join(types, ",")
}

// BuildDetails expands a change set into audit details: one per modified
// field of an edit, and one whole serialized row per add or remove. Every
// detail carries the batch's process and layer; defect type and operation
// list come from the row as it was before the change, or the added row.
func BuildDetails(changeID, process, layer string, changes []models.Change, createdAt time.Time) ([]models.ChangeDetail, error) {
	details := make([]models.ChangeDetail, 0, len(changes))
	for i, c := range changes {
		switch c.ChangeType {
		case models.ChangeTypeEdit:
			if c.OriginalData == nil || c.NewData == nil {
				return nil, fmt.Errorf("change %d: %w: edit without snapshots", i, ErrInvalidChange)
			}
			for _, name := range c.ModifiedFields {
				f, ok := LookupField(name)
				if !ok {
					return nil, fmt.Errorf("change %d: %w: unknown field %q", i, ErrInvalidChange, name)
				}
				d := newDetail(changeID, process, layer, c, createdAt)
				fieldName := f.Name
				d.FieldName = &fieldName
				d.OldValue = f.Value(*c.OriginalData)
				d.NewValue = f.Value(*c.NewData)
				details = append(details, d)
			}
		case models.ChangeTypeAdd:
			if c.NewData == nil {
				return nil, fmt.Errorf("change %d: %w: add without newData", i, ErrInvalidChange)
			}
			payload, err := serializeRow(*c.NewData)
			if err != nil {
				return nil, err
			}
			d := newDetail(changeID, process, layer, c, createdAt)
			d.NewValue = &payload
			details = append(details, d)
		case models.ChangeTypeRemove:
			if c.OriginalData == nil {
				return nil, fmt.Errorf("change %d: %w: remove without originalData", i, ErrInvalidChange)
			}
			payload, err := serializeRow(*c.OriginalData)
			if err != nil {
				return nil, err
			}
			d := newDetail(changeID, process, layer, c, createdAt)
			d.OldValue = &payload
			details = append(details, d)
		default:
			return nil, fmt.Errorf("change %d: %w: unknown change type %q", i, ErrInvalidChange, c.ChangeType)
		}
	}
	return details, nil
}

func newDetail(changeID, process, layer string, c models.Change, createdAt time.Time) models.ChangeDetail {
	d := models.ChangeDetail{
		ChangeID:   changeID,
		ChangeType: c.ChangeType,
		Process:    process,
		Layer:      layer,
		CreatedAt:  createdAt,
	}
	switch {
	case c.OriginalData != nil:
		d.DefectType, d.OperationList = c.OriginalData.DefectType, c.OriginalData.OperationList
	case c.NewData != nil:
		d.DefectType, d.OperationList = c.NewData.DefectType, c.NewData.OperationList
	}
	if key, ok := c.RowKey(); ok {
		d.RowID = &key
	}
	return d
}

func serializeRow(row models.Row) (string, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("serialize row %d: %w", row.RowID, err)
	}
	return string(raw), nil
}
