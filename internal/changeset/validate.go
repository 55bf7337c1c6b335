package changeset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/snehn77/Editor/internal/models"
)

// ErrInvalidChange marks a change whose shape does not match its type.
var ErrInvalidChange = errors.New("invalid change")

// Validate checks the payload shape required by the change type:
// Add carries only newData, Edit carries both snapshots and a target whose
// id newData keeps, Remove carries only originalData and a target.
func Validate(c models.Change) error {
	switch c.ChangeType {
	case models.ChangeTypeAdd:
		if c.TargetRowID != nil {
			return invalid("add must not carry targetRowId")
		}
		if c.OriginalData != nil {
			return invalid("add must not carry originalData")
		}
		if c.NewData == nil {
			return invalid("add requires newData")
		}
		return requireIdentity(*c.NewData)
	case models.ChangeTypeEdit:
		if c.TargetRowID == nil {
			return invalid("edit requires targetRowId")
		}
		if c.OriginalData == nil || c.NewData == nil {
			return invalid("edit requires originalData and newData")
		}
		if c.NewData.RowID != *c.TargetRowID {
			return invalid(fmt.Sprintf("edit newData rowId %d does not match targetRowId %d", c.NewData.RowID, *c.TargetRowID))
		}
		return requireIdentity(*c.NewData)
	case models.ChangeTypeRemove:
		if c.TargetRowID == nil {
			return invalid("remove requires targetRowId")
		}
		if c.NewData != nil {
			return invalid("remove must not carry newData")
		}
		if c.OriginalData == nil {
			return invalid("remove requires originalData")
		}
		return nil
	default:
		return invalid(fmt.Sprintf("unknown change type %q", c.ChangeType))
	}
}

// ValidateAll validates every change, reporting the first failure with its position.
func ValidateAll(changes []models.Change) error {
	for i, c := range changes {
		if err := Validate(c); err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
	}
	return nil
}

func requireIdentity(row models.Row) error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(row.Process) == "" {
		missing = append(missing, "process")
	}
	if strings.TrimSpace(row.Layer) == "" {
		missing = append(missing, "layer")
	}
	if strings.TrimSpace(row.DefectType) == "" {
		missing = append(missing, "defectType")
	}
	if len(missing) > 0 {
		return invalid("newData missing " + strings.Join(missing, ", "))
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidChange, msg)
}
