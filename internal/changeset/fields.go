// Package changeset holds the pure draft change-set logic: field diffing,
// shape validation, reconciliation of new edits, projection onto base rows
// and construction of audit details. Nothing here performs I/O.
package changeset

import (
	"strconv"

	"github.com/snehn77/Editor/internal/models"
)

// Field is one diffable column of a Row.
type Field struct {
	Name   string
	Header string
	value  func(models.Row) *string
}

// Value returns the field's value on row in its audit string form; nil means null.
func (f Field) Value(row models.Row) *string {
	return f.value(row)
}

// Fields lists every diffable Row column in declaration order. Identity
// (rowId, batchId) and attribution stamps (lastModified, lastModifiedBy) are
// deliberately absent: they differ on every save.
var Fields = []Field{
	{Name: "process", Header: "Process", value: func(r models.Row) *string { return str(r.Process) }},
	{Name: "layer", Header: "Layer", value: func(r models.Row) *string { return str(r.Layer) }},
	{Name: "defectType", Header: "Defect Type", value: func(r models.Row) *string { return str(r.DefectType) }},
	{Name: "operationList", Header: "Operation List", value: func(r models.Row) *string { return str(r.OperationList) }},
	{Name: "classType", Header: "Class Type", value: func(r models.Row) *string { return r.ClassType }},
	{Name: "product", Header: "Product", value: func(r models.Row) *string { return r.Product }},
	{Name: "entityConfidence", Header: "Entity Confidence", value: func(r models.Row) *string { return itoa(r.EntityConfidence) }},
	{Name: "comments", Header: "Comments", value: func(r models.Row) *string { return r.Comments }},
	{Name: "genericData1", Header: "Generic Data 1", value: func(r models.Row) *string { return r.GenericData1 }},
	{Name: "genericData2", Header: "Generic Data 2", value: func(r models.Row) *string { return r.GenericData2 }},
	{Name: "genericData3", Header: "Generic Data 3", value: func(r models.Row) *string { return r.GenericData3 }},
	{Name: "ediAttribution", Header: "EDI Attribution", value: func(r models.Row) *string { return r.EdiAttribution }},
	{Name: "ediAttributionList", Header: "EDI Attribution List", value: func(r models.Row) *string { return r.EdiAttributionList }},
	{Name: "securityCode", Header: "Security Code", value: func(r models.Row) *string { return itoa(r.SecurityCode) }},
	{Name: "originalId", Header: "Original ID", value: func(r models.Row) *string { return itoa(r.OriginalID) }},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(Fields))
	for i, f := range Fields {
		idx[f.Name] = i
	}
	return idx
}()

// LookupField resolves a field by name.
func LookupField(name string) (Field, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return Fields[i], true
}

// ModifiedFields returns, in declaration order, the names of fields whose
// values differ between original and updated. Null and empty string differ.
func ModifiedFields(original, updated models.Row) []string {
	modified := make([]string, 0)
	for _, f := range Fields {
		if !equalValues(f.value(original), f.value(updated)) {
			modified = append(modified, f.Name)
		}
	}
	return modified
}

func equalValues(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func str(v string) *string {
	return &v
}

func itoa(v *int) *string {
	if v == nil {
		return nil
	}
	s := strconv.Itoa(*v)
	return &s
}
