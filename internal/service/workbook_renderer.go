package service

import (
	"fmt"
	"time"

	"github.com/snehn77/Editor/internal/changeset"
	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/pkg/export"
)

const timeLayout = "2006-01-02 15:04:05"

// WorkbookRenderer turns base rows plus a change-set into the review workbook
// attached to submissions and xlsx exports.
type WorkbookRenderer struct {
	xlsx *export.XLSXExporter
	now  func() time.Time
}

// NewWorkbookRenderer constructs the renderer.
func NewWorkbookRenderer() *WorkbookRenderer {
	return &WorkbookRenderer{xlsx: export.NewXLSXExporter(), now: time.Now}
}

// RowHeaders returns the column headers used for row sheets and flat exports.
func RowHeaders() []string {
	headers := make([]string, 0, len(changeset.Fields)+3)
	headers = append(headers, "ID")
	for _, f := range changeset.Fields {
		headers = append(headers, f.Header)
	}
	return append(headers, "Last Modified", "Last Modified By")
}

// Render produces the workbook: the base rows, the change log with each change
// coloured by type, the projected rows and a summary.
func (r *WorkbookRenderer) Render(base []models.Row, changes []models.Change, process, layer string) ([]byte, error) {
	headers := RowHeaders()

	original := make([][]export.Cell, 0, len(base))
	for _, row := range base {
		original = append(original, rowCells(row, ""))
	}

	changeRows := make([][]export.Cell, 0, len(changes))
	for _, c := range changes {
		changeRows = append(changeRows, changeCells(c))
	}

	projected := changeset.Project(base, changes)
	effective := make([][]export.Cell, 0, len(projected))
	for _, row := range projected {
		effective = append(effective, rowCells(row, ""))
	}

	sum := changeset.Summarize(changes)
	label := func(v string) export.Cell { return export.Cell{Value: v} }
	summary := [][]export.Cell{
		{{Value: "RC Table Editor - Change Summary", Bold: true}},
		{},
		{label("Process:"), label(process)},
		{label("Layer:"), label(layer)},
		{label("Generated Date:"), label(r.now().UTC().Format(timeLayout))},
		{},
		{{Value: "Change Statistics:", Bold: true}},
		{label("Additions:"), {Value: sum.Adds, Fill: export.FillAdd}},
		{label("Modifications:"), {Value: sum.Edits, Fill: export.FillEdit}},
		{label("Removals:"), {Value: sum.Removes, Fill: export.FillRemove}},
		{label("Total Changes:"), {Value: sum.Total, Bold: true}},
	}

	data, err := r.xlsx.Render([]export.Sheet{
		{Name: "Original Data", Headers: headers, Rows: original},
		{Name: "Changes", Headers: append([]string{"Change Type"}, headers...), Rows: changeRows},
		{Name: "Effective Data", Headers: headers, Rows: effective},
		{Name: "Summary", Rows: summary, ColWidth: 24},
	})
	if err != nil {
		return nil, fmt.Errorf("render workbook for %s/%s: %w", process, layer, err)
	}
	return data, nil
}

func changeCells(c models.Change) []export.Cell {
	fill := ""
	switch c.ChangeType {
	case models.ChangeTypeAdd:
		fill = export.FillAdd
	case models.ChangeTypeEdit:
		fill = export.FillEdit
	case models.ChangeTypeRemove:
		fill = export.FillRemove
	}
	cells := []export.Cell{{Value: string(c.ChangeType), Fill: fill}}

	switch {
	case c.ChangeType == models.ChangeTypeRemove && c.OriginalData != nil:
		return append(cells, rowCells(*c.OriginalData, export.FillRemove)...)
	case c.ChangeType == models.ChangeTypeRemove:
		id, _ := c.RowKey()
		return append(cells, export.Cell{Value: id, Fill: export.FillRemove})
	case c.NewData == nil:
		return cells
	}

	row := rowCells(*c.NewData, "")
	if c.ChangeType == models.ChangeTypeEdit {
		modified := make(map[string]bool, len(c.ModifiedFields))
		for _, name := range c.ModifiedFields {
			modified[name] = true
		}
		for i, f := range changeset.Fields {
			if modified[f.Name] {
				// offset by the leading ID column
				row[i+1].Fill = export.FillEdit
				row[i+1].Bold = true
			}
		}
	}
	return append(cells, row...)
}

func rowCells(row models.Row, fill string) []export.Cell {
	cells := make([]export.Cell, 0, len(changeset.Fields)+3)
	cells = append(cells, export.Cell{Value: row.RowID, Fill: fill})
	for _, f := range changeset.Fields {
		var v interface{}
		if s := f.Value(row); s != nil {
			v = *s
		}
		cells = append(cells, export.Cell{Value: v, Fill: fill})
	}
	var modified interface{}
	if !row.LastModified.IsZero() {
		modified = row.LastModified.UTC().Format(timeLayout)
	}
	return append(cells,
		export.Cell{Value: modified, Fill: fill},
		export.Cell{Value: row.LastModifiedBy, Fill: fill},
	)
}

// RowsDataset flattens rows for the CSV and PDF exporters.
func RowsDataset(title string, rows []models.Row) export.Dataset {
	data := export.Dataset{Title: title, Headers: RowHeaders(), Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		line := make([]string, 0, len(data.Headers))
		line = append(line, fmt.Sprintf("%d", row.RowID))
		for _, f := range changeset.Fields {
			v := ""
			if s := f.Value(row); s != nil {
				v = *s
			}
			line = append(line, v)
		}
		modified := ""
		if !row.LastModified.IsZero() {
			modified = row.LastModified.UTC().Format(timeLayout)
		}
		data.Rows = append(data.Rows, append(line, modified, row.LastModifiedBy))
	}
	return data
}
