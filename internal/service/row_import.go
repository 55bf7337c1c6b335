package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/snehn77/Editor/internal/models"
)

// rowSetters maps workbook headers to Row fields.
var rowSetters = map[string]func(*models.Row, string){
	"Process":              func(r *models.Row, v string) { r.Process = v },
	"Layer":                func(r *models.Row, v string) { r.Layer = v },
	"Defect Type":          func(r *models.Row, v string) { r.DefectType = v },
	"Operation List":       func(r *models.Row, v string) { r.OperationList = v },
	"Class Type":           func(r *models.Row, v string) { r.ClassType = optionalString(v) },
	"Product":              func(r *models.Row, v string) { r.Product = optionalString(v) },
	"Entity Confidence":    func(r *models.Row, v string) { r.EntityConfidence = lenientInt(v) },
	"Comments":             func(r *models.Row, v string) { r.Comments = optionalString(v) },
	"Generic Data 1":       func(r *models.Row, v string) { r.GenericData1 = optionalString(v) },
	"Generic Data 2":       func(r *models.Row, v string) { r.GenericData2 = optionalString(v) },
	"Generic Data 3":       func(r *models.Row, v string) { r.GenericData3 = optionalString(v) },
	"EDI Attribution":      func(r *models.Row, v string) { r.EdiAttribution = optionalString(v) },
	"EDI Attribution List": func(r *models.Row, v string) { r.EdiAttributionList = optionalString(v) },
	"Security Code":        func(r *models.Row, v string) { r.SecurityCode = lenientInt(v) },
	"Original ID":          func(r *models.Row, v string) { r.OriginalID = lenientInt(v) },
}

// parseImportedRows maps sheet rows to Rows using the header row. Unknown
// columns are ignored and rows without process, layer or defect type are skipped.
func parseImportedRows(sheet [][]string, username string, now time.Time) []models.Row {
	if len(sheet) < 2 {
		return nil
	}
	columns := make(map[int]func(*models.Row, string))
	for i, h := range sheet[0] {
		if set, ok := rowSetters[strings.TrimSpace(h)]; ok {
			columns[i] = set
		}
	}

	rows := make([]models.Row, 0, len(sheet)-1)
	for _, line := range sheet[1:] {
		row := models.Row{LastModified: now, LastModifiedBy: username}
		for i, cell := range line {
			if set, ok := columns[i]; ok {
				set(&row, strings.TrimSpace(cell))
			}
		}
		if row.Process == "" || row.Layer == "" || row.DefectType == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func lenientInt(v string) *int {
	n, err := strconv.Atoi(v)
	if err != nil {
		if f, ferr := strconv.ParseFloat(v, 64); ferr == nil && f == float64(int(f)) {
			n = int(f)
		} else {
			return nil
		}
	}
	return &n
}
