package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Common fills used by workbook renderers.
const (
	FillHeader = "D3D3D3"
	FillAdd    = "90EE90"
	FillEdit   = "FFFFE0"
	FillRemove = "FFB6C1"
)

// Cell is one styled worksheet value.
type Cell struct {
	Value interface{}
	Fill  string
	Bold  bool
}

// Sheet is one worksheet. Headers, when present, are written bold on a grey fill.
type Sheet struct {
	Name     string
	Headers  []string
	Rows     [][]Cell
	ColWidth float64
}

// XLSXExporter renders sheets into an xlsx workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an xlsx exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

type styleKey struct {
	fill string
	bold bool
}

// Render writes every sheet, in order, into one workbook.
func (e *XLSXExporter) Render(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	styles := make(map[styleKey]int)
	styleFor := func(k styleKey) (int, error) {
		if id, ok := styles[k]; ok {
			return id, nil
		}
		style := &excelize.Style{Font: &excelize.Font{Bold: k.bold}}
		if k.fill != "" {
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{k.fill}}
		}
		id, err := f.NewStyle(style)
		if err != nil {
			return 0, fmt.Errorf("create xlsx style: %w", err)
		}
		styles[k] = id
		return id, nil
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}

		rowOffset := 1
		if len(sheet.Headers) > 0 {
			header := make([]Cell, len(sheet.Headers))
			for c, h := range sheet.Headers {
				header[c] = Cell{Value: h, Fill: FillHeader, Bold: true}
			}
			if err := writeRow(f, sheet.Name, 1, header, styleFor); err != nil {
				return nil, err
			}
			rowOffset = 2
		}
		for r, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, r+rowOffset, row, styleFor); err != nil {
				return nil, err
			}
		}

		width := sheet.ColWidth
		if width <= 0 {
			width = 18
		}
		cols := len(sheet.Headers)
		for _, row := range sheet.Rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
		if cols > 0 {
			last, err := excelize.ColumnNumberToName(cols)
			if err != nil {
				return nil, fmt.Errorf("resolve column %d: %w", cols, err)
			}
			if err := f.SetColWidth(sheet.Name, "A", last, width); err != nil {
				return nil, fmt.Errorf("set column width: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []Cell, styleFor func(styleKey) (int, error)) error {
	for c, cell := range cells {
		name, err := excelize.CoordinatesToCellName(c+1, rowNum)
		if err != nil {
			return fmt.Errorf("resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, name, cell.Value); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, name, err)
		}
		if cell.Fill == "" && !cell.Bold {
			continue
		}
		id, err := styleFor(styleKey{fill: cell.Fill, bold: cell.Bold})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, name, name, id); err != nil {
			return fmt.Errorf("style cell %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

// ReadFirstSheet returns every row of the workbook's first worksheet as strings.
func ReadFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// SheetNames lists the worksheets in a rendered workbook.
func SheetNames(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return f.GetSheetList(), nil
}
