package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/snehn77/Editor/internal/models"
)

func TestWorkbookRendererWritesAllSheets(t *testing.T) {
	renderer := NewWorkbookRenderer()
	renderer.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	base := []models.Row{sampleRow(1, "orig"), sampleRow(2, "keep")}
	edit := editChange(1, "orig", "updated")
	edit.ModifiedFields = []string{"comments"}
	changes := []models.Change{edit, removeChange(2), addChange(-1)}

	data, err := renderer.Render(base, changes, "P1", "L1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Original Data", "Changes", "Effective Data", "Summary"}, f.GetSheetList())

	original, err := f.GetRows("Original Data")
	require.NoError(t, err)
	require.Len(t, original, 3)
	assert.Equal(t, RowHeaders(), original[0])

	changeRows, err := f.GetRows("Changes")
	require.NoError(t, err)
	require.Len(t, changeRows, 4)
	assert.Equal(t, "Change Type", changeRows[0][0])
	assert.Equal(t, []string{"Edit", "Remove", "Add"}, []string{changeRows[1][0], changeRows[2][0], changeRows[3][0]})

	effective, err := f.GetRows("Effective Data")
	require.NoError(t, err)
	require.Len(t, effective, 3)
	assert.Equal(t, "1", effective[1][0])
	assert.Equal(t, "-1", effective[2][0])

	total, err := f.GetCellValue("Summary", "B11")
	require.NoError(t, err)
	assert.Equal(t, "3", total)
	process, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "P1", process)
}

func TestRowsDatasetMatchesHeaders(t *testing.T) {
	data := RowsDataset("title", []models.Row{sampleRow(7, "c")})
	require.Len(t, data.Rows, 1)
	assert.Len(t, data.Rows[0], len(data.Headers))
	assert.Equal(t, "7", data.Rows[0][0])
}

func TestArtifactFileNameSanitises(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "TableData_P_1_L_1_20240102_030405.xlsx", ArtifactFileName("P 1", "L/1", at, "xlsx"))
}
