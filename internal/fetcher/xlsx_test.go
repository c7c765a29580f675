package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("cases")
	require.NoError(t, err)

	header := sheet.AddRow()
	header.AddCell().SetString("id")
	header.AddCell().SetString("count")

	row := sheet.AddRow()
	row.AddCell().SetString("11001")
	row.AddCell().SetInt(42)

	path := filepath.Join(t.TempDir(), "cases.xlsx")
	require.NoError(t, wb.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t)

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "cases"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "count"}, rows[0])
	assert.Equal(t, []string{"11001", "42"}, rows[1])
}

func TestReadXLSXSkipRows(t *testing.T) {
	path := writeWorkbook(t)

	rows, err := ReadXLSX(path, XLSXOptions{SheetIndex: 0, SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "11001", rows[0][0])
}

func TestReadXLSXMissingSheet(t *testing.T) {
	path := writeWorkbook(t)

	_, err := ReadXLSX(path, XLSXOptions{SheetName: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
