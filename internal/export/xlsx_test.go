package export

import (
	"bytes"
	"testing"
	"time"

	"sarpras/internal/tableview"
	"sarpras/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX_FromSchema(t *testing.T) {
	items := []model.Alat{
		{Nama: "Proyektor", Kode: "PRJ-01", Jumlah: 3, Harga: 50000, StatusAset: model.StatusTersedia},
		{Nama: "Kamera", Jumlah: 1, StatusAset: model.StatusSedangDiperbaiki},
	}
	table := FromSchema(tableview.Alat, items)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("alat")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Nama", rows[0][0])
	assert.Equal(t, "Proyektor", rows[1][0])
	assert.Equal(t, "SEDANG_DIPERBAIKI", rows[2][6])

	typ, err := f.GetCellType("alat", "E2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}

func TestWriteXLSX_EmptyTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Table{Headers: []string{"A"}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{defaultSheet}, f.GetSheetList())
}

func TestTable_Filename(t *testing.T) {
	name := Table{Title: "peminjaman"}.Filename(time.Date(2024, 6, 1, 13, 4, 5, 0, time.UTC))
	assert.Equal(t, "peminjaman_20240601_130405.xlsx", name)
}

func TestSheetName(t *testing.T) {
	assert.Len(t, sheetName("a-very-long-resource-name-that-overflows"), 31)
}
