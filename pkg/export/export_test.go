package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	ds := Dataset{Name: "Data", Headers: []string{"Họ tên", "Học phí gốc", "Ngày đăng ký"}}
	ds.AddRow("Nguyễn Văn A", int64(3500000), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	ds.AddRow("Trần Thị B", int64(2800000), nil)
	return ds
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(out), "\ufeff")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Họ tên,Học phí gốc,Ngày đăng ký", lines[0])
	assert.Equal(t, "Nguyễn Văn A,3500000,2025-01-15", lines[1])
	assert.Equal(t, "Trần Thị B,2800000,", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestDatasetRejectsWideRows(t *testing.T) {
	ds := Dataset{Headers: []string{"a"}}
	ds.AddRow(1, 2)
	_, err := NewCSVExporter().Render(ds)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Học viên")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRendersSheetsInOrder(t *testing.T) {
	second := Dataset{Name: "Leads", Headers: []string{"Công ty"}}
	second.AddRow("ACME")

	out, err := NewXLSXExporter().Render(sampleDataset(), second)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Data", "Leads"}, f.GetSheetList())

	header, err := f.GetCellValue("Data", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Họ tên", header)

	fee, err := f.GetCellValue("Data", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3500000", fee)

	date, err := f.GetCellValue("Data", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", date)

	company, err := f.GetCellValue("Leads", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ACME", company)
}

func TestXLSXExporterRequiresSheet(t *testing.T) {
	_, err := NewXLSXExporter().Render()
	assert.Error(t, err)
}
