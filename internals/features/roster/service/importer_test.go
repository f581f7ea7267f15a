// file: internals/features/roster/service/importer_test.go
package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestMatchField(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"الاسم", "name"},
		{" اسم الطفل ", "name"},
		{"Name", "name"},
		{"رقم التلفون", "phone"},
		{"رقم  التلفون", "phone"}, // doubled space
		{"رقم 2", "phone1"},
		{"تاريخ الميلاد", "dateOfBirth"},
		{"عمود غريب", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchField(tt.header), "header %q", tt.header)
	}
}

func TestParseAndMergeBasicSheet(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"الاسم", "رقم التلفون"},
		{"مينا", "0100000001"},
		{"مريم", "0100000002"},
		{"", ""}, // trailing blank row
	})

	got, err := ParseAndMerge("roster.xlsx", data, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "مينا", got[0].Name)
	assert.Equal(t, "0100000001", got[0].Phone)
	assert.Equal(t, "مريم", got[1].Name)
}

func TestParseAndMergeSkipsExistingNames(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"الاسم"},
		{"مينا"},
		{" مينا  "}, // in-batch duplicate, whitespace variant
		{"مريم"},
	})

	existing := map[string]bool{"مريم": true}
	got, err := ParseAndMerge("roster.xlsx", data, existing)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "مينا", got[0].Name)
	// accepted rows extend the set for later batches
	assert.True(t, existing["مينا"])
}

func TestParseAndMergeSkipsRepeatedHeaderRow(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"الاسم"},
		{"مينا"},
		{"الاسم"}, // pasted second header
		{"مريم"},
	})

	got, err := ParseAndMerge("roster.xlsx", data, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestParseAndMergeSkipsSentinelWithDoubledSpaces(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"الاسم"},
		{"مينا"},
		{"اسم  الطفل"}, // pasted header cell, doubled interior space
		{"مريم"},
	})

	got, err := ParseAndMerge("roster.xlsx", data, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "مينا", got[0].Name)
	assert.Equal(t, "مريم", got[1].Name)
}

func TestParseAndMergeMissingNameColumn(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"رقم التلفون", "العنوان"},
		{"0100000001", "القاهرة"},
	})

	_, err := ParseAndMerge("roster.xlsx", data, map[string]bool{})
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseAndMergeGarbageBytes(t *testing.T) {
	_, err := ParseAndMerge("roster.xlsx", []byte("not a workbook"), map[string]bool{})
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseSheetDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"44927", "01/01/2023"}, // excel serial
		{"25569", "01/01/1970"},
		{"12/05/2015", "12/05/2015"}, // already a date string
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSheetDate(tt.in), "input %q", tt.in)
	}
}

func TestMergeRowsKeepsFirstDuplicateOnly(t *testing.T) {
	cols := map[string]int{"name": 0, "notes": 1}
	rows := [][]string{
		{"مينا", "الأولى"},
		{"مينا", "الثانية"},
	}

	got := MergeRows(rows, cols, map[string]bool{})
	require.Len(t, got, 1)
	assert.Equal(t, "الأولى", got[0].Notes)
}

func TestMergeRowsShortRow(t *testing.T) {
	// row shorter than the resolved columns must not panic
	cols := map[string]int{"name": 0, "address": 3}
	rows := [][]string{{"مينا"}}

	got := MergeRows(rows, cols, map[string]bool{})
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Address)
}
