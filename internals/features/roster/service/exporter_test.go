// file: internals/features/roster/service/exporter_test.go
package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"el3adra_backend/internals/features/roster/model"
)

func TestBuildChildrenWorkbook(t *testing.T) {
	rows := []model.ChildProfileModel{
		{
			ChildrenName:        "مينا جرجس",
			ChildrenPhone:       "0100000001",
			ChildrenAddress:     "شبرا",
			ChildrenDateOfBirth: "12/05/2015",
			ChildrenStage:       "ابتدائي",
			ChildrenNotes:       "خادم مساعد",
		},
		{ChildrenName: "مريم سمير"},
	}

	f, err := BuildChildrenWorkbook(rows)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "الاسم", header)

	name, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "مينا جرجس", name)

	seq, err := f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2", seq)

	notes, err := f.GetCellValue(sheet, "I2")
	require.NoError(t, err)
	assert.Equal(t, "خادم مساعد", notes)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 17, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, "children_grade3_2024-03-17.xlsx", ExportFilename("grade3", now))
}
