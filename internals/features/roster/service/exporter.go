// file: internals/features/roster/service/exporter.go
package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"el3adra_backend/internals/features/roster/model"
)

// Fixed column set of the children directory export.
var exportHeaders = []string{
	"#",
	"الاسم",
	"رقم التلفون",
	"رقم التلفون 1",
	"رقم التلفون 2",
	"العنوان",
	"تاريخ الميلاد",
	"المرحلة",
	"ملاحظات",
}

// BuildChildrenWorkbook renders the directory rows — already filtered
// and sorted by the caller — into one sheet.
func BuildChildrenWorkbook(rows []model.ChildProfileModel) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []any{
			i + 1,
			r.ChildrenName,
			r.ChildrenPhone,
			r.ChildrenPhone1,
			r.ChildrenPhone2,
			r.ChildrenAddress,
			r.ChildrenDateOfBirth,
			r.ChildrenStage,
			r.ChildrenNotes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// ExportFilename embeds the stage tag and the current date.
func ExportFilename(stage string, now time.Time) string {
	return fmt.Sprintf("children_%s_%s.xlsx", stage, now.Format("2006-01-02"))
}
