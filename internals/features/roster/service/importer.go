// file: internals/features/roster/service/importer.go
package service

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	helper "el3adra_backend/internals/helpers"
)

/* =========================================================
   Bulk import merger
   =========================================================

   Takes a spreadsheet (.xlsx or legacy .xls), maps its header row to
   canonical fields through the alias table, and filters candidate
   rows against the existing roster set AND against rows already
   accepted earlier in the same batch. Survivors are persisted one at
   a time by the caller; the merger itself never touches the store.
*/

// ErrParse — malformed file or missing mandatory name column. Raised
// before any row is accepted, so zero writes happen.
var ErrParse = errors.New("import parse error")

// headerAliases maps each canonical field to the header spellings seen
// across the sheets the servants actually upload. Matching is a
// normalized exact match (trim, case-fold, whitespace squashed) — no
// fuzzy matching.
var headerAliases = map[string][]string{
	"name":             {"اسم", "اسم الطفل", "الاسم", "name"},
	"phone":            {"رقم", "رقم الهاتف", "رقم التلفون", "التليفون", "phone"},
	"phone1":           {"رقم2", "رقم 2", "هاتف2", "رقم التلفون 1"},
	"phone2":           {"رقم3", "رقم 3", "هاتف3", "رقم التلفون 2"},
	"notes":            {"ملاحظات", "notes", "note"},
	"address":          {"العنوان", "عنوان", "address"},
	"dateOfBirth":      {"تاريخ الميلاد", "الميلاد", "dob"},
	"stage":            {"المرحلة", "stage"},
	"birthCertificate": {"شهادة الميلاد", "شهادة", "birth"},
}

// headerSentinels: a mis-parsed second header row must be skipped, not
// imported as a child called "الاسم". Keys are SquashHeader forms so a
// pasted header with doubled interior spaces is still caught, matching
// how column headers themselves resolve.
var headerSentinels = map[string]bool{
	"الاسم":    true,
	"اسمالطفل": true,
	"name":     true,
}

// MatchField resolves one column header to its canonical field, or ""
// when no alias matches.
func MatchField(header string) string {
	key := helper.SquashHeader(header)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			if helper.SquashHeader(alias) == key {
				return field
			}
		}
	}
	return ""
}

// ImportedChild is one accepted candidate row.
type ImportedChild struct {
	Name             string
	Phone            string
	Phone1           string
	Phone2           string
	Notes            string
	Address          string
	DateOfBirth      string
	Stage            string
	BirthCertificate string
}

/* ===============================
   Workbook parsing (.xlsx / .xls)
=================================*/

// ParseWorkbook reads the first sheet of the uploaded file into raw
// string rows, header row included.
func ParseWorkbook(filename string, data []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("%w: no worksheet found", ErrParse)
		}
		rows := workbook.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: worksheet is empty", ErrParse)
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("%w: no worksheet found", ErrParse)
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: worksheet is empty", ErrParse)
		}
		return rows, nil
	}
}

/* ===============================
   Header resolution
=================================*/

// resolveColumns maps canonical field → column index. The name column
// is mandatory; everything else is optional.
func resolveColumns(headerRow []string) (map[string]int, error) {
	cols := map[string]int{}
	for idx, h := range headerRow {
		if field := MatchField(h); field != "" {
			if _, taken := cols[field]; !taken {
				cols[field] = idx
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: missing name column", ErrParse)
	}
	return cols, nil
}

func cellValue(row []string, idx int, ok bool) string {
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

/* ===============================
   Excel serial dates
=================================*/

// ParseSheetDate converts an Excel date-serial number to dd/mm/yyyy
// (serial − 25569 days since 1970-01-01). Non-numeric cells pass
// through as their string form unchanged.
func ParseSheetDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t := time.Unix(int64((serial-25569)*86400), 0).UTC()
	return t.Format("02/01/2006")
}

/* ===============================
   Merge
=================================*/

// MergeRows filters the data rows (header excluded) into the accepted
// candidate list. existingNames holds the normalized names already in
// the stage; it is extended in place as rows are accepted, so a name
// repeated within the batch survives only once (the first).
func MergeRows(rows [][]string, cols map[string]int, existingNames map[string]bool) []ImportedChild {
	accepted := make([]ImportedChild, 0, len(rows))
	for _, row := range rows {
		nameIdx, hasName := cols["name"]
		name := cellValue(row, nameIdx, hasName)
		if name == "" {
			continue
		}
		normalized := helper.NormalizeName(name)
		if headerSentinels[helper.SquashHeader(name)] {
			continue
		}
		if existingNames[normalized] {
			continue
		}
		existingNames[normalized] = true

		get := func(field string) string {
			idx, ok := cols[field]
			return cellValue(row, idx, ok)
		}
		accepted = append(accepted, ImportedChild{
			Name:             name,
			Phone:            get("phone"),
			Phone1:           get("phone1"),
			Phone2:           get("phone2"),
			Notes:            get("notes"),
			Address:          get("address"),
			DateOfBirth:      ParseSheetDate(get("dateOfBirth")),
			Stage:            get("stage"),
			BirthCertificate: get("birthCertificate"),
		})
	}
	return accepted
}

// ParseAndMerge is the whole import pipeline up to (not including)
// persistence: parse, resolve headers, merge.
func ParseAndMerge(filename string, data []byte, existingNames map[string]bool) ([]ImportedChild, error) {
	rows, err := ParseWorkbook(filename, data)
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}
	return MergeRows(rows[1:], cols, existingNames), nil
}
