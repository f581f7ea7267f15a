// file: internals/features/roster/model/day_map.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

/* =========================================================
   Day map — sparse per-child attendance record
   =========================================================

   Keys are ISO dates (YYYY-MM-DD). A missing date key means "no
   attendance data for that day", which is NOT the same thing as a day
   record whose fields are false: the "none" status filter relies on
   key absence, while checkbox rendering and monthly counts collapse
   false-and-absent into false. All-false day records are therefore
   kept explicit, never pruned.
*/

const (
	FieldPresent     = "present"
	FieldMassPresent = "massPresent"
)

// DayRecord holds the attendance facts for one child on one date,
// keyed by field name ("present", "massPresent").
type DayRecord map[string]bool

// JSON renders the record as a jsonb literal for partial-path updates.
func (r DayRecord) JSON() (string, error) {
	if r == nil {
		return "{}", nil
	}
	b, err := json.Marshal(r)
	return string(b), err
}

// DayMap maps ISO date → day record. Stored as a jsonb column.
type DayMap map[string]DayRecord

// Get returns the stored day record for date, or an empty record when
// the key is absent. Never mutates the map.
func (m DayMap) Get(date string) DayRecord {
	if rec, ok := m[date]; ok {
		return rec
	}
	return DayRecord{}
}

// Has reports whether any record exists for date at all — the
// three-state "no record" case for the status filter.
func (m DayMap) Has(date string) bool {
	_, ok := m[date]
	return ok
}

// SetField returns a copy of m where days[date][field] is overwritten
// and every other date is untouched. Pure; the caller persists.
func (m DayMap) SetField(date, field string, value bool) DayMap {
	out := make(DayMap, len(m)+1)
	for d, rec := range m {
		out[d] = rec
	}
	rec := make(DayRecord, len(m[date])+1)
	for f, v := range m[date] {
		rec[f] = v
	}
	rec[field] = value
	out[date] = rec
	return out
}

// SetDay returns a copy of m with the whole record for date replaced
// (used by the per-day reset).
func (m DayMap) SetDay(date string, rec DayRecord) DayMap {
	out := make(DayMap, len(m)+1)
	for d, r := range m {
		out[d] = r
	}
	out[date] = rec
	return out
}

// MonthlyCount counts dates inside yearMonth (YYYY-MM prefix) whose
// record has field == true. Full scan of the sparse map; fine at
// roster sizes of tens to low hundreds.
func (m DayMap) MonthlyCount(yearMonth, field string) int {
	n := 0
	for date, rec := range m {
		if strings.HasPrefix(date, yearMonth) && rec[field] {
			n++
		}
	}
	return n
}

func (m DayMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *DayMap) Scan(src any) error {
	if src == nil {
		*m = DayMap{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("day map: unsupported scan source")
}

func (DayMap) GormDataType() string { return "jsonb" }

/* =========================================================
   Month map — "visited" flags, YYYY-MM granularity
   ========================================================= */

type MonthMap map[string]bool

func (m MonthMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *MonthMap) Scan(src any) error {
	if src == nil {
		*m = MonthMap{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("month map: unsupported scan source")
}

func (MonthMap) GormDataType() string { return "jsonb" }

// Set returns a copy with month overwritten, same contract as
// DayMap.SetField.
func (m MonthMap) Set(month string, value bool) MonthMap {
	out := make(MonthMap, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[month] = value
	return out
}
