// file: internals/features/roster/service/status.go
package service

import (
	"el3adra_backend/internals/features/roster/model"
)

// Status filter values for the attendance pages.
const (
	StatusAll     = "all"
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusNone    = "none"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusAll, StatusPresent, StatusAbsent, StatusNone, "":
		return true
	}
	return false
}

// FilterByDayStatus applies the tri-state status filter for one date.
//
//   - present: the day record exists and field is explicitly true
//   - absent:  the day record exists and field is explicitly false
//   - none:    no day record at all for that date
//
// "absent" and "none" are distinct states: a record written as false
// by a reset stays visible under "absent" but not under "none".
func FilterByDayStatus[T any](rows []T, date, field, status string, days func(T) model.DayMap) []T {
	if status == "" || status == StatusAll {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		m := days(r)
		switch status {
		case StatusPresent:
			if v, ok := m.Get(date)[field]; ok && v {
				out = append(out, r)
			}
		case StatusAbsent:
			if v, ok := m.Get(date)[field]; ok && !v {
				out = append(out, r)
			}
		case StatusNone:
			if !m.Has(date) {
				out = append(out, r)
			}
		}
	}
	return out
}
