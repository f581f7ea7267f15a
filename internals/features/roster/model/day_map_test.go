// file: internals/features/roster/model/day_map_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetFieldLeavesOtherDatesUntouched(t *testing.T) {
	m := DayMap{
		"2024-03-05": {FieldPresent: true, FieldMassPresent: true},
	}

	next := m.SetField("2024-03-12", FieldPresent, true)

	assert.True(t, next["2024-03-05"][FieldPresent])
	assert.True(t, next["2024-03-05"][FieldMassPresent])
	assert.True(t, next["2024-03-12"][FieldPresent])

	// original untouched
	assert.False(t, m.Has("2024-03-12"))
}

func TestSetFieldKeepsSiblingFieldOnSameDate(t *testing.T) {
	m := DayMap{
		"2024-03-05": {FieldPresent: true, FieldMassPresent: true},
	}

	next := m.SetField("2024-03-05", FieldPresent, false)

	rec := next["2024-03-05"]
	assert.False(t, rec[FieldPresent])
	assert.True(t, rec[FieldMassPresent], "sibling field must survive a single-field write")
}

func TestSetFieldOnNilMap(t *testing.T) {
	var m DayMap

	next := m.SetField("2024-03-05", FieldMassPresent, true)

	assert.True(t, next["2024-03-05"][FieldMassPresent])
	assert.Len(t, next, 1)
}

func TestSetDayReplacesWholeRecord(t *testing.T) {
	m := DayMap{
		"2024-03-05": {FieldPresent: true, FieldMassPresent: true},
		"2024-03-06": {FieldPresent: true},
	}

	next := m.SetDay("2024-03-05", DayRecord{FieldPresent: false, FieldMassPresent: false})

	assert.Equal(t, DayRecord{FieldPresent: false, FieldMassPresent: false}, next["2024-03-05"])
	assert.True(t, next["2024-03-06"][FieldPresent])
	// reset leaves an explicit all-false record, it does not delete the key
	assert.True(t, next.Has("2024-03-05"))
}

func TestHasDistinguishesAbsentFromFalse(t *testing.T) {
	m := DayMap{
		"2024-03-05": {FieldPresent: false},
	}

	assert.True(t, m.Has("2024-03-05"))
	assert.False(t, m.Has("2024-03-06"))
	assert.False(t, m.Get("2024-03-06")[FieldPresent])
}

func TestMonthlyCount(t *testing.T) {
	tests := []struct {
		name      string
		days      DayMap
		yearMonth string
		field     string
		want      int
	}{
		{
			name: "counts only true values",
			days: DayMap{
				"2024-03-05": {FieldPresent: true},
				"2024-03-10": {FieldPresent: false},
			},
			yearMonth: "2024-03",
			field:     FieldPresent,
			want:      1,
		},
		{
			name: "ignores other months",
			days: DayMap{
				"2024-03-05": {FieldPresent: true},
				"2024-04-05": {FieldPresent: true},
			},
			yearMonth: "2024-03",
			field:     FieldPresent,
			want:      1,
		},
		{
			name: "fields counted independently",
			days: DayMap{
				"2024-03-05": {FieldPresent: true, FieldMassPresent: false},
				"2024-03-12": {FieldPresent: true, FieldMassPresent: true},
			},
			yearMonth: "2024-03",
			field:     FieldMassPresent,
			want:      1,
		},
		{
			name:      "empty map",
			days:      DayMap{},
			yearMonth: "2024-03",
			field:     FieldPresent,
			want:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.days.MonthlyCount(tt.yearMonth, tt.field))
		})
	}
}

func TestDayMapScanRoundTrip(t *testing.T) {
	var m DayMap
	err := m.Scan([]byte(`{"2024-03-05":{"present":true,"massPresent":false}}`))
	assert.NoError(t, err)
	assert.True(t, m["2024-03-05"][FieldPresent])
	assert.False(t, m["2024-03-05"][FieldMassPresent])
	assert.True(t, m.Has("2024-03-05"))
}

func TestDayMapValueNil(t *testing.T) {
	var m DayMap
	v, err := m.Value()
	assert.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestMonthMapSetIsPure(t *testing.T) {
	m := MonthMap{"2024-02": true}

	next := m.Set("2024-03", true)
	assert.True(t, next["2024-03"])
	assert.True(t, next["2024-02"])
	assert.False(t, m["2024-03"])

	reset := next.Set("2024-03", false)
	assert.False(t, reset["2024-03"])
	assert.True(t, next["2024-03"])
}
