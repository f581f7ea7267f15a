// file: internals/features/roster/service/session_test.go
package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"el3adra_backend/internals/features/roster/model"
)

type testRow struct {
	Name string
	Days model.DayMap
}

func TestRosterCacheLoadsOncePerStage(t *testing.T) {
	cache := NewRosterCache[testRow]()
	calls := 0
	load := func() ([]testRow, error) {
		calls++
		return []testRow{{Name: "مينا"}}, nil
	}

	first, err := cache.Get("grade1", load)
	require.NoError(t, err)
	second, err := cache.Get("grade1", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second read must come from the snapshot")
	assert.Equal(t, first, second)

	_, err = cache.Get("grade2", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "stages cache independently")
}

func TestRosterCacheLoadErrorIsNotCached(t *testing.T) {
	cache := NewRosterCache[testRow]()
	failing := func() ([]testRow, error) { return nil, errors.New("store down") }

	_, err := cache.Get("grade1", failing)
	assert.Error(t, err)

	rows, err := cache.Get("grade1", func() ([]testRow, error) {
		return []testRow{{Name: "مريم"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRosterCacheMutateBeforeFirstFetchDoesNotInstallSnapshot(t *testing.T) {
	cache := NewRosterCache[testRow]()

	// an edit can race in ahead of the first list for a stage (retried
	// request after restart); it must not mark an empty snapshot loaded
	cache.Mutate("grade1", func(rows []testRow) []testRow { return rows })

	calls := 0
	rows, err := cache.Get("grade1", func() ([]testRow, error) {
		calls++
		return []testRow{{Name: "مينا"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "first Get must still hit the store")
	assert.Len(t, rows, 1)
}

func TestRosterCacheMutateThenInvalidate(t *testing.T) {
	cache := NewRosterCache[testRow]()
	calls := 0
	load := func() ([]testRow, error) {
		calls++
		return []testRow{{Name: "مينا"}}, nil
	}

	_, err := cache.Get("grade1", load)
	require.NoError(t, err)

	cache.Mutate("grade1", func(rows []testRow) []testRow {
		return append(rows, testRow{Name: "مريم"})
	})
	rows, err := cache.Get("grade1", load)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, calls)

	cache.Invalidate("grade1")
	rows, err = cache.Get("grade1", load)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, calls)
}

func TestFilterByName(t *testing.T) {
	rows := []testRow{{Name: "مينا جرجس"}, {Name: "مريم سمير"}, {Name: "Mina"}}
	name := func(r testRow) string { return r.Name }

	assert.Len(t, FilterByName(rows, "", name), 3)
	assert.Len(t, FilterByName(rows, "  ", name), 3)
	assert.Len(t, FilterByName(rows, "مينا", name), 1)
	assert.Len(t, FilterByName(rows, "MINA", name), 1) // case-insensitive
	assert.Len(t, FilterByName(rows, "ريم", name), 1)  // substring
	assert.Len(t, FilterByName(rows, "يوسف", name), 0)
}

func TestSortByNameArabicOrder(t *testing.T) {
	rows := []testRow{{Name: "يوسف"}, {Name: "بيتر"}, {Name: "أمير"}}

	SortByName(rows, func(r testRow) string { return r.Name })

	assert.Equal(t, "أمير", rows[0].Name)
	assert.Equal(t, "بيتر", rows[1].Name)
	assert.Equal(t, "يوسف", rows[2].Name)
}

func TestPaginate(t *testing.T) {
	rows := make([]testRow, 23)

	window, p := Paginate(rows, 1, 10)
	assert.Len(t, window, 10)
	assert.Equal(t, int64(23), p.Total)
	assert.Equal(t, 3, p.TotalPages)

	window, _ = Paginate(rows, 3, 10)
	assert.Len(t, window, 3)

	window, p = Paginate(rows, 9, 10)
	assert.Len(t, window, 0)
	assert.Equal(t, 0, p.Count)

	// zero page falls back to the first
	window, _ = Paginate(rows, 0, 10)
	assert.Len(t, window, 10)
}

func TestFilterByDayStatus(t *testing.T) {
	date := "2024-03-05"
	rows := []testRow{
		{Name: "حاضر", Days: model.DayMap{date: {model.FieldPresent: true}}},
		{Name: "غايب", Days: model.DayMap{date: {model.FieldPresent: false}}},
		{Name: "مفيش", Days: model.DayMap{}},
	}
	days := func(r testRow) model.DayMap { return r.Days }

	all := FilterByDayStatus(rows, date, model.FieldPresent, StatusAll, days)
	assert.Len(t, all, 3)

	present := FilterByDayStatus(rows, date, model.FieldPresent, StatusPresent, days)
	require.Len(t, present, 1)
	assert.Equal(t, "حاضر", present[0].Name)

	absent := FilterByDayStatus(rows, date, model.FieldPresent, StatusAbsent, days)
	require.Len(t, absent, 1)
	assert.Equal(t, "غايب", absent[0].Name)

	none := FilterByDayStatus(rows, date, model.FieldPresent, StatusNone, days)
	require.Len(t, none, 1)
	assert.Equal(t, "مفيش", none[0].Name)
}

func TestFilterByDayStatusFieldMissingFromRecord(t *testing.T) {
	// a record that only carries the other field: neither present nor
	// absent for this one, but not "none" either
	date := "2024-03-05"
	rows := []testRow{
		{Name: "قداس بس", Days: model.DayMap{date: {model.FieldMassPresent: true}}},
	}
	days := func(r testRow) model.DayMap { return r.Days }

	assert.Len(t, FilterByDayStatus(rows, date, model.FieldPresent, StatusPresent, days), 0)
	assert.Len(t, FilterByDayStatus(rows, date, model.FieldPresent, StatusAbsent, days), 0)
	assert.Len(t, FilterByDayStatus(rows, date, model.FieldPresent, StatusNone, days), 0)
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"", StatusAll, StatusPresent, StatusAbsent, StatusNone} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("maybe"))
}
