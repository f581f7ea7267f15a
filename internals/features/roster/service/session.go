// file: internals/features/roster/service/session.go
package service

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	helper "el3adra_backend/internals/helpers"
)

/* =========================================================
   Roster session cache
   =========================================================

   Each page works against a per-stage snapshot fetched once per
   session: user edits mutate the snapshot immediately (optimistic)
   while store writes run behind the coalescer. The snapshot is the
   assumed source of truth until the next full fetch — there is no
   reconciliation read-back. Single operator assumed.
*/

type RosterCache[T any] struct {
	mu     sync.RWMutex
	rows   map[string][]T
	loaded map[string]bool
}

func NewRosterCache[T any]() *RosterCache[T] {
	return &RosterCache[T]{
		rows:   make(map[string][]T),
		loaded: make(map[string]bool),
	}
}

// Get returns the stage snapshot, fetching through load only on the
// first call for that stage.
func (c *RosterCache[T]) Get(stage string, load func() ([]T, error)) ([]T, error) {
	c.mu.RLock()
	if c.loaded[stage] {
		snapshot := append([]T(nil), c.rows[stage]...)
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	rows, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded[stage] {
		c.rows[stage] = rows
		c.loaded[stage] = true
	}
	return append([]T(nil), c.rows[stage]...), nil
}

// Mutate applies an optimistic local update to the stage snapshot.
// fn receives the current rows and returns the replacement slice. A
// stage that was never fetched has no snapshot to mutate; Mutate is a
// no-op then, so it can never install an empty snapshot as "loaded".
func (c *RosterCache[T]) Mutate(stage string, fn func(rows []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded[stage] {
		return
	}
	c.rows[stage] = fn(c.rows[stage])
}

// Invalidate drops the snapshot so the next Get refetches.
func (c *RosterCache[T]) Invalidate(stage string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, stage)
	delete(c.loaded, stage)
}

/* =========================================================
   View helpers: search, sort, paginate
   ========================================================= */

// FilterByName keeps rows whose name contains search,
// case-insensitively. Empty search keeps everything.
func FilterByName[T any](rows []T, search string, name func(T) string) []T {
	if strings.TrimSpace(search) == "" {
		return rows
	}
	needle := strings.ToLower(search)
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(name(r)), needle) {
			out = append(out, r)
		}
	}
	return out
}

// SortByName sorts rows in place by Arabic collation, the same order
// localeCompare(name, "ar") produces in the pages.
func SortByName[T any](rows []T, name func(T) string) {
	// collate.Collator is not safe for concurrent use; one per call.
	cl := collate.New(language.Arabic)
	sort.SliceStable(rows, func(i, j int) bool {
		return cl.CompareString(name(rows[i]), name(rows[j])) < 0
	})
}

// Paginate slices rows into the fixed 10-per-page window.
func Paginate[T any](rows []T, page, perPage int) ([]T, helper.Pagination) {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	p := helper.BuildPaginationFromPage(int64(len(rows)), page, perPage)
	start := (page - 1) * perPage
	if start >= len(rows) {
		p.Count = 0
		return []T{}, p
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	window := rows[start:end]
	p.Count = len(window)
	return window, p
}
