// Package models defines the client-side data types for the dashboard
// screens: query state, list results, attachments and typed errors.
package models

import (
	"sort"
	"strings"
)

// FilterValueAll is the special filter value used by type-toggle UIs.
// Setting it clears the key's whole selection instead of adding a literal
// "all" member.
const FilterValueAll = "all"

// Filters is a multi-value filter selection: for each key, a set of selected
// values. Insertion order is irrelevant; uniqueness is enforced per (key,
// value) pair.
type Filters map[string]map[string]struct{}

// Toggle flips membership of the (key, value) pair. Empty keys vanish so a
// fully untoggled key compares equal to a never-touched one.
func (f Filters) Toggle(key, value string) {
	if value == FilterValueAll {
		delete(f, key)
		return
	}
	set, ok := f[key]
	if !ok {
		f[key] = map[string]struct{}{value: {}}
		return
	}
	if _, ok := set[value]; ok {
		delete(set, value)
		if len(set) == 0 {
			delete(f, key)
		}
		return
	}
	set[value] = struct{}{}
}

// Set replaces the key's selection with the single value. FilterValueAll
// clears the key.
func (f Filters) Set(key, value string) {
	if value == FilterValueAll {
		delete(f, key)
		return
	}
	f[key] = map[string]struct{}{value: {}}
}

// Values returns the key's selected values sorted alphabetically.
func (f Filters) Values(key string) []string {
	set := f[key]
	if len(set) == 0 {
		return nil
	}
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

// Keys returns the filter keys sorted alphabetically.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the (key, value) pair is currently selected.
func (f Filters) Has(key, value string) bool {
	_, ok := f[key][value]
	return ok
}

// Clone returns an independent deep copy.
func (f Filters) Clone() Filters {
	c := make(Filters, len(f))
	for k, set := range f {
		cs := make(map[string]struct{}, len(set))
		for v := range set {
			cs[v] = struct{}{}
		}
		c[k] = cs
	}
	return c
}

// QueryState is the effective query of one list screen. It is owned
// exclusively by a single QueryController instance and never shared.
type QueryState struct {
	// RawSearchText echoes every keystroke; CommittedSearchText only moves
	// after the debounce window settles and is the value requests are built
	// from.
	RawSearchText       string
	CommittedSearchText string

	Filters Filters

	Page     int
	PageSize int
}

// NewQueryState returns a state positioned on the first page.
func NewQueryState(pageSize int) QueryState {
	return QueryState{Filters: make(Filters), Page: 1, PageSize: pageSize}
}

// ListQuery is the flattened wire form of a QueryState: search string,
// comma-joined filter values per key, numeric pagination. In "all" mode
// (PageSize equals the reserved sentinel) Page is zero and omitted from the
// request.
type ListQuery struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int
}

// ListQuery flattens the state's committed fields for the transport. Raw
// (not yet settled) search text never reaches the wire.
func (s QueryState) ListQuery(pageSizeAll int) ListQuery {
	q := ListQuery{
		Search:   s.CommittedSearchText,
		Filters:  make(map[string]string, len(s.Filters)),
		Page:     s.Page,
		PageSize: s.PageSize,
	}
	for _, k := range s.Filters.Keys() {
		q.Filters[k] = strings.Join(s.Filters.Values(k), ",")
	}
	if s.PageSize == pageSizeAll {
		q.Page = 0
	}
	return q
}
