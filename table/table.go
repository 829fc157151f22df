// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table holds the keyed tabular representation of Börsdata API
// responses and the routines that build it from raw JSON.
package table

import (
	"slices"

	"github.com/rs/zerolog/log"
)

// Table is an ordered set of rows with named columns. When indexed, the index
// columns lead Columns and the rows are sorted on them.
type Table struct {
	Columns []string
	Rows    [][]any

	index      []string
	descending bool
}

// New returns an empty table with the given columns
func New(columns ...string) *Table {
	return &Table{
		Columns: slices.Clone(columns),
		Rows:    make([][]any, 0),
	}
}

// Append adds a row; missing trailing values are nil
func (t *Table) Append(values ...any) {
	row := make([]any, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column or -1
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// HasColumns reports whether every name is a column of the table
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			return false
		}
	}
	return true
}

// Column returns a copy of the values stored in the named column, or nil if
// the column does not exist
func (t *Table) Column(name string) []any {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}

	values := make([]any, len(t.Rows))
	for ii, row := range t.Rows {
		values[ii] = row[idx]
	}
	return values
}

// Value returns the cell at row, column name
func (t *Table) Value(row int, name string) any {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][idx]
}

// Row returns row i as a map keyed by column name
func (t *Table) Row(i int) map[string]any {
	res := make(map[string]any, len(t.Columns))
	for ii, col := range t.Columns {
		res[col] = t.Rows[i][ii]
	}
	return res
}

// Index returns the names of the key columns; nil when the table is unindexed
func (t *Table) Index() []string {
	return slices.Clone(t.index)
}

func (t *Table) Indexed() bool {
	return len(t.index) > 0
}

// Descending reports the sort order of an indexed table
func (t *Table) Descending() bool {
	return t.descending
}

// SetIndex makes fields the key of the table and sorts the rows on them. If
// any field is not a column the table is left untouched and false is returned.
func (t *Table) SetIndex(descending bool, fields ...string) bool {
	if len(fields) == 0 || !t.HasColumns(fields...) {
		log.Debug().Strs("Index", fields).Strs("Columns", t.Columns).Msg("index fields missing; leaving table unindexed")
		return false
	}

	// move index columns to the front
	order := make([]int, 0, len(t.Columns))
	for _, field := range fields {
		order = append(order, t.ColumnIndex(field))
	}
	for ii, col := range t.Columns {
		if !slices.Contains(fields, col) {
			order = append(order, ii)
		}
	}
	t.reorder(order)

	keyCount := len(fields)
	slices.SortStableFunc(t.Rows, func(a, b []any) int {
		return compareKeys(a[:keyCount], b[:keyCount], descending)
	})

	t.index = slices.Clone(fields)
	t.descending = descending
	return true
}

func (t *Table) reorder(order []int) {
	columns := make([]string, len(order))
	for ii, src := range order {
		columns[ii] = t.Columns[src]
	}
	t.Columns = columns

	for rr, row := range t.Rows {
		newRow := make([]any, len(order))
		for ii, src := range order {
			newRow[ii] = row[src]
		}
		t.Rows[rr] = newRow
	}
}

// Rename substitutes column names found in mapping. Columns not present in
// mapping keep their name; the index follows the rename.
func (t *Table) Rename(mapping map[string]string) {
	t.RenameFunc(func(name string) string {
		if newName, ok := mapping[name]; ok {
			return newName
		}
		return name
	})
}

// RenameFunc rewrites every column name with fn
func (t *Table) RenameFunc(fn func(string) string) {
	for ii, col := range t.Columns {
		t.Columns[ii] = fn(col)
	}
	for ii, col := range t.index {
		t.index[ii] = fn(col)
	}
}

// MapColumn replaces every value of the named column with fn(value). Missing
// columns are ignored.
func (t *Table) MapColumn(name string, fn func(any) any) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		row[idx] = fn(row[idx])
	}
}

// Lookup returns the first row whose index values equal key
func (t *Table) Lookup(key ...any) (map[string]any, bool) {
	if !t.Indexed() || len(key) != len(t.index) {
		return nil, false
	}

	for ii, row := range t.Rows {
		if compareKeys(row[:len(key)], key, false) == 0 {
			return t.Row(ii), true
		}
	}
	return nil, false
}
