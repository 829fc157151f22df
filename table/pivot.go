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
package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Pivot reshapes a long table into a wide one
type Pivot struct {
	Index   []string
	Columns string
	Values  string
}

type pivotCell struct {
	sum   float64
	count int
}

type pivotGroup struct {
	key   []any
	cells map[string]*pivotCell
}

// Pivot returns a new table with one row per distinct Index key and one
// column per distinct value of the Columns field. Duplicate cells are
// averaged; combinations that never occur stay nil.
func (t *Table) Pivot(p Pivot) (*Table, error) {
	if t.Len() == 0 {
		return New(p.Index...), nil
	}

	fields := append(slices.Clone(p.Index), p.Columns, p.Values)
	for _, field := range fields {
		if !t.HasColumns(field) {
			return nil, fmt.Errorf("%w: pivot field %s", ErrMissingKey, field)
		}
	}

	indexPos := make([]int, len(p.Index))
	for ii, field := range p.Index {
		indexPos[ii] = t.ColumnIndex(field)
	}
	colPos := t.ColumnIndex(p.Columns)
	valPos := t.ColumnIndex(p.Values)

	groups := make([]*pivotGroup, 0)
	groupMap := make(map[string]*pivotGroup)
	colValues := make([]any, 0)
	colNames := make(map[string]bool)

	for _, row := range t.Rows {
		if row[valPos] == nil || row[colPos] == nil {
			continue
		}

		val, err := cast.ToFloat64E(row[valPos])
		if err != nil {
			return nil, fmt.Errorf("%w: pivot value %v is not numeric", ErrUnexpectedShape, row[valPos])
		}

		colName := FormatValue(row[colPos])
		if !colNames[colName] {
			colNames[colName] = true
			colValues = append(colValues, row[colPos])
		}

		key := make([]any, len(indexPos))
		keyParts := make([]string, len(indexPos))
		for ii, pos := range indexPos {
			key[ii] = row[pos]
			keyParts[ii] = FormatValue(row[pos])
		}
		keyStr := strings.Join(keyParts, "\x00")

		group, ok := groupMap[keyStr]
		if !ok {
			group = &pivotGroup{key: key, cells: make(map[string]*pivotCell)}
			groupMap[keyStr] = group
			groups = append(groups, group)
		}

		cell, ok := group.cells[colName]
		if !ok {
			cell = &pivotCell{}
			group.cells[colName] = cell
		}
		cell.sum += val
		cell.count++
	}

	slices.SortStableFunc(colValues, func(a, b any) int {
		return compareValues(a, b)
	})

	columns := slices.Clone(p.Index)
	for _, colVal := range colValues {
		columns = append(columns, FormatValue(colVal))
	}

	res := New(columns...)
	for _, group := range groups {
		row := make([]any, len(columns))
		copy(row, group.key)
		for ii, colVal := range colValues {
			if cell, ok := group.cells[FormatValue(colVal)]; ok {
				row[len(p.Index)+ii] = cell.sum / float64(cell.count)
			}
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}
