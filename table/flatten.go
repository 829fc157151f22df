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

	"github.com/tidwall/gjson"
)

// builder collects flattened records while tracking the order in which
// columns first appear
type builder struct {
	columns []string
	seen    map[string]int
	rows    []map[string]any
}

func newBuilder() *builder {
	return &builder{
		columns: make([]string, 0),
		seen:    make(map[string]int),
		rows:    make([]map[string]any, 0),
	}
}

func (b *builder) add(rec gjson.Result, metaFields []string, meta map[string]any) error {
	if !rec.IsObject() {
		return fmt.Errorf("%w: record is not an object: %s", ErrUnexpectedShape, rec.Raw)
	}

	row := make(map[string]any)
	b.flatten("", rec, row)

	// meta columns follow the record columns
	for _, field := range metaFields {
		b.column(field)
		row[field] = meta[field]
	}

	b.rows = append(b.rows, row)
	return nil
}

func (b *builder) flatten(prefix string, obj gjson.Result, row map[string]any) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := prefix + key.String()
		if value.IsObject() {
			b.flatten(name+".", value, row)
			return true
		}

		b.column(name)
		row[name] = value.Value()
		return true
	})
}

func (b *builder) column(name string) {
	if _, ok := b.seen[name]; ok {
		return
	}
	b.seen[name] = len(b.columns)
	b.columns = append(b.columns, name)
}

func (b *builder) table() *Table {
	tbl := New(b.columns...)
	for _, rec := range b.rows {
		row := make([]any, len(b.columns))
		for name, val := range rec {
			row[b.seen[name]] = val
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}
