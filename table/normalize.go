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
	"errors"
	"fmt"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var (
	ErrMissingKey      = errors.New("expected key missing from response")
	ErrUnexpectedShape = errors.New("unexpected JSON shape")
	ErrDateParse       = errors.New("could not parse date")
)

// Schema describes how a response body becomes a table
type Schema struct {
	// Path is the gjson path of the records; an array yields one record per
	// element, an object a single record and null an empty table.
	Path string

	// RecordPath, when set, names the array inside each element of Path that
	// holds the rows. Meta fields of the element are copied onto every row.
	RecordPath string
	Meta       []string

	Rename     map[string]string
	RenameFunc func(string) string

	Dates []string

	Pivot *Pivot

	// Prepare runs after renaming, date coercion and pivoting but before the
	// index is set.
	Prepare func(*Table) error

	Index      []string
	Descending bool
}

// Normalize flattens body into a table as described by schema
func Normalize(body []byte, schema Schema) (*Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrUnexpectedShape)
	}

	result := gjson.GetBytes(body, schema.Path)
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, schema.Path)
	}

	tbl, err := extract(result, schema)
	if err != nil {
		return nil, err
	}

	if schema.Rename != nil {
		tbl.Rename(schema.Rename)
	}

	if schema.RenameFunc != nil {
		tbl.RenameFunc(schema.RenameFunc)
	}

	if err := tbl.ParseDates(schema.Dates...); err != nil {
		return nil, err
	}

	if schema.Pivot != nil {
		tbl, err = tbl.Pivot(*schema.Pivot)
		if err != nil {
			return nil, err
		}
	}

	if schema.Prepare != nil {
		if err := schema.Prepare(tbl); err != nil {
			return nil, err
		}
	}

	if len(schema.Index) > 0 {
		tbl.SetIndex(schema.Descending, schema.Index...)
	}

	return tbl, nil
}

// ParseDates converts each named column from its string form into time.Time.
// Columns that are not present are skipped and nil cells stay nil.
func (t *Table) ParseDates(fields ...string) error {
	for _, field := range fields {
		idx := t.ColumnIndex(field)
		if idx < 0 {
			continue
		}

		for rr, row := range t.Rows {
			if row[idx] == nil {
				continue
			}

			parsed, err := cast.ToTimeE(row[idx])
			if err != nil {
				return fmt.Errorf("%w: column %s row %d: %w", ErrDateParse, field, rr, err)
			}
			row[idx] = parsed.UTC()
		}
	}

	return nil
}

func extract(result gjson.Result, schema Schema) (*Table, error) {
	builder := newBuilder()

	switch {
	case result.Type == gjson.Null:
		// no data
	case schema.RecordPath != "":
		if !result.IsArray() {
			return nil, fmt.Errorf("%w: %s is not an array", ErrUnexpectedShape, schema.Path)
		}

		for _, elem := range result.Array() {
			records := elem.Get(schema.RecordPath)
			if !records.Exists() {
				return nil, fmt.Errorf("%w: %s.%s", ErrMissingKey, schema.Path, schema.RecordPath)
			}

			meta := make(map[string]any, len(schema.Meta))
			for _, field := range schema.Meta {
				val := elem.Get(field)
				if !val.Exists() {
					return nil, fmt.Errorf("%w: %s.%s", ErrMissingKey, schema.Path, field)
				}
				meta[field] = val.Value()
			}

			if records.Type == gjson.Null {
				continue
			}
			if !records.IsArray() {
				return nil, fmt.Errorf("%w: %s.%s is not an array", ErrUnexpectedShape, schema.Path, schema.RecordPath)
			}

			for _, rec := range records.Array() {
				if err := builder.add(rec, schema.Meta, meta); err != nil {
					return nil, err
				}
			}
		}
	case result.IsArray():
		for _, rec := range result.Array() {
			if err := builder.add(rec, nil, nil); err != nil {
				return nil, err
			}
		}
	case result.IsObject():
		if err := builder.add(result, nil, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s is neither an array nor an object", ErrUnexpectedShape, schema.Path)
	}

	return builder.table(), nil
}
