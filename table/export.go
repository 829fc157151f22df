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
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes the table, header first, to w
func (t *Table) WriteCSV(w io.Writer) error {
	writer := gocsv.DefaultCSVWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for ii, val := range row {
			record[ii] = FormatValue(val)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Markdown renders up to maxRows rows as a markdown table; maxRows <= 0
// renders every row
func (t *Table) Markdown(maxRows int) string {
	builder := strings.Builder{}

	if len(t.Columns) == 0 {
		return "_empty table_\n"
	}

	header := make([]string, len(t.Columns))
	for ii, col := range t.Columns {
		if t.Indexed() && ii < len(t.index) {
			header[ii] = fmt.Sprintf("**%s**", escapeCell(col))
		} else {
			header[ii] = escapeCell(col)
		}
	}

	builder.WriteString("| " + strings.Join(header, " | ") + " |\n")
	builder.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")

	for rr, row := range t.Rows {
		if maxRows > 0 && rr >= maxRows {
			break
		}

		cells := make([]string, len(row))
		for ii, val := range row {
			cells[ii] = escapeCell(FormatValue(val))
		}
		builder.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return builder.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
