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
package table_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/borsdata/table"
)

var _ = Describe("Pivot", func() {
	var screener *table.Table

	BeforeEach(func() {
		screener = table.New("insId", "kpiId", "valueNum")
		screener.Append(float64(1), float64(2), 10.0)
		screener.Append(float64(1), float64(3), 20.0)
		screener.Append(float64(2), float64(2), 30.0)
	})

	It("produces one row per index value and one column per kpi", func() {
		pivoted, err := screener.Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueNum"})
		Expect(err).NotTo(HaveOccurred())

		Expect(pivoted.Columns).To(Equal([]string{"insId", "2", "3"}))
		Expect(pivoted.Len()).To(Equal(2))
		Expect(pivoted.Row(0)).To(Equal(map[string]any{"insId": float64(1), "2": 10.0, "3": 20.0}))
		Expect(pivoted.Row(1)).To(Equal(map[string]any{"insId": float64(2), "2": 30.0, "3": nil}))
	})

	It("averages duplicate cells", func() {
		screener.Append(float64(2), float64(2), 50.0)

		pivoted, err := screener.Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueNum"})
		Expect(err).NotTo(HaveOccurred())
		Expect(pivoted.Value(1, "2")).To(Equal(40.0))
	})

	It("skips null values", func() {
		screener.Append(float64(3), float64(3), nil)

		pivoted, err := screener.Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueNum"})
		Expect(err).NotTo(HaveOccurred())
		Expect(pivoted.Len()).To(Equal(2))
	})

	It("orders the value columns numerically", func() {
		screener.Append(float64(1), float64(10), 5.0)

		pivoted, err := screener.Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueNum"})
		Expect(err).NotTo(HaveOccurred())
		Expect(pivoted.Columns).To(Equal([]string{"insId", "2", "3", "10"}))
	})

	It("fails on a missing field", func() {
		_, err := screener.Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueStr"})
		Expect(errors.Is(err, table.ErrMissingKey)).To(BeTrue())
	})

	It("fails on non-numeric values", func() {
		screener.Append(float64(4), float64(2), "high")

		_, err := screener.Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueNum"})
		Expect(errors.Is(err, table.ErrUnexpectedShape)).To(BeTrue())
	})

	It("returns an empty table with only index columns when there is no data", func() {
		pivoted, err := table.New().Pivot(table.Pivot{Index: []string{"insId"}, Columns: "kpiId", Values: "valueNum"})
		Expect(err).NotTo(HaveOccurred())
		Expect(pivoted.Columns).To(Equal([]string{"insId"}))
		Expect(pivoted.Len()).To(Equal(0))
	})

	It("runs as part of Normalize", func() {
		body := []byte(`{"kpiHistoryArrayList": [
			{"instrument": 5, "values": [{"y": 2020, "p": 5, "v": 1.5}, {"y": 2021, "p": 5, "v": 2.5}]},
			{"instrument": 3, "values": [{"y": 2020, "p": 5, "v": 4.0}]}
		]}`)
		tbl, err := table.Normalize(body, table.Schema{
			Path:       "kpiHistoryArrayList",
			RecordPath: "values",
			Meta:       []string{"instrument"},
			Rename:     map[string]string{"y": "year", "p": "period", "v": "kpiValue", "instrument": "insId"},
			Pivot:      &table.Pivot{Index: []string{"year", "period"}, Columns: "insId", Values: "kpiValue"},
			Index:      []string{"year", "period"},
			Descending: true,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(tbl.Columns).To(Equal([]string{"year", "period", "3", "5"}))
		Expect(tbl.Row(0)).To(Equal(map[string]any{"year": float64(2021), "period": float64(5), "3": nil, "5": 2.5}))

		row, ok := tbl.Lookup(float64(2020), float64(5))
		Expect(ok).To(BeTrue())
		Expect(row).To(HaveKeyWithValue("3", 4.0))
	})
})
