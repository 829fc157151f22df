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
package borsdata_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/borsdata/borsdata"
)

var _ = Describe("Params", func() {
	It("serializes scalars, lists and dates", func() {
		values, err := borsdata.Params{
			"maxCount": 10,
			"instList": []int{3, 7, 11},
			"from":     time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
			"calc":     borsdata.CalcMean,
			"names":    []string{"a", "b"},
			"ratio":    1.5,
			"skipped":  nil,
		}.Values()
		Expect(err).NotTo(HaveOccurred())

		Expect(values.Get("maxCount")).To(Equal("10"))
		Expect(values.Get("instList")).To(Equal("3,7,11"))
		Expect(values.Get("from")).To(Equal("2021-03-04"))
		Expect(values.Get("calc")).To(Equal("mean"))
		Expect(values.Get("names")).To(Equal("a,b"))
		Expect(values.Get("ratio")).To(Equal("1.5"))
		Expect(values.Has("skipped")).To(BeFalse())
	})

	It("dereferences pointers and omits nil pointers", func() {
		from := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
		count := 7

		values, err := borsdata.Params{
			"from":     &from,
			"to":       (*time.Time)(nil),
			"maxCount": &count,
			"calc":     (*borsdata.Calc)(nil),
		}.Values()
		Expect(err).NotTo(HaveOccurred())

		Expect(values.Get("from")).To(Equal("2021-03-04"))
		Expect(values.Has("to")).To(BeFalse())
		Expect(values.Get("maxCount")).To(Equal("7"))
		Expect(values.Has("calc")).To(BeFalse())
	})

	It("overlays parameters without modifying the original", func() {
		base := borsdata.Params{"maxCount": 20, "version": 1}
		merged := base.With(borsdata.Params{"maxCount": 5})

		Expect(merged["maxCount"]).To(Equal(5))
		Expect(merged["version"]).To(Equal(1))
		Expect(base["maxCount"]).To(Equal(20))
	})

	It("rejects values it cannot serialize", func() {
		_, err := borsdata.Params{"bad": struct{}{}}.Values()
		Expect(err).To(HaveOccurred())
	})
})
