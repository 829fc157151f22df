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
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/borsdata/borsdata"
)

var _ = Describe("Pacer", func() {
	var (
		pacer *borsdata.Pacer
		ctx   context.Context
	)

	BeforeEach(func() {
		pacer = borsdata.NewPacer(20)
		ctx = context.Background()
	})

	It("derives the interval from the rate", func() {
		Expect(pacer.Interval()).To(Equal(50 * time.Millisecond))
		Expect(borsdata.NewPacer(0).Interval()).To(Equal(time.Duration(0)))
	})

	It("does not wait before the first call", func() {
		start := time.Now()
		Expect(pacer.Do(ctx, func() error { return nil })).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically("<", pacer.Interval()))
	})

	It("spaces back-to-back calls by at least the interval", func() {
		starts := make([]time.Time, 0, 5)
		for ii := 0; ii < 5; ii++ {
			err := pacer.Do(ctx, func() error {
				starts = append(starts, time.Now())
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
		}

		for ii := 1; ii < len(starts); ii++ {
			// allow for float rounding inside the limiter
			Expect(starts[ii].Sub(starts[ii-1])).To(BeNumerically(">=", pacer.Interval()-time.Millisecond))
		}
	})

	It("measures the interval from completion of the previous call", func() {
		var done time.Time
		Expect(pacer.Do(ctx, func() error {
			time.Sleep(30 * time.Millisecond)
			done = time.Now()
			return nil
		})).To(Succeed())

		var next time.Time
		Expect(pacer.Do(ctx, func() error {
			next = time.Now()
			return nil
		})).To(Succeed())

		Expect(next.Sub(done)).To(BeNumerically(">=", pacer.Interval()-time.Millisecond))
	})

	It("records failed calls and keeps the timestamp non-decreasing", func() {
		Expect(pacer.LastCall().IsZero()).To(BeTrue())

		boom := errors.New("boom")
		Expect(pacer.Do(ctx, func() error { return boom })).To(MatchError(boom))
		first := pacer.LastCall()
		Expect(first.IsZero()).To(BeFalse())

		Expect(pacer.Do(ctx, func() error { return nil })).To(Succeed())
		Expect(pacer.LastCall()).To(BeTemporally(">=", first))
	})

	It("stops waiting when the context is cancelled", func() {
		Expect(pacer.Do(ctx, func() error { return nil })).To(Succeed())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		ran := false
		err := pacer.Do(cancelled, func() error {
			ran = true
			return nil
		})
		Expect(err).To(HaveOccurred())
		Expect(ran).To(BeFalse())
	})

	It("does not pace when the rate is unlimited", func() {
		unlimited := borsdata.NewPacer(0)
		start := time.Now()
		for ii := 0; ii < 10; ii++ {
			Expect(unlimited.Do(ctx, func() error { return nil })).To(Succeed())
		}
		Expect(time.Since(start)).To(BeNumerically("<", 50*time.Millisecond))
	})
})
