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
package borsdata

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer serializes calls and keeps at least one interval between the
// completion of a call and the start of the next one.
type Pacer struct {
	mu      sync.Mutex
	limit   rate.Limit
	limiter *rate.Limiter
	last    time.Time
}

// NewPacer returns a pacer allowing callsPerSecond calls each second. A
// non-positive rate disables pacing but calls are still serialized.
func NewPacer(callsPerSecond float64) *Pacer {
	limit := rate.Inf
	if callsPerSecond > 0 {
		limit = rate.Limit(callsPerSecond)
	}

	return &Pacer{
		limit: limit,
	}
}

// Interval is the minimum time between a completed call and the next one.
func (p *Pacer) Interval() time.Duration {
	if p.limit == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(p.limit))
}

// Do waits for the pacing interval and then runs fn. The completion time is
// recorded whether or not fn fails. If ctx is done before the wait finishes
// fn is not run and the context error is returned.
func (p *Pacer) Do(ctx context.Context, fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	err := fn()
	p.record(time.Now())

	return err
}

// LastCall returns the completion time of the most recent call, or the zero
// time if no call has been made.
func (p *Pacer) LastCall() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Pacer) record(done time.Time) {
	if done.Before(p.last) {
		done = p.last
	}
	p.last = done

	if p.limit == rate.Inf {
		return
	}

	// a burst of one anchored at completion: the single token is consumed
	// now and the next one is available a full interval later
	p.limiter = rate.NewLimiter(p.limit, 1)
	p.limiter.AllowN(done, 1)
}
