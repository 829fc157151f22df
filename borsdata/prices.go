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
	"fmt"
	"time"

	"github.com/penny-vault/borsdata/table"
)

// StockPriceOptions restricts a price request. Zero values are not sent.
type StockPriceOptions struct {
	From     time.Time
	To       time.Time
	MaxCount int
}

func (o StockPriceOptions) params() Params {
	params := Params{}
	if !o.From.IsZero() {
		params["from"] = o.From
	}
	if !o.To.IsZero() {
		params["to"] = o.To
	}
	if o.MaxCount > 0 {
		params["maxCount"] = o.MaxCount
	}
	return params
}

// StockPrices returns end of day prices for an instrument, newest first.
func (c *Client) StockPrices(ctx context.Context, insID int, opts StockPriceOptions) (*table.Table, error) {
	if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
		return nil, fmt.Errorf("%w: to %s is before from %s", ErrInvalidArgument, opts.To.Format(time.DateOnly), opts.From.Format(time.DateOnly))
	}

	return c.FetchTable(ctx, "stock-prices", map[string]any{"insId": insID}, opts.params())
}

// StockPricesList returns prices for several instruments keyed by insId and
// date.
func (c *Client) StockPricesList(ctx context.Context, insIDs []int, opts StockPriceOptions) (*table.Table, error) {
	if len(insIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one instrument id is required", ErrInvalidArgument)
	}
	if !opts.From.IsZero() && !opts.To.IsZero() && opts.To.Before(opts.From) {
		return nil, fmt.Errorf("%w: to %s is before from %s", ErrInvalidArgument, opts.To.Format(time.DateOnly), opts.From.Format(time.DateOnly))
	}

	return c.FetchTable(ctx, "stock-prices-list", nil, opts.params().With(Params{"instList": insIDs}))
}

func (c *Client) StockPricesLast(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "stock-prices-last", nil, nil)
}

// StockPricesDate returns the price of every instrument on date.
func (c *Client) StockPricesDate(ctx context.Context, date time.Time) (*table.Table, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}
	return c.FetchTable(ctx, "stock-prices-date", nil, Params{"date": date})
}

func (c *Client) StockSplits(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "stock-splits", nil, nil)
}
