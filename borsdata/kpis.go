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

	"github.com/spf13/cast"

	"github.com/penny-vault/borsdata/table"
)

// KpiHistory returns one KPI for one instrument indexed by year and period,
// newest first. maxCount of zero uses the client default.
func (c *Client) KpiHistory(ctx context.Context, insID, kpiID int, report ReportType, price PriceType, maxCount int) (*table.Table, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "kpi-history", map[string]any{
		"insId":      insID,
		"kpiId":      kpiID,
		"reportType": report,
		"priceType":  price,
	}, maxCountParam(maxCount))
}

// KpiHistoryList is KpiHistory for several instruments in one request.
func (c *Client) KpiHistoryList(ctx context.Context, insIDs []int, kpiID int, report ReportType, price PriceType, maxCount int) (*table.Table, error) {
	if len(insIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one instrument id is required", ErrInvalidArgument)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "kpi-history-list", map[string]any{
		"kpiId":      kpiID,
		"reportType": report,
		"priceType":  price,
	}, Params{"instList": insIDs}.With(maxCountParam(maxCount)))
}

// KpiSummary returns every KPI of an instrument with one row per year and
// period and one column per KPI id.
func (c *Client) KpiSummary(ctx context.Context, insID int, report ReportType, maxCount int) (*table.Table, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "kpi-summary", map[string]any{
		"insId":      insID,
		"reportType": report,
	}, maxCountParam(maxCount))
}

func (c *Client) KpiScreener(ctx context.Context, insID, kpiID int, group CalcGroup, calc Calc) (*table.Table, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := calc.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "kpi-screener", map[string]any{
		"insId":     insID,
		"kpiId":     kpiID,
		"calcGroup": group,
		"calc":      calc,
	}, nil)
}

func (c *Client) KpiScreenerAll(ctx context.Context, kpiID int, group CalcGroup, calc Calc) (*table.Table, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := calc.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "kpi-screener-all", map[string]any{
		"kpiId":     kpiID,
		"calcGroup": group,
		"calc":      calc,
	}, nil)
}

func (c *Client) KpiMetadata(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "kpi-metadata", nil, nil)
}

type kpisUpdatedResponse struct {
	KpisCalcUpdated *string `json:"kpisCalcUpdated"`
}

// KpisUpdated returns when the KPIs were last calculated, in UTC.
func (c *Client) KpisUpdated(ctx context.Context) (time.Time, error) {
	res, err := lookupResource("kpis-updated")
	if err != nil {
		return time.Time{}, err
	}

	resp, err := c.Fetch(ctx, res.Path, nil)
	if err != nil {
		return time.Time{}, err
	}
	if err := resp.Err(); err != nil {
		return time.Time{}, err
	}

	var body kpisUpdatedResponse
	if err := resp.Decode(&body); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", table.ErrUnexpectedShape, err)
	}

	if body.KpisCalcUpdated == nil {
		return time.Time{}, fmt.Errorf("%w: kpisCalcUpdated", table.ErrMissingKey)
	}

	updated, err := cast.ToTimeE(*body.KpisCalcUpdated)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: kpisCalcUpdated: %w", table.ErrDateParse, err)
	}

	return updated.UTC(), nil
}
