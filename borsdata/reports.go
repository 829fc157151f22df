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

	"github.com/penny-vault/borsdata/table"
)

// ReportSet holds the three report tables returned for an instrument.
type ReportSet struct {
	Quarter *table.Table
	Year    *table.Table
	R12     *table.Table
}

// Get returns the table for the given report type.
func (s *ReportSet) Get(report ReportType) *table.Table {
	switch report {
	case ReportQuarter:
		return s.Quarter
	case ReportYear:
		return s.Year
	case ReportR12:
		return s.R12
	default:
		return nil
	}
}

// Report returns reports of one type for an instrument, newest first.
func (c *Client) Report(ctx context.Context, insID int, report ReportType, maxCount int) (*table.Table, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "report", map[string]any{
		"insId":      insID,
		"reportType": report,
	}, maxCountParam(maxCount))
}

// Reports returns quarter, year and R12 reports for an instrument from a
// single request. Zero counts use the client defaults.
func (c *Client) Reports(ctx context.Context, insID int, maxYearCount, maxR12QCount int) (*ReportSet, error) {
	params := Params{}
	if maxYearCount > 0 {
		params["maxYearCount"] = maxYearCount
	}
	if maxR12QCount > 0 {
		params["maxR12QCount"] = maxR12QCount
	}

	tables, err := c.fetchSections(ctx, "reports", map[string]any{"insId": insID}, params)
	if err != nil {
		return nil, err
	}

	return &ReportSet{
		Quarter: tables[0],
		Year:    tables[1],
		R12:     tables[2],
	}, nil
}

// ReportsList returns reports of one type for several instruments.
func (c *Client) ReportsList(ctx context.Context, insIDs []int, report ReportType, maxCount int) (*table.Table, error) {
	if len(insIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one instrument id is required", ErrInvalidArgument)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	return c.FetchTable(ctx, "reports-list", map[string]any{
		"reportType": report,
	}, Params{"instList": insIDs}.With(maxCountParam(maxCount)))
}

func (c *Client) ReportsMetadata(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "reports-metadata", nil, nil)
}
