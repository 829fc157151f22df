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
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/penny-vault/borsdata/table"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Resource describes one endpoint of the API and how its body becomes a
// table. Path may contain {name} placeholders filled in at call time.
type Resource struct {
	Key         string
	Name        string
	Description string
	Path        string
	Schema      table.Schema

	// Sections lists the keys of a response that embeds several tables
	// sharing one schema. Schema.Path is ignored when set.
	Sections []string
}

// Expand fills the path placeholders from vars.
func (r Resource) Expand(vars map[string]any) string {
	path := r.Path
	for name, val := range vars {
		path = strings.ReplaceAll(path, "{"+name+"}", cast.ToString(val))
	}
	return path
}

var (
	stockPriceFields = map[string]string{
		"d": "date",
		"c": "close",
		"h": "high",
		"l": "low",
		"o": "open",
		"v": "volume",
	}

	kpiHistoryFields = map[string]string{
		"y": "year",
		"p": "period",
		"v": "kpiValue",
	}

	screenerFields = map[string]string{
		"i": "insId",
		"n": "valueNum",
		"s": "valueStr",
	}

	reportDates = []string{"reportStartDate", "reportEndDate", "reportDate"}
)

func withFields(base map[string]string, extra map[string]string) map[string]string {
	res := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		res[k] = v
	}
	for k, v := range extra {
		res[k] = v
	}
	return res
}

func stripUnderscore(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

// Resources is the registry of every endpoint the client knows about.
var Resources = map[string]Resource{
	"branches": {
		Key:         "branches",
		Name:        "Branches",
		Description: "Industry branches instruments are classified into.",
		Path:        "branches",
		Schema:      table.Schema{Path: "branches", Index: []string{"id"}},
	},
	"countries": {
		Key:         "countries",
		Name:        "Countries",
		Description: "Countries instruments are listed in.",
		Path:        "countries",
		Schema:      table.Schema{Path: "countries", Index: []string{"id"}},
	},
	"markets": {
		Key:         "markets",
		Name:        "Markets",
		Description: "Exchanges and lists, e.g. Large Cap or First North.",
		Path:        "markets",
		Schema:      table.Schema{Path: "markets", Index: []string{"id"}},
	},
	"sectors": {
		Key:         "sectors",
		Name:        "Sectors",
		Description: "Sectors instruments are classified into.",
		Path:        "sectors",
		Schema:      table.Schema{Path: "sectors", Index: []string{"id"}},
	},
	"translation-metadata": {
		Key:         "translation-metadata",
		Name:        "Translation Metadata",
		Description: "Swedish and English names for branches, sectors and other terms.",
		Path:        "translationmetadata",
		Schema:      table.Schema{Path: "translationMetadatas", Index: []string{"translationKey"}},
	},
	"instruments": {
		Key:         "instruments",
		Name:        "Instruments",
		Description: "All Nordic instruments with their market, sector, branch and country ids.",
		Path:        "instruments",
		Schema: table.Schema{
			Path:  "instruments",
			Dates: []string{"listingDate"},
			Index: []string{"insId"},
		},
	},
	"instruments-updated": {
		Key:         "instruments-updated",
		Name:        "Updated Instruments",
		Description: "When each instrument's data was last updated.",
		Path:        "instruments/updated",
		Schema: table.Schema{
			Path:  "instruments",
			Dates: []string{"updatedAt"},
			Index: []string{"insId"},
		},
	},
	"kpi-history": {
		Key:         "kpi-history",
		Name:        "KPI History",
		Description: "History of one KPI for one instrument.",
		Path:        "instruments/{insId}/kpis/{kpiId}/{reportType}/{priceType}/history",
		Schema: table.Schema{
			Path:       "values",
			Rename:     kpiHistoryFields,
			Index:      []string{"year", "period"},
			Descending: true,
		},
	},
	"kpi-history-list": {
		Key:         "kpi-history-list",
		Name:        "KPI History List",
		Description: "History of one KPI for a list of instruments.",
		Path:        "instruments/kpis/{kpiId}/{reportType}/{priceType}/history",
		Schema: table.Schema{
			Path:       "kpiHistoryArrayList",
			RecordPath: "values",
			Meta:       []string{"instrument"},
			Rename:     withFields(kpiHistoryFields, map[string]string{"instrument": "insId"}),
			Index:      []string{"insId", "year", "period"},
			Descending: true,
		},
	},
	"kpi-summary": {
		Key:         "kpi-summary",
		Name:        "KPI Summary",
		Description: "Every KPI for one instrument, one column per KPI id.",
		Path:        "instruments/{insId}/kpis/{reportType}/summary",
		Schema: table.Schema{
			Path:       "kpis",
			RecordPath: "values",
			Meta:       []string{"KpiId"},
			Rename:     withFields(kpiHistoryFields, map[string]string{"KpiId": "kpiId"}),
			Pivot: &table.Pivot{
				Index:   []string{"year", "period"},
				Columns: "kpiId",
				Values:  "kpiValue",
			},
			Index:      []string{"year", "period"},
			Descending: true,
		},
	},
	"kpi-screener": {
		Key:         "kpi-screener",
		Name:        "KPI Screener",
		Description: "Screener value of one KPI for one instrument.",
		Path:        "instruments/{insId}/kpis/{kpiId}/{calcGroup}/{calc}",
		Schema: table.Schema{
			Path:   "value",
			Rename: screenerFields,
			Index:  []string{"insId"},
		},
	},
	"kpi-screener-all": {
		Key:         "kpi-screener-all",
		Name:        "KPI Screener (all instruments)",
		Description: "Screener value of one KPI for every instrument.",
		Path:        "instruments/kpis/{kpiId}/{calcGroup}/{calc}",
		Schema: table.Schema{
			Path:   "values",
			Rename: screenerFields,
			Index:  []string{"insId"},
		},
	},
	"kpi-metadata": {
		Key:         "kpi-metadata",
		Name:        "KPI Metadata",
		Description: "Names, formats and ids of every KPI.",
		Path:        "instruments/kpis/metadata",
		Schema:      table.Schema{Path: "kpiHistoryMetadatas", Index: []string{"kpiId"}},
	},
	"kpis-updated": {
		Key:         "kpis-updated",
		Name:        "KPIs Updated",
		Description: "Time of the latest KPI calculation.",
		Path:        "instruments/kpis/updated",
	},
	"report": {
		Key:         "report",
		Name:        "Report",
		Description: "Financial reports of one type for one instrument.",
		Path:        "instruments/{insId}/reports/{reportType}",
		Schema: table.Schema{
			Path:       "reports",
			RenameFunc: stripUnderscore,
			Dates:      reportDates,
			Index:      []string{"year", "period"},
			Descending: true,
		},
	},
	"reports": {
		Key:         "reports",
		Name:        "Reports",
		Description: "Quarter, year and R12 reports for one instrument.",
		Path:        "instruments/{insId}/reports",
		Sections:    []string{"reportsQuarter", "reportsYear", "reportsR12"},
		Schema: table.Schema{
			RenameFunc: stripUnderscore,
			Dates:      reportDates,
			Index:      []string{"year", "period"},
			Descending: true,
		},
	},
	"reports-list": {
		Key:         "reports-list",
		Name:        "Reports List",
		Description: "Financial reports of one type for a list of instruments.",
		Path:        "instruments/reports/{reportType}",
		Schema: table.Schema{
			Path:       "reportList",
			RecordPath: "reports",
			Meta:       []string{"instrument"},
			Rename:     map[string]string{"instrument": "insId"},
			RenameFunc: stripUnderscore,
			Dates:      reportDates,
			Index:      []string{"insId", "year", "period"},
			Descending: true,
		},
	},
	"reports-metadata": {
		Key:         "reports-metadata",
		Name:        "Reports Metadata",
		Description: "Names and formats of every report property.",
		Path:        "instruments/reports/metadata",
		Schema: table.Schema{
			Path: "reportMetadatas",
			// the API misspells the column
			Rename: map[string]string{"reportPropery": "reportProperty"},
			Prepare: func(t *table.Table) error {
				t.MapColumn("reportProperty", func(v any) any {
					if v == nil {
						return nil
					}
					return stripUnderscore(cast.ToString(v))
				})
				return nil
			},
			Index: []string{"reportProperty"},
		},
	},
	"stock-prices": {
		Key:         "stock-prices",
		Name:        "Stock Prices",
		Description: "End of day prices for one instrument.",
		Path:        "instruments/{insId}/stockprices",
		Schema: table.Schema{
			Path:       "stockPricesList",
			Rename:     stockPriceFields,
			Dates:      []string{"date"},
			Index:      []string{"date"},
			Descending: true,
		},
	},
	"stock-prices-list": {
		Key:         "stock-prices-list",
		Name:        "Stock Prices List",
		Description: "End of day prices for a list of instruments.",
		Path:        "instruments/stockprices",
		Schema: table.Schema{
			Path:       "stockPricesArrayList",
			RecordPath: "stockPricesList",
			Meta:       []string{"instrument"},
			Rename:     withFields(stockPriceFields, map[string]string{"instrument": "insId"}),
			Dates:      []string{"date"},
			Index:      []string{"insId", "date"},
			Descending: true,
		},
	},
	"stock-prices-last": {
		Key:         "stock-prices-last",
		Name:        "Last Stock Prices",
		Description: "The latest end of day price of every instrument.",
		Path:        "instruments/stockprices/last",
		Schema: table.Schema{
			Path:       "stockPricesList",
			Rename:     withFields(stockPriceFields, map[string]string{"i": "insId"}),
			Dates:      []string{"date"},
			Index:      []string{"date"},
			Descending: true,
		},
	},
	"stock-prices-date": {
		Key:         "stock-prices-date",
		Name:        "Stock Prices by Date",
		Description: "End of day price of every instrument on one date.",
		Path:        "instruments/stockprices/date",
		Schema: table.Schema{
			Path:   "stockPricesList",
			Rename: withFields(stockPriceFields, map[string]string{"i": "insId"}),
			Dates:  []string{"date"},
			Index:  []string{"insId"},
		},
	},
	"stock-splits": {
		Key:         "stock-splits",
		Name:        "Stock Splits",
		Description: "Stock splits of the last year.",
		Path:        "instruments/stocksplits",
		Schema: table.Schema{
			Path:   "stockSplitList",
			Rename: map[string]string{"instrumentId": "insId"},
			Dates:  []string{"splitDate"},
			Index:  []string{"insId"},
		},
	},
}

// ResourceKeys returns the registry keys in sorted order.
func ResourceKeys() []string {
	keys := make([]string, 0, len(Resources))
	for key := range Resources {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func lookupResource(key string) (Resource, error) {
	res, ok := Resources[key]
	if !ok {
		return Resource{}, fmt.Errorf("%w: %s", ErrUnknownResource, key)
	}
	return res, nil
}

// fetchBody fetches a resource and converts a non-200 response into an error.
func (c *Client) fetchBody(ctx context.Context, res Resource, vars map[string]any, params Params) ([]byte, error) {
	resp, err := c.Fetch(ctx, res.Expand(vars), params)
	if err != nil {
		return nil, err
	}

	if err := resp.Err(); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// FetchTable fetches the resource registered under key and normalizes it.
func (c *Client) FetchTable(ctx context.Context, key string, vars map[string]any, params Params) (*table.Table, error) {
	res, err := lookupResource(key)
	if err != nil {
		return nil, err
	}

	body, err := c.fetchBody(ctx, res, vars, params)
	if err != nil {
		return nil, err
	}

	tbl, err := table.Normalize(body, res.Schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	c.loggerFrom(ctx).Debug().Str("Resource", key).Int("NumRows", tbl.Len()).Bool("Indexed", tbl.Indexed()).Msg("normalized resource")
	return tbl, nil
}

// fetchSections fetches a resource whose body holds several tables, one
// per entry of Resource.Sections, all normalized with the same schema.
func (c *Client) fetchSections(ctx context.Context, key string, vars map[string]any, params Params) ([]*table.Table, error) {
	res, err := lookupResource(key)
	if err != nil {
		return nil, err
	}

	body, err := c.fetchBody(ctx, res, vars, params)
	if err != nil {
		return nil, err
	}

	tables := make([]*table.Table, 0, len(res.Sections))
	for _, section := range res.Sections {
		schema := res.Schema
		schema.Path = section

		tbl, err := table.Normalize(body, schema)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		tables = append(tables, tbl)
	}

	return tables, nil
}

func maxCountParam(n int) Params {
	if n <= 0 {
		return nil
	}
	return Params{"maxCount": n}
}
