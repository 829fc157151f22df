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
	"strings"

	"github.com/spf13/cast"

	"github.com/penny-vault/borsdata/table"
)

const notApplicable = "N/A"

func (c *Client) Branches(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "branches", nil, nil)
}

func (c *Client) Countries(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "countries", nil, nil)
}

func (c *Client) Markets(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "markets", nil, nil)
}

func (c *Client) Sectors(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "sectors", nil, nil)
}

func (c *Client) TranslationMetadata(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "translation-metadata", nil, nil)
}

func (c *Client) Instruments(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "instruments", nil, nil)
}

func (c *Client) InstrumentsUpdated(ctx context.Context) (*table.Table, error) {
	return c.FetchTable(ctx, "instruments-updated", nil, nil)
}

// InstrumentsWithMetadata joins instruments with the names of their market,
// country, sector and branch. Instruments on an index market have no sector
// or branch and get N/A instead.
func (c *Client) InstrumentsWithMetadata(ctx context.Context) (*table.Table, error) {
	countries, err := c.Countries(ctx)
	if err != nil {
		return nil, err
	}

	branches, err := c.Branches(ctx)
	if err != nil {
		return nil, err
	}

	sectors, err := c.Sectors(ctx)
	if err != nil {
		return nil, err
	}

	markets, err := c.Markets(ctx)
	if err != nil {
		return nil, err
	}

	instruments, err := c.Instruments(ctx)
	if err != nil {
		return nil, err
	}

	countryNames := namesByID(countries)
	branchNames := namesByID(branches)
	sectorNames := namesByID(sectors)
	marketNames := namesByID(markets)

	res := table.New("insId", "name", "ticker", "isin", "instrumentType", "market", "country", "sector", "branch")
	for ii := 0; ii < instruments.Len(); ii++ {
		row := instruments.Row(ii)

		var instrumentType any
		if row["instrument"] != nil {
			instrumentType = InstrumentType(cast.ToInt(row["instrument"])).String()
		}

		market := lookupName(marketNames, row["marketId"])
		var sector, branch any = notApplicable, notApplicable
		if name, ok := market.(string); !ok || !strings.EqualFold(name, "index") {
			sector = lookupName(sectorNames, row["sectorId"])
			branch = lookupName(branchNames, row["branchId"])
		}

		res.Append(row["insId"], row["name"], row["ticker"], row["isin"], instrumentType,
			market, lookupName(countryNames, row["countryId"]), sector, branch)
	}

	res.SetIndex(false, "insId")
	return res, nil
}

func namesByID(tbl *table.Table) map[int]string {
	names := make(map[int]string, tbl.Len())
	ids := tbl.Column("id")
	vals := tbl.Column("name")
	if ids == nil || vals == nil {
		return names
	}

	for ii, id := range ids {
		key, err := cast.ToIntE(id)
		if err != nil || vals[ii] == nil {
			continue
		}
		names[key] = cast.ToString(vals[ii])
	}
	return names
}

// lookupName returns nil when the id is absent or unknown.
func lookupName(names map[int]string, id any) any {
	if id == nil {
		return nil
	}
	key, err := cast.ToIntE(id)
	if err != nil {
		return nil
	}
	if name, ok := names[key]; ok {
		return name
	}
	return nil
}
