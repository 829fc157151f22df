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
	"fmt"
	"slices"
)

type ReportType string

const (
	ReportQuarter ReportType = "quarter"
	ReportYear    ReportType = "year"
	ReportR12     ReportType = "r12"
)

var ReportTypes = []ReportType{ReportQuarter, ReportYear, ReportR12}

type PriceType string

const (
	PriceMean PriceType = "mean"
	PriceHigh PriceType = "high"
	PriceLow  PriceType = "low"
)

var PriceTypes = []PriceType{PriceMean, PriceHigh, PriceLow}

// CalcGroup is the look-back window of a screener calculation.
type CalcGroup string

const (
	CalcGroup1Year  CalcGroup = "1year"
	CalcGroup3Year  CalcGroup = "3year"
	CalcGroup5Year  CalcGroup = "5year"
	CalcGroup7Year  CalcGroup = "7year"
	CalcGroup10Year CalcGroup = "10year"
	CalcGroup15Year CalcGroup = "15year"
	CalcGroupLast   CalcGroup = "last"
)

var CalcGroups = []CalcGroup{CalcGroup1Year, CalcGroup3Year, CalcGroup5Year, CalcGroup7Year, CalcGroup10Year, CalcGroup15Year, CalcGroupLast}

// Calc is the aggregation applied over a CalcGroup.
type Calc string

const (
	CalcHigh   Calc = "high"
	CalcLatest Calc = "latest"
	CalcMean   Calc = "mean"
	CalcLow    Calc = "low"
	CalcSum    Calc = "sum"
	CalcCagr   Calc = "cagr"
)

var Calcs = []Calc{CalcHigh, CalcLatest, CalcMean, CalcLow, CalcSum, CalcCagr}

func (r ReportType) String() string { return string(r) }
func (p PriceType) String() string  { return string(p) }
func (g CalcGroup) String() string  { return string(g) }
func (c Calc) String() string       { return string(c) }

func (r ReportType) Validate() error { return validate("report type", r, ReportTypes) }
func (p PriceType) Validate() error  { return validate("price type", p, PriceTypes) }
func (g CalcGroup) Validate() error  { return validate("calc group", g, CalcGroups) }
func (c Calc) Validate() error       { return validate("calc", c, Calcs) }

func validate[T comparable](what string, val T, allowed []T) error {
	if slices.Contains(allowed, val) {
		return nil
	}
	return fmt.Errorf("%w: %s %v must be one of %v", ErrInvalidArgument, what, val, allowed)
}

// InstrumentType is the numeric instrument kind used by the API.
type InstrumentType int

const (
	InstrumentStock       InstrumentType = 0
	InstrumentPreference  InstrumentType = 1
	InstrumentIndex       InstrumentType = 2
	InstrumentStocks2     InstrumentType = 3
	InstrumentSectorIndex InstrumentType = 4
	InstrumentBranchIndex InstrumentType = 5
	InstrumentSPAC        InstrumentType = 8
	InstrumentIndexGI     InstrumentType = 13
)

var instrumentTypeNames = map[InstrumentType]string{
	InstrumentStock:       "Aktie",
	InstrumentPreference:  "Pref",
	InstrumentIndex:       "Index",
	InstrumentStocks2:     "Stocks2",
	InstrumentSectorIndex: "SectorIndex",
	InstrumentBranchIndex: "BranschIndex",
	InstrumentSPAC:        "SPAC",
	InstrumentIndexGI:     "Index GI",
}

func (t InstrumentType) String() string {
	if name, ok := instrumentTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}
