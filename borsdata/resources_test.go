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
	"github.com/rs/zerolog"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

var _ = Describe("Resources", func() {
	var (
		api    *fakeAPI
		client *borsdata.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		api = newFakeAPI(map[string]string{
			"/countries": `{"countries": [{"id": 1, "name": "Sverige"}, {"id": 2, "name": "Norge"}]}`,
			"/branches":  `{"branches": [{"id": 5, "name": "Banker", "sectorId": 3}]}`,
			"/sectors":   `{"sectors": [{"id": 3, "name": "Finans"}]}`,
			"/markets":   `{"markets": [{"id": 1, "name": "Large Cap", "countryId": 1}, {"id": 7, "name": "Index", "countryId": 1}]}`,
			"/instruments": `{"instruments": [
				{"insId": 643, "name": "OMXS30", "ticker": "OMXS30", "isin": "SE0000337842", "instrument": 2, "marketId": 7, "countryId": 1, "sectorId": null, "branchId": null, "listingDate": null},
				{"insId": 3, "name": "ABB", "ticker": "ABB", "isin": "CH0012221716", "instrument": 0, "marketId": 1, "countryId": 1, "sectorId": 3, "branchId": 5, "listingDate": "1999-06-22T00:00:00"}
			]}`,
			"/instruments/3/stockprices": `{"instrument": 3, "stockPricesList": [
				{"d": "2020-01-02", "c": 10.7, "h": 11.2, "l": 10.1, "o": 10.5, "v": 1200},
				{"d": "2020-01-01", "c": 10.5, "h": 11, "l": 9, "o": 10, "v": 1000},
				{"d": "2020-01-03", "c": 10.9, "h": 11.4, "l": 10.6, "o": 10.7, "v": 900}
			]}`,
			"/instruments/stockprices": `{"stockPricesArrayList": [
				{"instrument": 3, "stockPricesList": [{"d": "2020-01-01", "c": 10.5}]},
				{"instrument": 7, "stockPricesList": [{"d": "2020-01-01", "c": 99.5}]}
			]}`,
			"/instruments/stockprices/date": `{"stockPricesList": [
				{"i": 7, "d": "2020-09-25", "c": 99.5},
				{"i": 3, "d": "2020-09-25", "c": 10.5}
			]}`,
			"/instruments/3/kpis/year/summary": `{"instrument": 3, "reportTime": "year", "kpis": [
				{"KpiId": 2, "values": [{"y": 2020, "p": 5, "v": 1.0}, {"y": 2019, "p": 5, "v": 2.0}]},
				{"KpiId": 10, "values": [{"y": 2020, "p": 5, "v": 3.0}]}
			]}`,
			"/instruments/3/kpis/2/year/mean/history": `{"kpiId": 2, "reportTime": "year", "priceValue": "mean", "values": [
				{"y": 2019, "p": 5, "v": 2.0},
				{"y": 2020, "p": 5, "v": 1.0}
			]}`,
			"/instruments/3/kpis/2/last/latest": `{"kpiId": 2, "calcGroup": "last", "calc": "latest", "value": {"i": 3, "n": 12.5, "s": null}}`,
			"/instruments/kpis/updated":         `{"kpisCalcUpdated": "2024-05-03T06:12:00"}`,
			"/instruments/3/reports": `{"instrument": 3,
				"reportsQuarter": [
					{"year": 2020, "period": 1, "revenues": 100, "net_Sales": 90, "report_Start_Date": "2020-01-01T00:00:00", "report_End_Date": "2020-03-31T00:00:00", "report_Date": "2020-04-20T00:00:00"},
					{"year": 2020, "period": 2, "revenues": 110, "net_Sales": 95, "report_Start_Date": "2020-04-01T00:00:00", "report_End_Date": "2020-06-30T00:00:00", "report_Date": "2020-07-20T00:00:00"}
				],
				"reportsYear": [{"year": 2019, "period": 5, "revenues": 400, "net_Sales": 380}],
				"reportsR12": []
			}`,
			"/instruments/reports/metadata": `{"reportMetadatas": [
				{"reportPropery": "net_Sales", "nameSv": "Nettoomsättning", "nameEn": "Net Sales"},
				{"reportPropery": "cash_Flow", "nameSv": "Kassaflöde", "nameEn": "Cash Flow"}
			]}`,
			"/instruments/stocksplits": `{"stockSplitList": [{"instrumentId": 3, "splitType": "Split", "ratio": "1:2", "splitDate": "2021-05-03T00:00:00"}]}`,
		})
		client = borsdata.New("secret", borsdata.WithBaseURL(api.URL()), borsdata.WithCallsPerSecond(0), borsdata.WithLogger(zerolog.Nop()))
		ctx = context.Background()
	})

	AfterEach(func() {
		api.Close()
	})

	It("registers every resource under its own key", func() {
		for _, key := range borsdata.ResourceKeys() {
			Expect(borsdata.Resources[key].Key).To(Equal(key))
		}
		Expect(borsdata.ResourceKeys()).To(ContainElements("branches", "kpi-summary", "stock-prices-list"))
	})

	It("expands path placeholders", func() {
		path := borsdata.Resources["kpi-history"].Expand(map[string]any{
			"insId":      3,
			"kpiId":      2,
			"reportType": borsdata.ReportYear,
			"priceType":  borsdata.PriceMean,
		})
		Expect(path).To(Equal("instruments/3/kpis/2/year/mean/history"))
	})

	It("fails on an unknown resource", func() {
		_, err := client.FetchTable(ctx, "bogus", nil, nil)
		Expect(errors.Is(err, borsdata.ErrUnknownResource)).To(BeTrue())
	})

	Describe("StockPrices", func() {
		It("renames, parses dates and sorts newest first", func() {
			tbl, err := client.StockPrices(ctx, 3, borsdata.StockPriceOptions{
				From:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				To:       time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
				MaxCount: 100,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(tbl.Columns).To(Equal([]string{"date", "close", "high", "low", "open", "volume"}))
			Expect(tbl.Index()).To(Equal([]string{"date"}))
			Expect(tbl.Column("close")).To(Equal([]any{10.9, 10.7, 10.5}))
			Expect(tbl.Value(2, "date")).To(Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

			query := api.last().Query()
			Expect(query.Get("from")).To(Equal("2020-01-01"))
			Expect(query.Get("to")).To(Equal("2020-01-31"))
			Expect(query.Get("maxCount")).To(Equal("100"))
		})

		It("rejects a reversed date range without calling the API", func() {
			_, err := client.StockPrices(ctx, 3, borsdata.StockPriceOptions{
				From: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			})
			Expect(errors.Is(err, borsdata.ErrInvalidArgument)).To(BeTrue())
			Expect(api.paths()).To(BeEmpty())
		})
	})

	Describe("StockPricesList", func() {
		It("joins the instrument list and keys rows by instrument and date", func() {
			tbl, err := client.StockPricesList(ctx, []int{3, 7}, borsdata.StockPriceOptions{})
			Expect(err).NotTo(HaveOccurred())

			Expect(api.last().Query().Get("instList")).To(Equal("3,7"))
			Expect(tbl.Index()).To(Equal([]string{"insId", "date"}))
			Expect(tbl.Column("insId")).To(Equal([]any{float64(7), float64(3)}))
		})
	})

	Describe("StockPricesDate", func() {
		It("sends the date and sorts by instrument", func() {
			tbl, err := client.StockPricesDate(ctx, time.Date(2020, 9, 25, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())

			Expect(api.last().Query().Get("date")).To(Equal("2020-09-25"))
			Expect(tbl.Column("insId")).To(Equal([]any{float64(3), float64(7)}))
		})
	})

	Describe("KpiSummary", func() {
		It("pivots one column per kpi and leaves gaps empty", func() {
			tbl, err := client.KpiSummary(ctx, 3, borsdata.ReportYear, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(tbl.Columns).To(Equal([]string{"year", "period", "2", "10"}))
			Expect(tbl.Len()).To(Equal(2))
			Expect(tbl.Row(0)).To(Equal(map[string]any{"year": float64(2020), "period": float64(5), "2": 1.0, "10": 3.0}))
			Expect(tbl.Row(1)).To(Equal(map[string]any{"year": float64(2019), "period": float64(5), "2": 2.0, "10": nil}))
		})
	})

	Describe("KpiHistory", func() {
		It("sorts by year and period descending", func() {
			tbl, err := client.KpiHistory(ctx, 3, 2, borsdata.ReportYear, borsdata.PriceMean, 10)
			Expect(err).NotTo(HaveOccurred())

			Expect(tbl.Columns).To(Equal([]string{"year", "period", "kpiValue"}))
			Expect(tbl.Column("year")).To(Equal([]any{float64(2020), float64(2019)}))
			Expect(api.last().Query().Get("maxCount")).To(Equal("10"))
		})

		It("validates the report type before calling the API", func() {
			_, err := client.KpiHistory(ctx, 3, 2, borsdata.ReportType("monthly"), borsdata.PriceMean, 0)
			Expect(errors.Is(err, borsdata.ErrInvalidArgument)).To(BeTrue())
			Expect(api.paths()).To(BeEmpty())
		})
	})

	Describe("KpiScreener", func() {
		It("turns a single value into one row", func() {
			tbl, err := client.KpiScreener(ctx, 3, 2, borsdata.CalcGroupLast, borsdata.CalcLatest)
			Expect(err).NotTo(HaveOccurred())

			Expect(tbl.Len()).To(Equal(1))
			row, ok := tbl.Lookup(float64(3))
			Expect(ok).To(BeTrue())
			Expect(row["valueNum"]).To(Equal(12.5))
		})
	})

	Describe("KpisUpdated", func() {
		It("reads the calculation time from the body", func() {
			updated, err := client.KpisUpdated(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).To(Equal(time.Date(2024, 5, 3, 6, 12, 0, 0, time.UTC)))
		})
	})

	Describe("Reports", func() {
		It("returns the quarter, year and r12 tables", func() {
			reports, err := client.Reports(ctx, 3, 5, 8)
			Expect(err).NotTo(HaveOccurred())

			query := api.last().Query()
			Expect(query.Get("maxYearCount")).To(Equal("5"))
			Expect(query.Get("maxR12QCount")).To(Equal("8"))

			Expect(reports.Quarter.Len()).To(Equal(2))
			Expect(reports.Quarter.HasColumns("netSales", "reportStartDate", "reportEndDate", "reportDate")).To(BeTrue())
			Expect(reports.Quarter.Column("period")).To(Equal([]any{float64(2), float64(1)}))
			Expect(reports.Quarter.Value(1, "reportDate")).To(Equal(time.Date(2020, 4, 20, 0, 0, 0, 0, time.UTC)))

			Expect(reports.Get(borsdata.ReportYear).Len()).To(Equal(1))
			Expect(reports.R12.Len()).To(Equal(0))
		})
	})

	Describe("ReportsMetadata", func() {
		It("fixes the property column name and values", func() {
			tbl, err := client.ReportsMetadata(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(tbl.Index()).To(Equal([]string{"reportProperty"}))
			Expect(tbl.Column("reportProperty")).To(Equal([]any{"cashFlow", "netSales"}))
		})
	})

	Describe("StockSplits", func() {
		It("renames the instrument id", func() {
			tbl, err := client.StockSplits(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(tbl.Index()).To(Equal([]string{"insId"}))
			Expect(tbl.Value(0, "splitDate")).To(Equal(time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("InstrumentsWithMetadata", func() {
		It("joins names onto each instrument", func() {
			tbl, err := client.InstrumentsWithMetadata(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(api.paths()).To(Equal([]string{"/countries", "/branches", "/sectors", "/markets", "/instruments"}))
			Expect(tbl.Index()).To(Equal([]string{"insId"}))
			Expect(tbl.Row(0)).To(Equal(map[string]any{
				"insId":          float64(3),
				"name":           "ABB",
				"ticker":         "ABB",
				"isin":           "CH0012221716",
				"instrumentType": "Aktie",
				"market":         "Large Cap",
				"country":        "Sverige",
				"sector":         "Finans",
				"branch":         "Banker",
			}))
			Expect(tbl.Row(1)).To(HaveKeyWithValue("instrumentType", "Index"))
			Expect(tbl.Row(1)).To(HaveKeyWithValue("sector", "N/A"))
			Expect(tbl.Row(1)).To(HaveKeyWithValue("branch", "N/A"))
		})
	})

	Describe("shape errors", func() {
		It("report a missing top-level key", func() {
			api.setBody("/sectors", `{"unexpected": []}`)
			_, err := client.Sectors(ctx)
			Expect(errors.Is(err, table.ErrMissingKey)).To(BeTrue())
		})
	})
})
