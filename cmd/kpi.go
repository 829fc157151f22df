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
package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/xeonx/timeago"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

var (
	kpiReport   string
	kpiPrice    string
	kpiMaxCount int
	kpiGroup    string
	kpiCalc     string
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Download KPI history, summaries and screener values",
}

var kpiHistoryCmd = &cobra.Command{
	Use:   "history <kpi-id> <instrument-id>...",
	Short: "History of one KPI for one or more instruments",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kpiID, err := cast.ToIntE(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("KpiID", args[0]).Msg("kpi id must be a number")
		}

		insIDs, err := parseIDs(args[1:])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid instrument id")
		}

		report := borsdata.ReportType(kpiReport)
		price := borsdata.PriceType(kpiPrice)
		name := fmt.Sprintf("KPI %d %s %s", kpiID, report, price)

		fetchAndWrite(cmd, single(name, func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			if len(insIDs) == 1 {
				return client.KpiHistory(ctx, insIDs[0], kpiID, report, price, kpiMaxCount)
			}
			return client.KpiHistoryList(ctx, insIDs, kpiID, report, price, kpiMaxCount)
		}))
	},
}

var kpiSummaryCmd = &cobra.Command{
	Use:   "summary <instrument-id>",
	Short: "Every KPI of an instrument, one column per KPI id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		insIDs, err := parseIDs(args)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid instrument id")
		}

		report := borsdata.ReportType(kpiReport)
		name := fmt.Sprintf("KPI Summary %d %s", insIDs[0], report)

		fetchAndWrite(cmd, single(name, func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.KpiSummary(ctx, insIDs[0], report, kpiMaxCount)
		}))
	},
}

var kpiScreenerCmd = &cobra.Command{
	Use:   "screener <kpi-id> [instrument-id]",
	Short: "Screener value of a KPI for one or all instruments",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		kpiID, err := cast.ToIntE(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("KpiID", args[0]).Msg("kpi id must be a number")
		}

		group := borsdata.CalcGroup(kpiGroup)
		calc := borsdata.Calc(kpiCalc)
		name := fmt.Sprintf("KPI %d %s %s", kpiID, group, calc)

		if len(args) == 1 {
			fetchAndWrite(cmd, single(name, func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.KpiScreenerAll(ctx, kpiID, group, calc)
			}))
			return
		}

		insIDs, err := parseIDs(args[1:])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid instrument id")
		}

		fetchAndWrite(cmd, single(name, func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.KpiScreener(ctx, insIDs[0], kpiID, group, calc)
		}))
	},
}

var kpiUpdatedCmd = &cobra.Command{
	Use:   "updated",
	Short: "Show when KPIs were last calculated",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(cmd.Context())
		client := newClient()

		updated, err := client.KpisUpdated(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not fetch KPI calculation time")
		}

		fmt.Printf("KPIs calculated %s (%s)\n", timeago.English.Format(updated), updated.Local().Format("2006-01-02 15:04"))
	},
}

var kpiMetadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "List every KPI with its id and format",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fetchAndWrite(cmd, single("KPI Metadata", func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.KpiMetadata(ctx)
		}))
	},
}

func init() {
	rootCmd.AddCommand(kpiCmd)
	kpiCmd.AddCommand(kpiHistoryCmd, kpiSummaryCmd, kpiScreenerCmd, kpiUpdatedCmd, kpiMetadataCmd)

	kpiCmd.PersistentFlags().StringVar(&kpiReport, "report", string(borsdata.ReportYear), "report type (quarter, year, r12)")
	kpiCmd.PersistentFlags().IntVar(&kpiMaxCount, "max", 0, "maximum number of periods (0 uses the configured default)")

	kpiHistoryCmd.Flags().StringVar(&kpiPrice, "price", string(borsdata.PriceMean), "price type (mean, high, low)")

	kpiScreenerCmd.Flags().StringVar(&kpiGroup, "group", string(borsdata.CalcGroupLast), "calculation group (1year, 3year, 5year, 7year, 10year, 15year, last)")
	kpiScreenerCmd.Flags().StringVar(&kpiCalc, "calc", string(borsdata.CalcLatest), "calculation (high, latest, mean, low, sum, cagr)")
}
