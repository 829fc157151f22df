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
	"github.com/spf13/cobra"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

var (
	reportType     string
	reportMaxCount int
	reportMaxYears int
	reportMaxR12Q  int
)

var reportsCmd = &cobra.Command{
	Use:   "reports <instrument-id>...",
	Short: "Download financial reports",
	Long: `Download financial reports for one or more instruments. For a single
instrument without --type the quarter, year and R12 reports are fetched in one
call and written as three tables. With --type, or when several instruments are
given, one table of that report type is written.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		insIDs, err := parseIDs(args)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid instrument id")
		}

		report := borsdata.ReportType(reportType)

		switch {
		case len(insIDs) == 1 && reportType == "":
			fetchAndWrite(cmd, func(ctx context.Context, client *borsdata.Client) ([]namedTable, error) {
				reports, err := client.Reports(ctx, insIDs[0], reportMaxYears, reportMaxR12Q)
				if err != nil {
					return nil, err
				}

				res := make([]namedTable, 0, len(borsdata.ReportTypes))
				for _, rt := range borsdata.ReportTypes {
					res = append(res, namedTable{
						Name:  fmt.Sprintf("Reports %d %s", insIDs[0], rt),
						Table: reports.Get(rt),
					})
				}
				return res, nil
			})
		case len(insIDs) == 1:
			fetchAndWrite(cmd, single(fmt.Sprintf("Reports %d %s", insIDs[0], report), func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.Report(ctx, insIDs[0], report, reportMaxCount)
			}))
		default:
			if reportType == "" {
				report = borsdata.ReportYear
			}
			fetchAndWrite(cmd, single(fmt.Sprintf("Reports %s", report), func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.ReportsList(ctx, insIDs, report, reportMaxCount)
			}))
		}
	},
}

var reportsMetadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "List every report property",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fetchAndWrite(cmd, single("Reports Metadata", func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.ReportsMetadata(ctx)
		}))
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsMetadataCmd)

	reportsCmd.Flags().StringVar(&reportType, "type", "", "report type (quarter, year, r12)")
	reportsCmd.Flags().IntVar(&reportMaxCount, "max", 0, "maximum number of reports for a single report type")
	reportsCmd.Flags().IntVar(&reportMaxYears, "max-years", 0, "maximum number of year reports when fetching all types")
	reportsCmd.Flags().IntVar(&reportMaxR12Q, "max-r12q", 0, "maximum number of quarter and R12 reports when fetching all types")
}
