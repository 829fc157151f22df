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
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

var (
	priceFrom     string
	priceTo       string
	priceMaxCount int
)

var pricesCmd = &cobra.Command{
	Use:   "prices <instrument-id>...",
	Short: "Download end of day stock prices",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		insIDs, err := parseIDs(args)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid instrument id")
		}

		from, err := parseDate(priceFrom)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --from")
		}

		to, err := parseDate(priceTo)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --to")
		}

		opts := borsdata.StockPriceOptions{From: from, To: to, MaxCount: priceMaxCount}

		if len(insIDs) == 1 {
			fetchAndWrite(cmd, single(fmt.Sprintf("Stock Prices %d", insIDs[0]), func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.StockPrices(ctx, insIDs[0], opts)
			}))
			return
		}

		fetchAndWrite(cmd, single(fmt.Sprintf("Stock Prices %s", strings.Join(args, " ")), func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.StockPricesList(ctx, insIDs, opts)
		}))
	},
}

var pricesLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Latest price of every instrument",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fetchAndWrite(cmd, single("Last Stock Prices", func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.StockPricesLast(ctx)
		}))
	},
}

var pricesDateCmd = &cobra.Command{
	Use:   "date <YYYY-MM-DD>",
	Short: "Price of every instrument on a date",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		date, err := parseDate(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid date")
		}

		fetchAndWrite(cmd, single(fmt.Sprintf("Stock Prices %s", date.Format("2006-01-02")), func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
			return client.StockPricesDate(ctx, date)
		}))
	},
}

func init() {
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.AddCommand(pricesLastCmd, pricesDateCmd)

	pricesCmd.Flags().StringVar(&priceFrom, "from", "", "first date to fetch (YYYY-MM-DD)")
	pricesCmd.Flags().StringVar(&priceTo, "to", "", "last date to fetch (YYYY-MM-DD)")
	pricesCmd.Flags().IntVar(&priceMaxCount, "max", 0, "maximum number of prices (0 uses the configured default)")
}
