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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

var (
	instrumentsUpdated      bool
	instrumentsWithMetadata bool
)

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List all instruments",
	Long: `List every Nordic instrument known to Börsdata. With --with-metadata the
market, country, sector and branch ids are replaced by their names, which
takes five API calls. With --updated only the time each instrument was last
updated is listed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case instrumentsUpdated && instrumentsWithMetadata:
			log.Fatal().Msg("--updated and --with-metadata cannot be combined")
		case instrumentsUpdated:
			fetchAndWrite(cmd, single("Updated Instruments", func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.InstrumentsUpdated(ctx)
			}))
		case instrumentsWithMetadata:
			fetchAndWrite(cmd, single("Instruments With Metadata", func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.InstrumentsWithMetadata(ctx)
			}))
		default:
			fetchAndWrite(cmd, single("Instruments", func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
				return client.Instruments(ctx)
			}))
		}
	},
}

func init() {
	rootCmd.AddCommand(instrumentsCmd)
	instrumentsCmd.Flags().BoolVar(&instrumentsUpdated, "updated", false, "list when each instrument was last updated")
	instrumentsCmd.Flags().BoolVar(&instrumentsWithMetadata, "with-metadata", false, "join market, country, sector and branch names")
}
