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

	"github.com/spf13/cobra"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

type metadataCommand struct {
	use   string
	short string
	name  string
	fetch func(*borsdata.Client, context.Context) (*table.Table, error)
}

var metadataCommands = []metadataCommand{
	{use: "branches", short: "List industry branches", name: "Branches", fetch: (*borsdata.Client).Branches},
	{use: "countries", short: "List countries", name: "Countries", fetch: (*borsdata.Client).Countries},
	{use: "markets", short: "List markets", name: "Markets", fetch: (*borsdata.Client).Markets},
	{use: "sectors", short: "List sectors", name: "Sectors", fetch: (*borsdata.Client).Sectors},
	{use: "translations", short: "List Swedish and English names of API terms", name: "Translation Metadata", fetch: (*borsdata.Client).TranslationMetadata},
	{use: "splits", short: "List stock splits of the last year", name: "Stock Splits", fetch: (*borsdata.Client).StockSplits},
}

func init() {
	for _, mc := range metadataCommands {
		mc := mc
		rootCmd.AddCommand(&cobra.Command{
			Use:   mc.use,
			Short: mc.short,
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fetchAndWrite(cmd, single(mc.name, func(ctx context.Context, client *borsdata.Client) (*table.Table, error) {
					return mc.fetch(client, ctx)
				}))
			},
		})
	}
}
