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
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/borsdata/borsdata"
)

// resourcesCmd represents the resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources [key]",
	Short: "List all API resources or get details about a specific resource",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		builder := strings.Builder{}

		if len(args) > 0 {
			resource, ok := borsdata.Resources[args[0]]
			if !ok {
				log.Fatal().Str("Resource", args[0]).Msg("resource not found; run `borsdata resources` for a complete list")
			}

			builder.WriteString(fmt.Sprintf("# %s\n", resource.Name))
			builder.WriteString(resource.Description)
			builder.WriteString("\n\n## Details\n")
			builder.WriteString(fmt.Sprintf("- Path: `%s`\n", resource.Path))
			if len(resource.Sections) > 0 {
				builder.WriteString(fmt.Sprintf("- Tables: %s\n", strings.Join(resource.Sections, ", ")))
			} else if resource.Schema.Path != "" {
				builder.WriteString(fmt.Sprintf("- Extracted from: `%s`\n", resource.Schema.Path))
			}
			if resource.Schema.RecordPath != "" {
				builder.WriteString(fmt.Sprintf("- Rows from: `%s` (with %s)\n", resource.Schema.RecordPath, strings.Join(resource.Schema.Meta, ", ")))
			}
			if len(resource.Schema.Dates) > 0 {
				builder.WriteString(fmt.Sprintf("- Dates: %s\n", strings.Join(resource.Schema.Dates, ", ")))
			}
			if len(resource.Schema.Index) > 0 {
				order := "ascending"
				if resource.Schema.Descending {
					order = "descending"
				}
				builder.WriteString(fmt.Sprintf("- Index: %s (%s)\n", strings.Join(resource.Schema.Index, ", "), order))
			}
		} else {
			builder.WriteString("# Available Resources\n")
			for _, key := range borsdata.ResourceKeys() {
				resource := borsdata.Resources[key]
				builder.WriteString(fmt.Sprintf("\n## %s\n", resource.Name))
				builder.WriteString(fmt.Sprintf("`%s` %s\n", key, resource.Description))
			}
		}

		out, err := r.Render(builder.String())
		if err != nil {
			log.Fatal().Err(err).Msg("could not render resource document")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}
