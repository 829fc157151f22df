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
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/gosimple/slug"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/table"
)

var (
	csvFile string
	outDir  string
	maxRows int

	// markdownStyle picks the glamour theme; detects the terminal background by default
	markdownStyle = glamour.WithAutoStyle()
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&csvFile, "csv", "", "write the table as CSV to this file (- for stdout)")
	cmd.PersistentFlags().StringVar(&outDir, "out-dir", "", "write each table as CSV into this directory")
	cmd.PersistentFlags().IntVar(&maxRows, "max-rows", 50, "maximum rows to print when rendering markdown (0 for all)")
}

type namedTable struct {
	Name  string
	Table *table.Table
}

type fetchFunc func(ctx context.Context, client *borsdata.Client) ([]namedTable, error)

// single adapts a function returning one table into a fetchFunc.
func single(name string, fn func(ctx context.Context, client *borsdata.Client) (*table.Table, error)) fetchFunc {
	return func(ctx context.Context, client *borsdata.Client) ([]namedTable, error) {
		tbl, err := fn(ctx, client)
		if err != nil {
			return nil, err
		}
		return []namedTable{{Name: name, Table: tbl}}, nil
	}
}

// fetchAndWrite runs fetch with a configured client and writes every table
// it returns.
func fetchAndWrite(cmd *cobra.Command, fetch fetchFunc) {
	ctx := log.Logger.WithContext(cmd.Context())
	client := newClient()

	startTime := time.Now()
	tables, err := fetch(ctx, client)
	if err != nil {
		log.Fatal().Err(err).Str("Command", cmd.CommandPath()).Msg("fetch returned an error")
	}
	runTime := time.Since(startTime)

	p := message.NewPrinter(language.English)
	for _, named := range tables {
		log.Info().Str("Table", named.Name).Str("NumRows", p.Sprintf("%d", named.Table.Len())).
			Str("RunTime", durafmt.Parse(runTime).String()).Msg("successfully fetched table")

		if err := writeTable(named); err != nil {
			log.Fatal().Err(err).Str("Table", named.Name).Msg("could not write table")
		}
	}
}

func writeTable(named namedTable) error {
	switch {
	case csvFile == "-":
		return named.Table.WriteCSV(os.Stdout)
	case csvFile != "":
		fn := csvFile
		if strings.Contains(fn, "{name}") {
			fn = strings.ReplaceAll(fn, "{name}", slug.Make(named.Name))
		}
		return writeCSVFile(fn, named.Table)
	case outDir != "":
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
		return writeCSVFile(filepath.Join(outDir, slug.Make(named.Name)+".csv"), named.Table)
	default:
		return renderMarkdown(os.Stdout, named)
	}
}

func writeCSVFile(fn string, tbl *table.Table) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	if err := tbl.WriteCSV(fh); err != nil {
		return err
	}

	log.Info().Str("FileName", fn).Msg("saved table")
	return fh.Close()
}

func renderMarkdown(w io.Writer, named namedTable) error {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString(fmt.Sprintf("# %s\n\n", named.Name))
	if maxRows > 0 && named.Table.Len() > maxRows {
		builder.WriteString(p.Sprintf("Showing %d of %d rows\n\n", maxRows, named.Table.Len()))
	} else {
		builder.WriteString(p.Sprintf("%d rows\n\n", named.Table.Len()))
	}
	builder.WriteString(named.Table.Markdown(maxRows))

	r, err := glamour.NewTermRenderer(
		markdownStyle,
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(builder.String())
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, out)
	return err
}
