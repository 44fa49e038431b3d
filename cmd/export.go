/*
Copyright © 2026 Don Green <don.green.here@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"sort"
	"time"

	"github.com/Don-Green-Here/npdb/internal/ioexport"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write a portable SQLite snapshot",
		Long: `Export writes a standalone SQLite file with the canonical
plants, their state presences, normalized traits and the filter
index.

The snapshot is suitable for embedding in downstream applications.
Raw fetches and the lossless trait KV store stay behind in
PostgreSQL. An existing file at the path is replaced.

Examples:
  npdb export plants.sqlite
  npdb export /tmp/snapshot.db`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	return exportCmd
}

func runExport(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	exp := ioexport.New(op)
	res, err := exp.Export(ctx, args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Exported snapshot to <em>%s</em> in %s:",
		args[0], gnfmt.TimeString(time.Since(start).Seconds()))

	tables := make([]string, 0, len(res.Tables))
	for name := range res.Tables {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		gn.Info("  %-24s %s rows", name,
			humanize.Comma(int64(res.Tables[name])))
	}

	return nil
}
