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
	"time"

	"github.com/Don-Green-Here/npdb/internal/ioindex"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getIndexCmd returns the index command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getIndexCmd() *cobra.Command {
	var symbol string

	indexCmd := &cobra.Command{
		Use:   "index [state-code]",
		Short: "Rebuild the denormalized filter index",
		Long: `Index recomputes the per-plant filter rows from canonical
plants and normalized traits.

Without arguments every canonical plant is indexed. With a state code
only plants present in that state are indexed; with --symbol a single
plant. Rebuilds are deterministic and idempotent: the same data
always produces the same index.

Examples:
  npdb index
  npdb index NC
  npdb index --symbol ACRU`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args, symbol)
		},
	}

	indexCmd.Flags().StringVarP(&symbol, "symbol", "s",
		"", "index one plant by its USDA symbol")

	return indexCmd
}

func runIndex(_ *cobra.Command, args []string, symbol string) error {
	ctx := context.Background()
	start := time.Now()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	idx := ioindex.New(op, cfg)

	if symbol != "" {
		row, err := idx.RebuildSymbol(ctx, symbol)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("Indexed <em>%s</em>: duration %s, shade %s",
			row.Symbol, row.DurationPrimary, row.ShadeTolerance)
		return nil
	}

	var res *pipeline.IndexResult
	if len(args) == 1 {
		res, err = idx.RebuildState(ctx, args[0])
	} else {
		res, err = idx.RebuildAll(ctx)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Rebuilt filter index in %s:",
		gnfmt.TimeString(time.Since(start).Seconds()))
	gn.Info("  indexed: <em>%s</em>",
		humanize.Comma(int64(res.Indexed)))
	gn.Info("  failed:  %s", humanize.Comma(int64(res.Failed)))
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'npdb search key=value' to query the index")
	gn.Info("  - Run 'npdb export <path>' to write a SQLite snapshot")

	return nil
}
