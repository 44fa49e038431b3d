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

	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/Don-Green-Here/npdb/internal/iotraits"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getNormalizeCmd returns the normalize command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getNormalizeCmd() *cobra.Command {
	var symbol string

	normalizeCmd := &cobra.Command{
		Use:   "normalize <state-code>",
		Short: "Project raw trait values into typed traits",
		Long: `Normalize recomputes typed trait rows from the raw trait
key-value store.

For each plant, one best observation per trait name is picked (the
direct summary lookup wins over page sections, non-blank over blank,
newer over older) and projected through the trait mapping rules.
Previous normalized rows are replaced in place, so re-running always
converges on the same result.

Use --symbol to normalize a single plant instead of a whole state.

Examples:
  npdb normalize NC
  npdb normalize --symbol ACRU`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, symbol)
		},
	}

	normalizeCmd.Flags().StringVarP(&symbol, "symbol", "s",
		"", "normalize one plant by its USDA symbol")

	return normalizeCmd
}

func runNormalize(
	cmd *cobra.Command,
	args []string,
	symbol string,
) error {
	if symbol == "" && len(args) == 0 {
		return cmd.Help()
	}

	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	ledger := iofetch.NewLedger(op)
	fetcher := iofetch.New(&cfg.Fetch, ledger, reg)
	tm := iotraits.New(op, fetcher, ledger, cfg)

	var res *pipeline.NormalizeResult
	if symbol != "" {
		res, err = tm.NormalizeSymbol(ctx, symbol)
	} else {
		res, err = tm.NormalizeState(ctx, args[0])
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Normalized traits:")
	gn.Info("  plants:       <em>%s</em>",
		humanize.Comma(int64(res.Symbols)))
	gn.Info("  traits:       %s", humanize.Comma(int64(res.Traits)))
	gn.Info("  unrecognized: %s",
		humanize.Comma(int64(res.Unrecognized)))
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'npdb index' to rebuild the filter index")

	return nil
}
