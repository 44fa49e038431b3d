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
	"fmt"
	"strconv"

	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/Don-Green-Here/npdb/internal/ioingest"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/Don-Green-Here/npdb/pkg/usda"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getParseCmd returns the parse command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getParseCmd() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse <state-code|fetch-id>",
		Short: "Parse a downloaded checklist into raw records",
		Long: `Parse reads the CSV body of a recorded checklist fetch and
stores its rows as raw state plant records.

The argument is either a two-letter state code, which resolves to the
latest successful checklist fetch for that state, or a numeric fetch
ID from the ledger. Parsing never downloads anything; re-running it
over the same fetch inserts nothing new.

Examples:
  npdb parse NC
  npdb parse 42`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	return parseCmd
}

func runParse(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	ledger := iofetch.NewLedger(op)
	fetchID, err := resolveChecklistFetch(ctx, ledger, args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	ing := ioingest.New(op, ledger, cfg)
	res, err := ing.ParseFetch(ctx, fetchID)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Parsed fetch %d:", fetchID)
	gn.Info("  accepted: <em>%s</em>",
		humanize.Comma(int64(res.Accepted)))
	gn.Info("  skipped:  %s (already stored)",
		humanize.Comma(int64(res.Skipped)))
	gn.Info("  rejected: %s", humanize.Comma(int64(res.Rejected)))
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'npdb canonicalize %s' to merge raw records", args[0])

	return nil
}

// resolveChecklistFetch turns a command argument into a ledger fetch
// ID. A numeric argument is an ID; anything else is a state code that
// resolves to the latest successful checklist download.
func resolveChecklistFetch(
	ctx context.Context,
	ledger pipeline.Ledger,
	arg string,
) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}

	reg, err := loadRegistry()
	if err != nil {
		return 0, err
	}
	st, ok := reg.ByCode(arg)
	if !ok {
		return 0, fmt.Errorf("unknown state code %q", arg)
	}

	fetch, err := ledger.LatestSuccess(ctx, usda.ChecklistURL(st.Slug))
	if err != nil {
		return 0, err
	}
	if fetch == nil {
		return 0, fmt.Errorf(
			"no successful checklist fetch for %s, run 'npdb fetch %s' first",
			st.Code, st.Code)
	}
	return fetch.ID, nil
}
