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

	"github.com/Don-Green-Here/npdb/internal/iocanon"
	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/Don-Green-Here/npdb/pkg/parserpool"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getCanonicalizeCmd returns the canonicalize command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCanonicalizeCmd() *cobra.Command {
	canonCmd := &cobra.Command{
		Use:   "canonicalize <state-code|fetch-id>",
		Short: "Merge raw records into canonical plants",
		Long: `Canonicalize reconciles the raw records of a checklist fetch
into canonical plants, state presences, synonym links and common
names.

Scientific names are parsed with gnparser to derive the canonical
name form. Merging only fills empty fields of existing plants; it
never overwrites data contributed by an earlier state.

Examples:
  npdb canonicalize NC
  npdb canonicalize 42`,
		Args: cobra.ExactArgs(1),
		RunE: runCanonicalize,
	}

	return canonCmd
}

func runCanonicalize(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

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

	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	canon := iocanon.New(op, pool)
	res, err := canon.CanonicalizeFetch(ctx, fetchID)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Canonicalized fetch %d in %s:",
		fetchID, gnfmt.TimeString(time.Since(start).Seconds()))
	gn.Info("  plants created: <em>%s</em>",
		humanize.Comma(int64(res.Created)))
	gn.Info("  plants updated: %s", humanize.Comma(int64(res.Updated)))
	gn.Info("  rejected rows:  %s", humanize.Comma(int64(res.Rejected)))
	gn.Info("  presences:      %s", humanize.Comma(int64(res.Presences)))
	gn.Info("  synonyms:       %s", humanize.Comma(int64(res.Synonyms)))
	gn.Info("  common names:   %s",
		humanize.Comma(int64(res.CommonNames)))
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'npdb scrape <state>' to fetch plant pages")

	return nil
}
