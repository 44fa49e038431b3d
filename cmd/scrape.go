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

	"github.com/Don-Green-Here/npdb/internal/iofetch"
	"github.com/Don-Green-Here/npdb/internal/iotraits"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getScrapeCmd returns the scrape command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getScrapeCmd() *cobra.Command {
	var refetch bool

	scrapeCmd := &cobra.Command{
		Use:   "scrape <state-code>",
		Short: "Fetch per-plant profile and characteristics pages",
		Long: `Scrape downloads the profile and characteristics pages for
every canonical plant present in a state and extracts their trait
key-value pairs.

Each symbol/page pair is settled once: pages known to hold no data or
to have failed are not revisited on later runs. Use --refetch to
bypass the gate and download everything again.

Scraping runs 'jobs_number' pages concurrently. A page that fails is
recorded and skipped; it never aborts the pass.

Examples:
  npdb scrape NC
  npdb scrape NC --refetch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, args, refetch)
		},
	}

	scrapeCmd.Flags().BoolVarP(&refetch, "refetch", "r",
		false, "re-download pages already settled by a prior run")

	return scrapeCmd
}

func runScrape(_ *cobra.Command, args []string, refetch bool) error {
	ctx := context.Background()
	start := time.Now()

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

	res, err := tm.ScrapeState(ctx, args[0], refetch)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Scraped pages for <em>%s</em> in %s:",
		args[0], gnfmt.TimeString(time.Since(start).Seconds()))
	gn.Info("  fetched:   <em>%s</em>",
		humanize.Comma(int64(res.Fetched)))
	gn.Info("  skipped:   %s (settled earlier)",
		humanize.Comma(int64(res.SkippedDone)))
	gn.Info("  no data:   %s", humanize.Comma(int64(res.NoData)))
	gn.Info("  errors:    %s", humanize.Comma(int64(res.Errors)))
	gn.Info("  trait KVs: %s", humanize.Comma(int64(res.KVs)))
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'npdb normalize %s' to project traits", args[0])

	return nil
}
