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
	"strings"

	"github.com/Don-Green-Here/npdb/internal/ioindex"
	"github.com/Don-Green-Here/npdb/pkg/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getSearchCmd returns the search command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getSearchCmd() *cobra.Command {
	var limit int

	searchCmd := &cobra.Command{
		Use:   "search [facet=value...]",
		Short: "Query the filter index",
		Long: `Search returns plants whose index row matches every given
facet filter.

Scalar facets (shade_tolerance, moisture_use, bloom_period,
duration_primary, flower_conspicuous, fall_conspicuous,
leaf_retention, plant_group, family) match the index row directly.
The multi-valued facets duration and growth_habit match through their
child tables, and state restricts results to plants present in a
state. Derived flags (is_shade_tolerant, is_evergreen,
is_showy_bloomer, has_fall_interest, is_non_flowering) take yes/no.

An unknown facet name is an error, not an ignored condition.

Examples:
  npdb search shade_tolerance=Tolerant
  npdb search state=NC duration=Perennial is_evergreen=yes
  npdb search growth_habit=Tree --limit 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, limit)
		},
	}

	searchCmd.Flags().IntVarP(&limit, "limit", "l",
		0, "maximum number of results (default 100)")

	return searchCmd
}

func runSearch(_ *cobra.Command, args []string, limit int) error {
	filters := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" || value == "" {
			err := fmt.Errorf("bad filter %q, expected facet=value", arg)
			gn.PrintErrorMessage(err)
			return err
		}
		filters[key] = value
	}

	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	idx := ioindex.New(op, cfg)
	rows, err := idx.Search(ctx, pipeline.SearchQuery{
		Filters: filters,
		Limit:   limit,
	})
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if len(rows) == 0 {
		gn.Info("No plants match")
		return nil
	}

	for _, r := range rows {
		common := r.PreferredCommonName.String
		if common == "" {
			common = "-"
		}
		fmt.Printf("%-10s %-40s %-25s %s/%s shade:%s\n",
			r.Symbol, r.ScientificName, common,
			r.DurationPrimary, r.BloomPeriod, r.ShadeTolerance)
	}
	gn.Info("\n<em>%s</em> plants match", humanize.Comma(int64(len(rows))))

	return nil
}
